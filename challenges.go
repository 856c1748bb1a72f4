package main

import (
	"context"
	"strconv"
	"strings"
)

func (c *Controller) loadChallenges(ctx context.Context) {
	c.println(renderSection(c.tx.T("challenges.title")))
	c.println(renderPlaceholder(c.tx.T("common.loading")))

	all, err := c.api.Challenges(ctx)
	if err != nil {
		c.challenges = nil
		c.println(c.errorText(err))
		c.checkAuth(err)
		return
	}

	custom := make([]Challenge, 0, len(all))
	for _, ch := range all {
		if ch.Custom() {
			custom = append(custom, ch)
		}
	}
	c.challenges = custom

	if len(custom) == 0 {
		c.println(renderPlaceholder(c.tx.T("challenges.empty")))
		return
	}
	for i, ch := range custom {
		c.println(renderChallengeCard(c.tx, i, ch))
	}
}

func (c *Controller) createChallenge(ctx context.Context, _ string) error {
	c.println(renderSection(c.tx.T("challenge.create_title")))

	var (
		draft NewChallenge
		err   error
	)
	if c.cfg.Dashboard.CO2Entry == co2EntryTemplate {
		draft, err = c.challengeFromTemplate()
	} else {
		draft, err = c.challengeFromInput()
	}
	if err != nil {
		return err
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.CO2 = strings.TrimSpace(draft.CO2)
	if draft.Title == "" || draft.Description == "" || draft.CO2 == "" || draft.Points <= 0 {
		c.ui.Alert(c.tx.T("challenge.invalid"))
		return nil
	}

	created, err := c.api.CreateChallenge(ctx, draft)
	if err != nil {
		c.fail(err)
		return nil
	}
	logger.Info("challenge created", "id", created.ID, "title", draft.Title)
	c.ui.Alert(c.tx.T("challenge.created"))
	c.loadChallenges(ctx)
	return nil
}

// challengeFromInput collects a challenge with a free text CO2 value.
func (c *Controller) challengeFromInput() (NewChallenge, error) {
	var d NewChallenge
	var err error

	if d.Title, err = c.ui.Ask(c.tx.T("challenge.title")); err != nil {
		return d, err
	}
	if d.Description, err = c.ui.Ask(c.tx.T("challenge.description")); err != nil {
		return d, err
	}
	rawPoints, err := c.ui.Ask(c.tx.T("challenge.points") + " [5]")
	if err != nil {
		return d, err
	}
	d.Points = parsePoints(rawPoints, 5)
	if d.CO2, err = c.ui.Ask(c.tx.T("challenge.co2")); err != nil {
		return d, err
	}
	if d.CO2QuantityBased, err = c.ui.Confirm(c.tx.T("challenge.co2_quantity")); err != nil {
		return d, err
	}
	return d, nil
}

// challengeFromTemplate collects a challenge whose points and CO2 come from a
// predefined action. An unknown choice leaves them empty so validation fails.
func (c *Controller) challengeFromTemplate() (NewChallenge, error) {
	var d NewChallenge

	c.println(renderTemplates(c.cfg.Dashboard.Templates))
	raw, err := c.ui.Ask(c.tx.T("challenge.template"))
	if err != nil {
		return d, err
	}
	if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		if tpl, ok := findTemplate(c.cfg.Dashboard.Templates, id); ok {
			d.Points = tpl.Points
			d.CO2 = tpl.CO2
			c.println(metaStyle.Render(c.tx.T("challenge.template_points", tpl.Points)))
			c.println(metaStyle.Render(c.tx.T("challenge.template_co2", tpl.CO2)))
		}
	}

	if d.Title, err = c.ui.Ask(c.tx.T("challenge.title")); err != nil {
		return d, err
	}
	if d.Description, err = c.ui.Ask(c.tx.T("challenge.description")); err != nil {
		return d, err
	}
	return d, nil
}

// parsePoints falls back to def for blank input and to 0 for garbage so the
// form validation rejects it.
func parsePoints(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (c *Controller) toggleChallenge(ctx context.Context, arg string) error {
	i, ok := c.pick(arg, len(c.challenges))
	if !ok {
		return nil
	}
	ch := c.challenges[i]

	deactivate := ch.Active
	if deactivate {
		confirmed, err := c.ui.Confirm(c.tx.T("challenge.confirm_deactivate"))
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	if err := c.api.SetChallengeActive(ctx, ch.ID, !deactivate); err != nil {
		c.fail(err)
		return nil
	}
	logger.Info("challenge toggled", "id", ch.ID, "active", !deactivate)
	if deactivate {
		c.ui.Alert(c.tx.T("challenge.deactivated"))
	} else {
		c.ui.Alert(c.tx.T("challenge.activated"))
	}
	c.loadChallenges(ctx)
	return nil
}

func (c *Controller) deleteChallenge(ctx context.Context, arg string) error {
	i, ok := c.pick(arg, len(c.challenges))
	if !ok {
		return nil
	}
	ch := c.challenges[i]

	confirmed, err := c.ui.Confirm(c.tx.T("challenge.confirm_delete"))
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	if err := c.api.DeleteChallenge(ctx, ch.ID); err != nil {
		c.fail(err)
		return nil
	}
	logger.Info("challenge deleted", "id", ch.ID)
	c.ui.Alert(c.tx.T("challenge.deleted"))
	c.loadChallenges(ctx)
	return nil
}
