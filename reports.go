package main

import (
	"context"
	"strings"
)

func (c *Controller) loadReports(ctx context.Context) {
	c.println(renderSection(c.tx.T("reports.title")))
	c.println(renderPlaceholder(c.tx.T("common.loading")))

	reports, err := c.api.PendingReports(ctx)
	if err != nil {
		c.reports = nil
		c.println(c.errorText(err))
		c.checkAuth(err)
		return
	}
	c.reports = reports

	if len(reports) == 0 {
		c.println(renderPlaceholder(c.tx.T("reports.empty")))
		return
	}
	for i, r := range reports {
		c.println(renderReportCard(c.tx, i, r))
	}
}

func (c *Controller) approveReport(ctx context.Context, arg string) error {
	i, ok := c.pick(arg, len(c.reports))
	if !ok {
		return nil
	}
	r := c.reports[i]

	quantity := 0.0
	if r.CO2QuantityBased {
		input, ok, err := c.ui.Prompt(c.tx.T("report.quantity"))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		q, err := parseQuantity(input)
		if err != nil {
			c.ui.Alert(c.tx.T("report.quantity_invalid"))
			return nil
		}
		quantity = q
	}

	return c.resolve(ctx, Resolution{
		UserID:      r.UserID,
		ChallengeID: r.ChallengeID,
		Decision:    decisionApproved,
		CO2Saved:    co2Credit(r.CO2Value, r.CO2QuantityBased, quantity),
	})
}

func (c *Controller) rejectReport(ctx context.Context, arg string) error {
	i, ok := c.pick(arg, len(c.reports))
	if !ok {
		return nil
	}
	r := c.reports[i]

	input, ok, err := c.ui.Prompt(c.tx.T("report.reject_reason"))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	res := Resolution{
		UserID:      r.UserID,
		ChallengeID: r.ChallengeID,
		Decision:    decisionRejected,
	}
	if comment := strings.TrimSpace(input); comment != "" {
		res.Comment = &comment
	}
	return c.resolve(ctx, res)
}

// resolve sends the decision and reloads the pending list and the log.
func (c *Controller) resolve(ctx context.Context, res Resolution) error {
	if err := c.api.ResolveReport(ctx, res); err != nil {
		c.fail(err)
		return nil
	}
	logger.Info("report resolved", "user_id", res.UserID, "challenge_id", res.ChallengeID, "decision", res.Decision)
	c.ui.Alert(c.tx.T("report.resolved"))
	c.loadReports(ctx)
	if c.state == StateLoggedIn {
		c.loadLogs(ctx)
	}
	return nil
}
