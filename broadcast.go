package main

import (
	"context"
	"strings"
)

func (c *Controller) broadcast(ctx context.Context, _ string) error {
	c.println(renderSection(c.tx.T("broadcast.title")))

	input, err := c.ui.Ask(c.tx.T("broadcast.message"))
	if err != nil {
		return err
	}
	message := strings.TrimSpace(input)
	if message == "" {
		c.ui.Alert(c.tx.T("broadcast.empty"))
		return nil
	}

	res, err := c.api.Broadcast(ctx, message)
	if err != nil {
		c.fail(err)
		return nil
	}
	logger.Info("broadcast finished", "sent", res.Sent, "failed", res.Failed)
	c.ui.Alert(c.tx.T("broadcast.done", res.Sent, res.Failed))
	return nil
}
