package main

import (
	"context"
	"errors"
)

func (c *Controller) loadLogs(ctx context.Context) {
	c.println(renderSection(c.tx.T("logs.title")))

	entries, err := c.api.Logs(ctx)
	if err != nil {
		c.println(c.errorText(err))
		c.checkAuth(err)
		return
	}
	if len(entries) == 0 {
		c.println(renderPlaceholder(c.tx.T("logs.empty")))
		return
	}
	for _, e := range entries {
		c.println(renderLogEntry(c.tx, e))
	}
}

func (c *Controller) loadUserStats(ctx context.Context) {
	c.println(renderSection(c.tx.T("stats.title")))

	stats, err := c.api.UserStats(ctx)
	if err != nil {
		failed := c.tx.T("common.error")
		c.println(renderUserStats(c.tx, failed, failed))
		if errors.Is(err, ErrUnauthenticated) {
			c.fail(err)
		}
		return
	}
	c.println(renderUserStats(c.tx, c.tx.Number(stats.TotalUsers), c.tx.Number(stats.WeeklyUsers)))
}
