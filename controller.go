package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// State of the console. There is no loading state, sections print their own
// placeholder while they fetch.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
)

func (s State) String() string {
	if s == StateLoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// errQuit ends the loop without touching the session.
var errQuit = errors.New("quit")

// Controller renders the login view or the dashboard and routes commands to
// the API client.
type Controller struct {
	cfg     *Config
	session *Session
	api     *APIClient
	ui      Interactor
	out     io.Writer
	tx      *Texts
	state   State

	// what the last render showed, so "d 2" targets the second card
	challenges []Challenge
	reports    []Report
}

func NewController(cfg *Config, session *Session, api *APIClient, ui Interactor, out io.Writer, tx *Texts) *Controller {
	c := &Controller{
		cfg:     cfg,
		session: session,
		api:     api,
		ui:      ui,
		out:     out,
		tx:      tx,
		state:   StateLoggedOut,
	}
	if session.LoggedIn() {
		c.state = StateLoggedIn
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

// Run drives the console until input ends, the admin types exit or ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		var err error
		switch c.state {
		case StateLoggedIn:
			err = c.dashboardView(ctx)
		default:
			err = c.loginView(ctx)
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, errQuit), errors.Is(err, context.Canceled):
			return nil
		case ctx.Err() != nil:
			// stdin was closed to interrupt a read
			return nil
		default:
			return err
		}
	}
}

func (c *Controller) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Controller) setState(s State) {
	if c.state != s {
		logger.Debug("console state", "from", c.state, "to", s)
	}
	c.state = s
	if s == StateLoggedOut {
		c.challenges = nil
		c.reports = nil
	}
}

// errorText turns an API failure into what the admin sees.
func (c *Controller) errorText(err error) string {
	if errors.Is(err, ErrUnauthenticated) {
		return c.tx.T("auth.required")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		return c.tx.T("error.request_failed")
	}
	return clean(err.Error())
}

// fail alerts the error and drops back to the login view on 401.
func (c *Controller) fail(err error) {
	c.ui.Alert(c.errorText(err))
	c.checkAuth(err)
}

func (c *Controller) checkAuth(err error) {
	if errors.Is(err, ErrUnauthenticated) {
		c.setState(StateLoggedOut)
	}
}

func (c *Controller) loginView(ctx context.Context) error {
	c.println(titleStyle.Render(c.tx.T("login.title")))

	var (
		adminID int64
		validID bool
	)
	if host := c.session.HostUser(); host != nil {
		name := host.FirstName
		if name == "" {
			name = c.tx.T("login.default_name")
		}
		c.println(c.tx.T("login.greeting", clean(name)))
		adminID, validID = host.ID, true
	} else {
		raw, err := c.ui.Ask(c.tx.T("login.admin_id"))
		if err != nil {
			return err
		}
		adminID, validID = parseAdminID(raw)
	}

	password, err := c.ui.Secret(c.tx.T("login.password"))
	if err != nil {
		return err
	}
	password = strings.TrimSpace(password)

	if password == "" {
		c.ui.Alert(c.tx.T("login.password_required"))
		return nil
	}
	if !validID {
		c.ui.Alert(c.tx.T("login.admin_id_invalid"))
		return nil
	}

	res, err := c.api.Login(ctx, password, adminID)
	if err != nil {
		// a rejected password is a 401 too; show what the server said
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			c.ui.Alert(clean(apiErr.Message))
		} else {
			c.ui.Alert(c.errorText(err))
		}
		return nil
	}

	if err := c.session.Save(res.Token, res.AdminID); err != nil {
		logger.Error("failed to persist session", "error", err)
	}
	logger.Info("admin signed in", "admin_id", res.AdminID)
	c.ui.Alert(c.tx.T("login.success"))
	c.setState(StateLoggedIn)
	return nil
}

func (c *Controller) dashboardView(ctx context.Context) error {
	c.println(titleStyle.Render(c.tx.T("app.title")))
	c.refreshAll(ctx)

	for c.state == StateLoggedIn {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line, err := c.ui.Ask(c.tx.T("menu.prompt"))
		if err != nil {
			return err
		}
		if err := c.dispatch(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// refreshAll loads every section like the initial page render did.
func (c *Controller) refreshAll(ctx context.Context) {
	loaders := []func(context.Context){c.loadReports, c.loadChallenges, c.loadLogs}
	if c.cfg.userStatsEnabled() {
		loaders = append([]func(context.Context){c.loadUserStats}, loaders...)
	}
	for _, load := range loaders {
		if c.state != StateLoggedIn {
			return
		}
		load(ctx)
	}
}

type command struct {
	help string
	run  func(c *Controller, ctx context.Context, arg string) error
}

func (c *Controller) commands() map[string]command {
	cmds := map[string]command{
		"b":    {"help.broadcast", (*Controller).broadcast},
		"n":    {"help.new", (*Controller).createChallenge},
		"c":    {"help.challenges", refresh((*Controller).loadChallenges)},
		"t":    {"help.toggle", (*Controller).toggleChallenge},
		"d":    {"help.delete", (*Controller).deleteChallenge},
		"r":    {"help.reports", refresh((*Controller).loadReports)},
		"a":    {"help.approve", (*Controller).approveReport},
		"x":    {"help.reject", (*Controller).rejectReport},
		"l":    {"help.logs", refresh((*Controller).loadLogs)},
		"q":    {"help.logout", (*Controller).logout},
		"exit": {"help.exit", func(*Controller, context.Context, string) error { return errQuit }},
	}
	if c.cfg.userStatsEnabled() {
		cmds["s"] = command{"help.stats", refresh((*Controller).loadUserStats)}
	}
	return cmds
}

func refresh(load func(*Controller, context.Context)) func(*Controller, context.Context, string) error {
	return func(c *Controller, ctx context.Context, _ string) error {
		load(c, ctx)
		return nil
	}
}

var helpOrder = []string{"b", "n", "c", "t", "d", "r", "a", "x", "l", "s", "q", "exit"}

func (c *Controller) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	arg := strings.Join(fields[1:], " ")

	if name == "h" || name == "?" || name == "help" {
		c.printHelp()
		return nil
	}

	cmd, ok := c.commands()[name]
	if !ok {
		c.ui.Alert(c.tx.T("menu.unknown", clean(name)))
		return nil
	}
	return cmd.run(c, ctx, arg)
}

func (c *Controller) printHelp() {
	cmds := c.commands()
	c.println(renderSection(c.tx.T("help.title")))
	for _, name := range helpOrder {
		if cmd, ok := cmds[name]; ok {
			c.println("  " + c.tx.T(cmd.help))
		}
	}
}

// pick resolves a 1-based card number against a list of n items.
func (c *Controller) pick(arg string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 || i > n {
		c.ui.Alert(c.tx.T("menu.bad_index"))
		return 0, false
	}
	return i - 1, true
}

func (c *Controller) logout(ctx context.Context, _ string) error {
	if err := c.api.Logout(ctx); err != nil {
		logger.Debug("logout request failed", "error", err)
	}
	if err := c.session.Clear(); err != nil {
		logger.Warn("failed to clear session", "error", err)
	}
	logger.Info("admin signed out")
	c.ui.Alert(c.tx.T("logout.done"))
	c.setState(StateLoggedOut)
	return nil
}
