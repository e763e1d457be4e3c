package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/pkg/auth"
)

var errSessionEnded = errors.New("the ticket API rejected the stored credential; run 'ticketctl login'")

func (c *cli) client() (*client.Client, error) {
	return client.New(c.api, c.logger.Named("ticket-api"), c.clientOpts...)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return usageError{msg: fmt.Sprintf("unexpected arguments %q", fs.Args())}
	}
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	var email, password string
	fs := newFlagSet("login")
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", envOr("TICKETCTL_PASSWORD", ""), "account password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if email == "" || password == "" {
		return usageError{msg: "--email and --password are required"}
	}

	api, err := c.client()
	if err != nil {
		return err
	}
	result, err := api.Login(ctx, email, password)
	if err != nil {
		c.logger.Debug("Login failed", zap.String("kind", client.Kind(err)), zap.Error(err))
		return errors.New(models.MsgLoginFailed)
	}
	return c.start(result)
}

func (c *cli) register(ctx context.Context, args []string) error {
	var name, email, password string
	fs := newFlagSet("register")
	fs.StringVar(&name, "name", "", "display name")
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", envOr("TICKETCTL_PASSWORD", ""), "account password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if name == "" || email == "" || password == "" {
		return usageError{msg: "--name, --email and --password are required"}
	}

	api, err := c.client()
	if err != nil {
		return err
	}
	result, err := api.Register(ctx, email, password, name)
	if err != nil {
		c.logger.Debug("Registration failed", zap.String("kind", client.Kind(err)), zap.Error(err))
		return errors.New(models.MsgRegisterFailed)
	}
	return c.start(result)
}

func (c *cli) start(result models.AuthResult) error {
	if err := saveSession(c.tokenFile, c.api, result); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Logged in as %s\n", result.User.DisplayName())
	return nil
}

func (c *cli) logout() error {
	if err := removeSession(c.tokenFile); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Logged out")
	return nil
}

// authenticated returns a context carrying the stored credential, or
// errNotLoggedIn before any API call is made.
func (c *cli) authenticated(ctx context.Context) (context.Context, error) {
	sess, ok, err := loadSession(c.tokenFile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNotLoggedIn
	}
	if sess.API != "" && strings.TrimSuffix(sess.API, "/") != strings.TrimSuffix(c.api, "/") {
		return nil, fmt.Errorf("stored credential was issued by %s, not %s; run 'ticketctl --api %s login'", sess.API, c.api, c.api)
	}
	if auth.Expired(sess.Token, time.Now()) {
		c.logger.Debug("Stored credential has expired")
		_ = removeSession(c.tokenFile)
		return nil, errNotLoggedIn
	}
	return client.WithCredential(ctx, sess.Token), nil
}

func (c *cli) list(ctx context.Context) error {
	ctx, err := c.authenticated(ctx)
	if err != nil {
		return err
	}
	api, err := c.client()
	if err != nil {
		return err
	}

	tickets, err := api.List(ctx)
	if err != nil {
		return c.apiFailure(err, models.MsgFetchTicketsFailed)
	}
	return c.printTickets(tickets, time.Local)
}

func (c *cli) create(ctx context.Context, args []string) error {
	var draft models.NewTicketDraft
	var zone string
	fs := newFlagSet("create")
	fs.StringVar(&draft.From, "from", "", "departure city")
	fs.StringVar(&draft.To, "to", "", "destination city")
	fs.StringVar(&draft.DepartureTime, "departure", "", "local departure time, e.g. 2024-05-01T10:00")
	fs.StringVar(&draft.Price, "price", "", "ticket price")
	fs.StringVar(&zone, "tz", envOr("DEPARTURE_TIMEZONE", "Africa/Lagos"), "zone the departure time is given in")
	if err := parse(fs, args); err != nil {
		return err
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return usageError{msg: fmt.Sprintf("invalid --tz %q: %v", zone, err)}
	}

	ctx, err = c.authenticated(ctx)
	if err != nil {
		return err
	}
	api, err := c.client()
	if err != nil {
		return err
	}

	created, err := api.CreateFromDraft(ctx, draft, loc)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return usageError{msg: err.Error()}
		}
		return c.apiFailure(err, models.MsgCreateTicketFailed)
	}
	fmt.Fprintf(c.stdout, "Created ticket %s\n", created.ID)

	tickets, err := api.List(ctx)
	if err != nil {
		return c.apiFailure(err, models.MsgFetchTicketsFailed)
	}
	return c.printTickets(tickets, loc)
}

// apiFailure collapses err into its fixed message. A refused credential
// also removes the stored session.
func (c *cli) apiFailure(err error, message string) error {
	c.logger.Debug("Ticket API call failed", zap.String("kind", client.Kind(err)), zap.Error(err))
	if client.IsUnauthorized(err) {
		if rmErr := removeSession(c.tokenFile); rmErr != nil {
			return rmErr
		}
		return errSessionEnded
	}
	return errors.New(message)
}
