package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"taskshare/internal/api"
	"taskshare/internal/auth"
	"taskshare/internal/config"
	"taskshare/internal/domain"
	"taskshare/internal/errors"
	"taskshare/internal/repository"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// APIFactory opens the store and builds a BusinessAPI. A nil provider
// selects the identity provider named in the configuration.
type APIFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger, provider auth.Provider) (api.BusinessAPI, func() error, error)

// DefaultAPIFactory opens the configured store
func DefaultAPIFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger, provider auth.Provider) (api.BusinessAPI, func() error, error) {
	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	businessAPI, err := api.New(repo, api.Options{Config: cfg, Logger: logger, Provider: provider})
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	return businessAPI, closeAll(businessAPI, repo), nil
}

func closeAll(businessAPI api.BusinessAPI, repo repository.Repository) func() error {
	return func() error {
		businessAPI.Close()
		return repo.Close()
	}
}

// App represents the main CLI application
type App struct {
	config  *config.Config
	logger  *slog.Logger
	factory APIFactory

	out io.Writer
	in  io.Reader

	// interactive reports whether confirmation prompts can be answered
	interactive func() bool

	businessAPI  api.BusinessAPI
	closer       func() error
	session      *auth.Session
	errorHandler *ErrorHandler
}

// NewApp creates a CLI application that opens its store on first use
func NewApp(cfg *config.Config, logger *slog.Logger, factory APIFactory, out io.Writer, in io.Reader) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if factory == nil {
		factory = DefaultAPIFactory
	}
	app := &App{
		config:       cfg,
		logger:       logger,
		factory:      factory,
		out:          out,
		in:           in,
		errorHandler: NewErrorHandler(),
	}
	app.interactive = app.stdinIsTerminal
	return app
}

// NewAppWithAPI creates a CLI application around an existing BusinessAPI
func NewAppWithAPI(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer, in io.Reader) *App {
	app := NewApp(cfg, nil, nil, out, in)
	app.businessAPI = businessAPI
	return app
}

// API returns the business API, opening the store on first use
func (a *App) API(ctx context.Context) (api.BusinessAPI, error) {
	if a.businessAPI != nil {
		return a.businessAPI, nil
	}

	businessAPI, closer, err := a.factory(ctx, a.config, a.logger, auth.NewStaticProvider(a.principal()))
	if err != nil {
		return nil, err
	}
	a.businessAPI = businessAPI
	a.closer = closer
	return businessAPI, nil
}

// Session signs in the configured identity on first use
func (a *App) Session(ctx context.Context) (api.BusinessAPI, *auth.Session, error) {
	businessAPI, err := a.API(ctx)
	if err != nil {
		return nil, nil, err
	}
	if a.session != nil {
		return businessAPI, a.session, nil
	}

	session, err := businessAPI.SignIn(ctx, auth.StaticCode)
	if err != nil {
		return nil, nil, a.errorHandler.Handle("sign in", err)
	}
	a.session = session
	return businessAPI, session, nil
}

// Close signs out and releases the store
func (a *App) Close() error {
	if a.session != nil && a.businessAPI != nil {
		a.businessAPI.SignOut(context.Background(), a.session.Token)
		a.session = nil
	}
	if a.closer != nil {
		closer := a.closer
		a.closer = nil
		return closer()
	}
	return nil
}

func (a *App) principal() domain.Principal {
	return domain.Principal{
		UID:         a.config.Auth.Static.UID,
		Email:       a.config.Auth.Static.Email,
		DisplayName: a.config.Auth.Static.DisplayName,
	}
}

func (a *App) location() *time.Location {
	loc, err := a.config.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) stdinIsTerminal() bool {
	f, ok := a.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question on the app's input
func (a *App) confirm(question string) bool {
	a.printf("%s [y/N]: ", question)
	var answer string
	fmt.Fscanln(a.in, &answer)
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

var relativeDue = regexp.MustCompile(`^\+?(\d+)(d|w)$`)

// parseDueDate parses YYYY-MM-DD, "today", "tomorrow" or an offset such
// as "+3d" or "2w" into a calendar date. An empty string means no date.
func parseDueDate(value string, now time.Time) (*time.Time, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	today := domain.DateOf(now)

	var due time.Time
	switch value {
	case "":
		return nil, nil
	case "today":
		due = today
	case "tomorrow":
		due = today.AddDate(0, 0, 1)
	default:
		if matches := relativeDue.FindStringSubmatch(value); matches != nil {
			n, err := strconv.Atoi(matches[1])
			if err != nil {
				return nil, errors.NewInvalidInputError("due", value, "invalid number")
			}
			if matches[2] == "w" {
				n *= 7
			}
			due = today.AddDate(0, 0, n)
			break
		}

		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, errors.NewInvalidInputError("due", value, "use YYYY-MM-DD, today, tomorrow or +Nd")
		}
		due = parsed
	}
	return &due, nil
}

// parseRef parses "owner/id", a task path "users/owner/tasks/id", or a
// bare id owned by uid.
func parseRef(value, uid string) (domain.TaskRef, error) {
	value = strings.Trim(strings.TrimSpace(value), "/")
	parts := strings.Split(value, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		return domain.TaskRef{OwnerID: uid, ID: parts[0]}, nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return domain.TaskRef{OwnerID: parts[0], ID: parts[1]}, nil
	case len(parts) == 4 && parts[0] == "users" && parts[2] == "tasks":
		return domain.TaskRef{OwnerID: parts[1], ID: parts[3]}, nil
	}
	return domain.TaskRef{}, errors.NewInvalidInputError("task", value, "expected <id> or <owner>/<id>")
}

// formatRef is the inverse of parseRef
func formatRef(ref domain.TaskRef) string {
	return ref.OwnerID + "/" + ref.ID
}
