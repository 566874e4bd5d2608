package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/config"
	"github.com/cozy-creator/hubuser/internal/hubclient"
	"github.com/cozy-creator/hubuser/internal/logging"
	"github.com/cozy-creator/hubuser/internal/models"
	"github.com/cozy-creator/hubuser/internal/repositories/repomanager"
	"github.com/cozy-creator/hubuser/internal/services"
	"github.com/cozy-creator/hubuser/internal/shared"
	"github.com/cozy-creator/hubuser/internal/validation"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ProvisionerFactory builds the provisioner for the selected mode.
type ProvisionerFactory func(cfg *config.Config, log logging.Logger) services.Provisioner

func newRemoteProvisioner(cfg *config.Config, log logging.Logger) services.Provisioner {
	return services.NewRemoteProvisioner(hubclient.NewClient(cfg.HubURL, cfg.HTTPTimeout, log), log)
}

func newDirectProvisioner(cfg *config.Config, log logging.Logger) services.Provisioner {
	return services.NewDirectProvisioner(cfg.DatabaseDSN, repomanager.NewPostgresRepositoryManager(),
		services.WithMigrations(cfg.MigrateSchema),
		services.WithLogger(log),
	)
}

// App is the hubuser command. Zero-value fields are not usable; build it
// with NewApp.
type App struct {
	stdout io.Writer
	stderr io.Writer

	remote         ProvisionerFactory
	direct         ProvisionerFactory
	promptPassword func(w io.Writer) ([]byte, error)
}

func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout:         stdout,
		stderr:         stderr,
		remote:         newRemoteProvisioner,
		direct:         newDirectProvisioner,
		promptPassword: GetPassword,
	}
}

type cliArgs struct {
	email    string
	phone    string
	username string
	password string
	help     bool
}

// newFlagSet declares every flag hubuser accepts. Configuration flags are
// parsed again by config.LoadConfig; here they only make unknown flags an
// error and show up in the usage text.
func newFlagSet(a *cliArgs) *flag.FlagSet {
	fs := flag.NewFlagSet("hubuser", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&a.email, "email", "", "email address to register")
	fs.StringVar(&a.phone, "phone", "", "phone number to register (E.164, e.g. +14155551234)")
	fs.StringVar(&a.username, "username", "", "username (4-30 chars, starts with a letter, letters, digits and _)")
	fs.StringVar(&a.password, "password", "", "password (min 8 chars); prompted for when omitted")
	fs.BoolVar(&a.help, "help", false, "show this help")
	fs.BoolVar(&a.help, "h", false, "show this help (short)")

	var ignored string
	var ignoredBool bool
	fs.StringVar(&ignored, "c", "", "path to config file (json or yaml)")
	fs.StringVar(&ignored, "config", "", "path to config file (json or yaml)")
	fs.StringVar(&ignored, "hub-url", "", "Hub API URL; selects remote provisioning")
	fs.StringVar(&ignored, "db-url", "", "PostgreSQL URL; selects direct provisioning (dev only)")
	fs.StringVar(&ignored, "timeout", "", "Hub request timeout (default 30s)")
	fs.StringVar(&ignored, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&ignored, "log-format", "", "log format: text or json")
	fs.StringVar(&ignored, "log-backend", "", "log backend: slog or zap")
	fs.BoolVar(&ignoredBool, "migrate", false, "create the profiles schema if missing (direct mode)")
	return fs
}

func (app *App) usage(fs *flag.FlagSet) {
	fmt.Fprintln(app.stdout, "Usage: hubuser (-email E | -phone P) -username U [-password P] [-hub-url URL | -db-url DSN]")
	fmt.Fprintln(app.stdout)
	fs.SetOutput(app.stdout)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// Run executes the command with args (without the program name) and returns
// the process exit code.
func (app *App) Run(ctx context.Context, args []string) int {
	var a cliArgs
	fs := newFlagSet(&a)
	if err := fs.Parse(args); err != nil {
		return app.fail(err)
	}
	if a.help {
		app.usage(fs)
		return ExitOK
	}
	if fs.NArg() > 0 {
		return app.fail(fmt.Errorf("unexpected argument %q", fs.Arg(0)))
	}

	id, err := identifierFrom(a)
	if err != nil {
		return app.fail(err)
	}
	username := strings.TrimSpace(a.username)
	if username == "" {
		return app.fail(errors.New("--username is required"))
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return app.fail(err)
	}

	log, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
	}, app.stderr)
	if err != nil {
		return app.fail(err)
	}
	defer syncLogger(log)

	password := []byte(a.password)
	if len(password) == 0 {
		password, err = app.promptPassword(app.stderr)
		if err != nil {
			return app.fail(err)
		}
	}
	defer shared.WipeByteArray(password)

	var factory ProvisionerFactory
	switch cfg.Mode {
	case config.ModeDirect:
		factory = app.direct
	default:
		if cfg.MigrateSchema {
			log.Warn(ctx, "ignoring -migrate in remote mode")
		}
		factory = app.remote
	}

	// The wipe above clears only the byte buffer. The string copy below is
	// immutable and stays in memory until it is garbage collected.
	req := services.Request{Identifier: id, Username: username, Password: string(password)}
	if err := preflight(cfg.Mode, req); err != nil {
		return app.failProvision(cfg.Mode, err)
	}
	log.Debug(ctx, "provisioning", "mode", cfg.Mode, "request", req.String())
	printHeader(app.stdout, cfg, req)

	res, err := factory(cfg, log).Provision(ctx, req)
	if err != nil {
		return app.failProvision(cfg.Mode, err)
	}
	if err := printResult(app.stdout, res); err != nil {
		return app.fail(err)
	}
	return ExitOK
}

// preflight runs the local checks before anything is printed or sent. The
// provisioners repeat them.
func preflight(mode config.Mode, req services.Request) error {
	if mode == config.ModeDirect && !req.Identifier.IsEmail() {
		return common.NewValidationError(common.FieldIdentifier, "direct provisioning requires an email identifier")
	}
	return validation.ValidateRequest(req.Identifier, req.Username, req.Password)
}

// identifierFrom enforces that exactly one of -email and -phone is given.
func identifierFrom(a cliArgs) (models.Identifier, error) {
	email, phone := strings.TrimSpace(a.email), strings.TrimSpace(a.phone)
	switch {
	case email != "" && phone != "":
		return models.Identifier{}, errors.New("provide either --email or --phone, not both")
	case email != "":
		return models.EmailIdentifier(email), nil
	case phone != "":
		return models.PhoneIdentifier(phone), nil
	default:
		return models.Identifier{}, errors.New("must provide either --email or --phone")
	}
}

func (app *App) fail(err error) int {
	fmt.Fprintf(app.stderr, "Error: %s\n", oneLine(err.Error()))
	return ExitFailure
}

func (app *App) failProvision(mode config.Mode, err error) int {
	if errors.Is(err, common.ErrValidation) {
		if pe, ok := common.AsProvisionError(err); ok && pe.StatusCode == 0 {
			fmt.Fprintf(app.stderr, "Validation error: %s\n", oneLine(pe.Message))
			return ExitFailure
		}
	}
	if mode == config.ModeRemote {
		fmt.Fprintf(app.stderr, "Error: Registration failed: %s\n", oneLine(err.Error()))
		return ExitFailure
	}
	return app.fail(err)
}

// oneLine collapses runs of whitespace, newlines included, into single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func syncLogger(l logging.Logger) {
	if s, ok := l.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
