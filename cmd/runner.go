package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/access"
	"github.com/desertthunder/tunebase/internal/memstore"
	"github.com/desertthunder/tunebase/internal/models"
	"github.com/desertthunder/tunebase/internal/repositories"
	"github.com/desertthunder/tunebase/internal/services"
	"github.com/desertthunder/tunebase/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	svc        *services.Services
	db         *sql.DB
	memory     bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Services is opened lazily from the configuration when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Services   *services.Services
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		svc:        opts.Services,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, usersCommand, playlistsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Load reads the configuration named by --config and applies flag overrides.
// A missing file leaves the defaults in place.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")
	r.memory = cmd.Bool("memory")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if secret := cmd.String("secret"); secret != "" {
		r.config.Auth.Secret = secret
	}

	level := r.config.Log.Level
	if flag := cmd.String("log-level"); flag != "" {
		level = flag
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	return ctx, nil
}

// Close releases the database opened by [Runner.services].
func (r *Runner) Close(context.Context, *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// openStore opens the configured SQLite database and applies pending migrations.
func (r *Runner) openStore() (*models.Store, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	if r.config.Database.Path != ":memory:" {
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied)
	}

	r.db = db
	return repositories.New(db), nil
}

// services returns the domain services, opening the store on first use.
func (r *Runner) services() (*services.Services, error) {
	if r.svc != nil {
		return r.svc, nil
	}

	var store *models.Store
	if r.memory {
		r.logger.Warn("using the in-memory store; data is lost on exit")
		store = memstore.New().Repositories()
	} else {
		var err error
		if store, err = r.openStore(); err != nil {
			return nil, err
		}
	}

	r.svc = services.New(store, services.Options{
		Tokens:     access.NewTokens(r.config.Auth.Secret, r.config.Auth.TTL()),
		Logger:     r.logger,
		BcryptCost: r.config.Auth.BcryptCost,
	})
	return r.svc, nil
}

// operator seeds the roles and the configured admin account, then returns its identity.
// Administrative commands run as this identity.
func (r *Runner) operator(ctx context.Context) (*services.Services, access.Identity, error) {
	svc, err := r.services()
	if err != nil {
		return nil, access.Identity{}, err
	}

	admin, err := svc.Bootstrap(ctx, r.config.Admin)
	if err != nil {
		return nil, access.Identity{}, fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if admin == nil {
		return nil, access.Identity{}, fmt.Errorf("%w: [admin] username is required", shared.ErrInvalidConfig)
	}

	id, err := svc.Resolver.ForUser(ctx, admin.ID)
	if err != nil {
		return nil, access.Identity{}, err
	}
	return svc, id, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// requireArg returns a missing-argument error when value is empty.
func requireArg(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return nil
}

var errUserNotFound = errors.New("no user with that username")
