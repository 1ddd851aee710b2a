package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunebase/internal/shared"
	"github.com/desertthunder/tunebase/internal/ui"
)

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", r.configPath)
	r.writePlain("%s\n", ui.Success("✓ wrote "+r.configPath))
	r.writePlainln("Next steps:")
	r.writePlain("1. Change [auth] secret and [admin] password in %s\n", r.configPath)
	r.writePlain("2. Run 'tunebase setup database' to create the schema and the admin account\n")
	r.writePlain("%s\n", ui.Help("Settings can also come from TUNEBASE_* variables or a .env file."))
	return nil
}

// SetupDatabase initializes the database, runs migrations and seeds the built-in
// roles and the configured administrator.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	_, admin, err := r.operator(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	r.writePlain("%s\n", ui.Success("✓ database ready"))
	r.writePlain("Administrator: %s\n", admin.Username)
	return nil
}
