package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/packflow/packflow/internal/storage/sqlite"
	"github.com/packflow/packflow/internal/storage/sqlite/migrations"
)

type MigrateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	rollback bool
}

// NewMigrateCommand returns the migrate command.
func NewMigrateCommand(rootCmd *RootCommand, app *kingpin.Application) *MigrateCommand {
	c := &MigrateCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("migrate", "Run pending SQLite migrations and exit.")
	c.Cmd.Flag("rollback", "Revert all migrations instead of applying them.").BoolVar(&c.rollback)
	return c
}

func (c MigrateCommand) Name() string { return c.Cmd.FullCommand() }

func (c MigrateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	db, err := sqlite.Open(c.rootCmd.DBPath)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}
	defer db.Close()

	migrator, err := migrations.NewMigrator(db, logger)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if c.rollback {
		if err := migrator.Down(ctx); err != nil {
			return fmt.Errorf("could not revert migrations: %w", err)
		}
		logger.Infof("Database at %s rolled back", c.rootCmd.DBPath)
		return nil
	}

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	logger.Infof("Database at %s is up to date", c.rootCmd.DBPath)

	return nil
}
