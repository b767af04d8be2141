package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/hbond-engine/internal/infrastructure/database/postgres"
	"github.com/turtacn/hbond-engine/pkg/errors"
)

// NewDBCmd creates the db command group for job ledger migrations.
func NewDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the batch job ledger schema",
	}
	cmd.AddCommand(newDBMigrateCmd(), newDBStatusCmd(), newDBRollbackCmd())
	return cmd
}

type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (s migrationStatus) String() string {
	state := "clean"
	if s.Dirty {
		state = "dirty"
	}
	return fmt.Sprintf("schema version %d (%s)\n", s.Version, state)
}

func newDBMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, dsn, err := ledgerDSN(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.Migrate(dsn)
			if err != nil {
				return err
			}
			return PrintResult(cmd, cliCtx.OutputFormat, migrationStatus{Version: version, Dirty: dirty})
		},
	}
}

func newDBStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, dsn, err := ledgerDSN(cmd)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dsn)
			if err != nil {
				return err
			}
			return PrintResult(cmd, cliCtx.OutputFormat, migrationStatus{Version: version, Dirty: dirty})
		},
	}
}

func newDBRollbackCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, dsn, err := ledgerDSN(cmd)
			if err != nil {
				return err
			}
			if err := postgres.Rollback(dsn, steps); err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dsn)
			if err != nil {
				return err
			}
			return PrintResult(cmd, cliCtx.OutputFormat, migrationStatus{Version: version, Dirty: dirty})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}

func ledgerDSN(cmd *cobra.Command) (*CLIContext, string, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, "", err
	}
	db := cliCtx.Config.Database
	if !db.Enabled() {
		return nil, "", errors.New(errors.ErrCodeValidation, "job ledger is not configured").
			WithDetail("set database.host or HBOND_DATABASE_HOST")
	}
	return cliCtx, db.DSN(), nil
}

//Personal.AI order the ending
