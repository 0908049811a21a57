package cli

import (
	"invoice-portal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.Migrate(a.db); err != nil {
				return err
			}
			a.log.Info().Msg("schema up to date")
			return nil
		},
	}
}
