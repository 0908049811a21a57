package cli

import "github.com/spf13/cobra"

var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "invoiceportal",
		Short:         "Invoice portal API",
		Long:          "Serves customer invoices and their documents, admin billing tools and the Stripe settlement webhook.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newRenderCmd())
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
