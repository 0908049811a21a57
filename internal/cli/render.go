package cli

import (
	"fmt"

	invoicesapi "invoice-portal/internal/api/invoices"
	"invoice-portal/internal/domain/access"
	"invoice-portal/internal/domain/invoicedoc"

	"github.com/spf13/cobra"
)

// operator is the identity the CLI acts as.
var operator = access.Identity{ID: "cli", Role: access.RoleAdmin}

func newRenderCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "render <invoice-id>",
		Short: "Print the HTML document for an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, ok := invoicedoc.Lookup(lang)
			if !ok {
				return fmt.Errorf("unsupported language %q", lang)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return renderInvoice(cmd, invoicesapi.NewService(a.invoices), args[0], loc)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "es", "document language (es|en)")
	return cmd
}

func renderInvoice(cmd *cobra.Command, svc *invoicesapi.Service, id string, loc invoicedoc.Locale) error {
	out, err := svc.FetchDocument(cmd.Context(), operator, id, loc)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out.HTML)
	return err
}
