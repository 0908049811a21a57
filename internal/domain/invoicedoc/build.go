package invoicedoc

import (
	"html"
	"strings"

	"invoice-portal/internal/domain/billing"

	"github.com/microcosm-cc/bluemonday"
)

// Plan names and descriptions are admin/Stripe supplied; markup is dropped
// before the text reaches the document.
var stripMarkup = bluemonday.StrictPolicy()

// Build produces the document for inv. Missing customer or plan data is
// replaced with locale placeholders; Build never fails.
func Build(inv *billing.Invoice, loc Locale) Document {
	lb := loc.labels
	amount := inv.Amount.StringFixed(2)

	customerName, customerEmail := lb.CustomerName, lb.CustomerEmail
	if inv.User != nil {
		customerName = orDefault(inv.User.Name, lb.CustomerName)
		customerEmail = orDefault(inv.User.Email, lb.CustomerEmail)
	}

	planName, planDescription := lb.PlanName, lb.PlanDescription
	if inv.Subscription != nil && inv.Subscription.Plan != nil {
		planName = orDefault(plainText(inv.Subscription.Plan.Name), lb.PlanName)
		planDescription = orDefault(plainText(inv.Subscription.Plan.Description), lb.PlanDescription)
	}

	status := StatusSection{Status: Row{Label: lb.Status, Value: loc.StatusLabel(inv.Status)}}
	if inv.PaidAt != nil {
		status.PaidOn = &Row{Label: lb.PaidOn, Value: loc.FormatDate(*inv.PaidAt)}
	}

	return Document{
		Lang:     loc.Code(),
		Title:    lb.TitlePrefix + " " + inv.InvoiceNumber,
		Filename: lb.FilenamePrefix + "-" + inv.InvoiceNumber + ".html",
		Sections: []Section{
			TitleSection{Heading: lb.Heading, InvoiceNumber: inv.InvoiceNumber},
			DetailsSection{Rows: []Row{
				{Label: lb.Date, Value: loc.FormatDate(inv.CreatedAt)},
				{Label: lb.Customer, Value: customerName},
				{Label: lb.Email, Value: customerEmail},
			}},
			LineItemsSection{
				DescriptionHeader: lb.Description,
				AmountHeader:      lb.Amount,
				Items:             []LineItem{{Description: planName + " - " + planDescription, Amount: amount}},
				TotalLabel:        lb.Total,
				Total:             amount,
			},
			status,
			FooterSection{Text: lb.Footer},
		},
	}
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripMarkup.Sanitize(s)))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
