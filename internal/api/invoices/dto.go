package invoices

import (
	"encoding/json"
	"time"

	"invoice-portal/internal/domain/billing"
)

// Summary is one row of the caller's invoice list.
type Summary struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoiceNumber"`
	Date          time.Time      `json:"date"`
	PlanName      *string        `json:"planName"`
	Amount        json.Number    `json:"amount"`
	Status        billing.Status `json:"status"`
	DueDate       time.Time      `json:"dueDate"`
	PaidAt        *time.Time     `json:"paidAt"`
}

func toSummary(inv *billing.Invoice) Summary {
	return Summary{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.CreatedAt.UTC(),
		PlanName:      inv.PlanName(),
		Amount:        json.Number(inv.Amount.StringFixed(2)),
		Status:        inv.Status,
		DueDate:       inv.DueDate.UTC(),
		PaidAt:        inv.PaidAt,
	}
}
