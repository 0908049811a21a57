package admin

import (
	"encoding/json"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/store"

	"github.com/shopspring/decimal"
)

type AdminInvoice struct {
	ID                 string         `json:"id"`
	InvoiceNumber      string         `json:"invoiceNumber"`
	UserID             string         `json:"userId"`
	Email              string         `json:"email,omitempty"`
	PlanName           *string        `json:"planName"`
	Amount             json.Number    `json:"amount"`
	Status             billing.Status `json:"status"`
	DueDate            time.Time      `json:"dueDate"`
	PaidAt             *time.Time     `json:"paidAt"`
	ExternalPaymentRef *string        `json:"externalPaymentRef,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

type InvoicePage struct {
	Items []AdminInvoice `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type AdminStats struct {
	TotalUsers    int64                  `json:"totalUsers"`
	CountByStatus map[string]int64       `json:"countByStatus"`
	TotalRevenue  json.Number            `json:"totalRevenue"`
	RecentRevenue json.Number            `json:"recentRevenue"`
	RevenueByPlan map[string]json.Number `json:"revenueByPlan"`
}

type CreateInvoiceRequest struct {
	UserID         string          `json:"userId" binding:"required"`
	SubscriptionID *string         `json:"subscriptionId"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        *time.Time      `json:"dueDate"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	Status         string          `json:"status"`
}

type UpdateStatusRequest struct {
	Status string     `json:"status" binding:"required"`
	PaidAt *time.Time `json:"paidAt"`
}

func toAdminInvoice(inv *billing.Invoice) AdminInvoice {
	out := AdminInvoice{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		UserID:             inv.UserID,
		PlanName:           inv.PlanName(),
		Amount:             money(inv.Amount),
		Status:             inv.Status,
		DueDate:            inv.DueDate.UTC(),
		PaidAt:             inv.PaidAt,
		ExternalPaymentRef: inv.ExternalPaymentRef,
		CreatedAt:          inv.CreatedAt.UTC(),
	}
	if inv.User != nil {
		out.Email = inv.User.Email
	}
	return out
}

func toAdminStats(s *store.InvoiceStats, totalUsers int64) AdminStats {
	out := AdminStats{
		TotalUsers:    totalUsers,
		CountByStatus: make(map[string]int64, len(s.CountByStatus)),
		TotalRevenue:  money(s.PaidTotal),
		RecentRevenue: money(s.PaidSince),
		RevenueByPlan: make(map[string]json.Number, len(s.RevenueByPlan)),
	}
	for st, n := range s.CountByStatus {
		out.CountByStatus[string(st)] = n
	}
	for plan, total := range s.RevenueByPlan {
		out.RevenueByPlan[plan] = money(total)
	}
	return out
}

func money(d decimal.Decimal) json.Number { return json.Number(d.StringFixed(2)) }
