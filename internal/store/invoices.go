package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"invoice-portal/internal/domain/billing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository is everything the service needs from invoice storage.
type InvoiceRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]billing.Invoice, error)
	GetByID(ctx context.Context, id string) (*billing.Invoice, error)
	ListAll(ctx context.Context, limit, offset int) ([]billing.Invoice, int64, error)
	Stats(ctx context.Context, since time.Time) (*InvoiceStats, error)
	Create(ctx context.Context, inv *billing.Invoice) error
	Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error)
	FindByExternalRef(ctx context.Context, ref string) (*billing.Invoice, error)
}

var _ InvoiceRepository = (*InvoiceStore)(nil)

type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

// ListByOwner returns the owner's invoices newest first with subscription
// and plan joined. No invoices is an empty slice, not an error.
func (s *InvoiceStore) ListByOwner(ctx context.Context, userID string) ([]billing.Invoice, error) {
	invoices := []billing.Invoice{}
	err := s.db.WithContext(ctx).
		Preload("Subscription.Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("list invoices for user %s: %w", userID, err)
	}
	return invoices, nil
}

// GetByID loads one invoice with the owner summary (name, email) and
// subscription plan joined.
func (s *InvoiceStore) GetByID(ctx context.Context, id string) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Subscription.Plan").
		Where("id = ?", id).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return &inv, nil
}

func (s *InvoiceStore) FindByExternalRef(ctx context.Context, ref string) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := s.db.WithContext(ctx).Where("external_payment_ref = ?", ref).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice by external ref %s: %w", ref, err)
	}
	return &inv, nil
}

// ListAll pages through every invoice, newest first, with owners joined.
func (s *InvoiceStore) ListAll(ctx context.Context, limit, offset int) ([]billing.Invoice, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&billing.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	invoices := []billing.Invoice{}
	err := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Subscription.Plan").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, total, nil
}

func (s *InvoiceStore) Create(ctx context.Context, inv *billing.Invoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", billing.ErrDuplicate, inv.InvoiceNumber)
	}
	if err != nil {
		return fmt.Errorf("create invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// Transition applies a status change as a single-row update guarded by the
// status read inside the same transaction.
func (s *InvoiceStore) Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ErrNotFound
		}
		if err != nil {
			return err
		}

		prev := inv.Status
		changed, err := inv.Transition(next, at)
		if err != nil || !changed {
			return err
		}

		res := tx.Model(&billing.Invoice{}).
			Where("id = ? AND status = ?", id, prev).
			Updates(map[string]interface{}{
				"status":  inv.Status,
				"paid_at": inv.PaidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s changed concurrently", billing.ErrInvalidTransition, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, billing.ErrNotFound) || errors.Is(err, billing.ErrInvalidTransition) || errors.Is(err, billing.ErrInvalidStatus) {
			return nil, err
		}
		return nil, fmt.Errorf("transition invoice %s: %w", id, err)
	}
	return &inv, nil
}

type InvoiceStats struct {
	CountByStatus map[billing.Status]int64
	PaidTotal     decimal.Decimal
	PaidSince     decimal.Decimal
	RevenueByPlan map[string]decimal.Decimal
}

const noPlan = "No Plan"

// Stats aggregates invoice counts and paid revenue. PaidSince covers
// invoices paid at or after since.
func (s *InvoiceStore) Stats(ctx context.Context, since time.Time) (*InvoiceStats, error) {
	db := s.db.WithContext(ctx)
	stats := &InvoiceStats{
		CountByStatus: map[billing.Status]int64{},
		RevenueByPlan: map[string]decimal.Decimal{},
	}
	for _, st := range billing.Statuses {
		stats.CountByStatus[st] = 0
	}

	type statusCount struct {
		Status billing.Status
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&billing.Invoice{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count invoices by status: %w", err)
	}
	for _, c := range counts {
		stats.CountByStatus[c.Status] = c.Count
	}

	var err error
	if stats.PaidTotal, err = sumPaid(db.Model(&billing.Invoice{}).Where("status = ?", billing.StatusPaid)); err != nil {
		return nil, err
	}
	if stats.PaidSince, err = sumPaid(db.Model(&billing.Invoice{}).Where("status = ? AND paid_at >= ?", billing.StatusPaid, since.UTC())); err != nil {
		return nil, err
	}

	rows, err := db.Table("invoices").
		Select("plans.name, COALESCE(SUM(invoices.amount), 0)").
		Joins("LEFT JOIN subscriptions ON subscriptions.id = invoices.subscription_id").
		Joins("LEFT JOIN plans ON plans.id = subscriptions.plan_id").
		Where("invoices.status = ?", billing.StatusPaid).
		Group("plans.name").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("revenue by plan: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name sql.NullString
		var total decimal.Decimal
		if err := rows.Scan(&name, &total); err != nil {
			return nil, fmt.Errorf("revenue by plan: %w", err)
		}
		key := noPlan
		if name.Valid && name.String != "" {
			key = name.String
		}
		stats.RevenueByPlan[key] = stats.RevenueByPlan[key].Add(total).Round(2)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revenue by plan: %w", err)
	}
	return stats, nil
}

func sumPaid(q *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum paid invoices: %w", err)
	}
	return total.Round(2), nil
}
