package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/infra/logging"
	"invoice-portal/internal/infra/metrics"
	"invoice-portal/internal/store"
)

const invoiceCacheName = "invoice"

var _ store.InvoiceRepository = (*InvoiceCache)(nil)

// InvoiceCache is a read-through cache for single invoice lookups. Every
// other method passes through to the embedded repository. Cache failures
// never fail a request.
//
// Entries hold the joined user and plan. Plan renames and subscription plan
// changes are not invalidated here and show up once the entry expires.
type InvoiceCache struct {
	store.InvoiceRepository
	cache Client
	ttl   time.Duration
}

func NewInvoiceCache(inner store.InvoiceRepository, cache Client, ttl time.Duration) *InvoiceCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &InvoiceCache{InvoiceRepository: inner, cache: cache, ttl: ttl}
}

func invoiceKey(id string) string { return "invoice:" + id }

func (d *InvoiceCache) GetByID(ctx context.Context, id string) (*billing.Invoice, error) {
	key := invoiceKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var inv billing.Invoice
		if json.Unmarshal([]byte(val), &inv) == nil {
			metrics.IncCacheRequest(invoiceCacheName, "hit")
			return &inv, nil
		}
	} else if !errors.Is(err, ErrMiss) {
		logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("invoice cache read failed")
	}

	metrics.IncCacheRequest(invoiceCacheName, "miss")
	inv, err := d.InvoiceRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(inv); err == nil {
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("invoice cache write failed")
		}
	}
	return inv, nil
}

// Transition invalidates the cached copy on both sides of the write.
func (d *InvoiceCache) Transition(ctx context.Context, id string, next billing.Status, at time.Time) (*billing.Invoice, error) {
	d.invalidate(ctx, id)
	inv, err := d.InvoiceRepository.Transition(ctx, id, next, at)
	d.invalidate(ctx, id)
	return inv, err
}

func (d *InvoiceCache) invalidate(ctx context.Context, id string) {
	if err := d.cache.Del(ctx, invoiceKey(id)); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("invoice_id", id).Msg("invoice cache invalidate failed")
	}
}
