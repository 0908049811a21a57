// Package invoices serves a signed-in user's invoices: the list of their
// own invoices and the rendered document for a single one.
package invoices

import (
	"context"
	"errors"
	"fmt"

	"invoice-portal/internal/domain/access"
	"invoice-portal/internal/domain/billing"
	"invoice-portal/internal/domain/invoicedoc"
	"invoice-portal/internal/infra/metrics"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// InvoiceReader is the read side of the invoice store.
type InvoiceReader interface {
	ListByOwner(ctx context.Context, userID string) ([]billing.Invoice, error)
	GetByID(ctx context.Context, id string) (*billing.Invoice, error)
}

type Service struct {
	invoices InvoiceReader
}

func NewService(invoices InvoiceReader) *Service {
	return &Service{invoices: invoices}
}

// ListMine returns the caller's own invoices, newest first. Store failures
// are returned, never masked as an empty list.
func (s *Service) ListMine(ctx context.Context, who access.Identity) ([]Summary, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	list, err := s.invoices.ListByOwner(ctx, who.ID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]Summary, 0, len(list))
	for i := range list {
		out = append(out, toSummary(&list[i]))
	}
	return out, nil
}

// Rendered is a document ready to be written to the client.
type Rendered struct {
	Document invoicedoc.Document
	HTML     []byte
}

// FetchDocument loads one invoice, checks that who may read it and renders
// it in loc.
func (s *Service) FetchDocument(ctx context.Context, who access.Identity, id string, loc invoicedoc.Locale) (*Rendered, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", id, err)
	}
	if access.Authorize(who, inv) != access.Allow {
		metrics.IncAccessDenied()
		return nil, ErrForbidden
	}

	doc := invoicedoc.Build(inv, loc)
	body, err := invoicedoc.RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", id, err)
	}
	metrics.IncDocumentRendered(loc.Code())
	return &Rendered{Document: doc, HTML: body}, nil
}
