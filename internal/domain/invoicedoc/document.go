// Package invoicedoc turns an invoice into a displayable document. Building
// the ordered section list is kept apart from serialising it, so the content
// rules can be checked without parsing HTML.
package invoicedoc

type SectionKind string

const (
	KindTitle     SectionKind = "title"
	KindDetails   SectionKind = "details"
	KindLineItems SectionKind = "line_items"
	KindStatus    SectionKind = "status"
	KindFooter    SectionKind = "footer"
)

type Section interface {
	Kind() SectionKind
}

type TitleSection struct {
	Heading       string
	InvoiceNumber string
}

type Row struct {
	Label string
	Value string
}

type DetailsSection struct {
	Rows []Row
}

type LineItem struct {
	Description string
	Amount      string
}

type LineItemsSection struct {
	DescriptionHeader string
	AmountHeader      string
	Items             []LineItem
	TotalLabel        string
	Total             string
}

type StatusSection struct {
	Status Row
	// PaidOn is nil unless the invoice has been paid.
	PaidOn *Row
}

type FooterSection struct {
	Text string
}

func (TitleSection) Kind() SectionKind     { return KindTitle }
func (DetailsSection) Kind() SectionKind   { return KindDetails }
func (LineItemsSection) Kind() SectionKind { return KindLineItems }
func (StatusSection) Kind() SectionKind    { return KindStatus }
func (FooterSection) Kind() SectionKind    { return KindFooter }

type Document struct {
	Lang     string
	Title    string
	Filename string
	Sections []Section
}
