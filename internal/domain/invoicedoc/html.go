package invoicedoc

import (
	"bytes"
	"fmt"
	"html/template"
)

const ContentType = "text/html; charset=utf-8"

type block struct {
	Kind      SectionKind
	Title     *TitleSection
	Details   *DetailsSection
	LineItems *LineItemsSection
	Status    *StatusSection
	Footer    *FooterSection
}

var documentTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; color: #333; }
.invoice-header { text-align: center; margin-bottom: 30px; }
.invoice-details { margin-bottom: 30px; }
.invoice-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
.invoice-table th, .invoice-table td { border: 1px solid #ddd; padding: 10px; }
.invoice-table th { background-color: #f2f2f2; }
.invoice-footer { text-align: center; margin-top: 50px; font-size: 12px; }
.text-right { text-align: right; }
</style>
</head>
<body>
{{- range .Blocks}}
{{- if .Title}}
<div class="invoice-header">
<h1>{{.Title.Heading}}</h1>
<h2>{{.Title.InvoiceNumber}}</h2>
</div>
{{- else if .Details}}
<div class="invoice-details">
{{- range .Details.Rows}}
<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{- end}}
</div>
{{- else if .LineItems}}
<table class="invoice-table">
<thead><tr><th>{{.LineItems.DescriptionHeader}}</th><th>{{.LineItems.AmountHeader}}</th></tr></thead>
<tbody>
{{- range .LineItems.Items}}
<tr><td>{{.Description}}</td><td class="text-right">{{.Amount}}</td></tr>
{{- end}}
</tbody>
<tfoot><tr><th>{{.LineItems.TotalLabel}}</th><th class="text-right">{{.LineItems.Total}}</th></tr></tfoot>
</table>
{{- else if .Status}}
<div class="invoice-status">
<p><strong>{{.Status.Status.Label}}:</strong> {{.Status.Status.Value}}</p>
{{- with .Status.PaidOn}}
<p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{- end}}
</div>
{{- else if .Footer}}
<div class="invoice-footer">
<p>{{.Footer.Text}}</p>
</div>
{{- end}}
{{- end}}
</body>
</html>
`))

// RenderHTML serialises doc as a standalone HTML page. All text is escaped.
func RenderHTML(doc Document) ([]byte, error) {
	blocks := make([]block, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		b := block{Kind: s.Kind()}
		switch v := s.(type) {
		case TitleSection:
			b.Title = &v
		case DetailsSection:
			b.Details = &v
		case LineItemsSection:
			b.LineItems = &v
		case StatusSection:
			b.Status = &v
		case FooterSection:
			b.Footer = &v
		default:
			return nil, fmt.Errorf("invoicedoc: unsupported section %q", s.Kind())
		}
		blocks = append(blocks, b)
	}

	var buf bytes.Buffer
	err := documentTemplate.Execute(&buf, struct {
		Lang   string
		Title  string
		Blocks []block
	}{Lang: doc.Lang, Title: doc.Title, Blocks: blocks})
	if err != nil {
		return nil, fmt.Errorf("invoicedoc: render: %w", err)
	}
	return buf.Bytes(), nil
}
