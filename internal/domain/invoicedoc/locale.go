package invoicedoc

import (
	"fmt"
	"strings"
	"time"

	"invoice-portal/internal/domain/billing"

	"golang.org/x/text/language"
)

type labels struct {
	Heading         string
	TitlePrefix     string
	FilenamePrefix  string
	Date            string
	Customer        string
	Email           string
	Description     string
	Amount          string
	Total           string
	Status          string
	PaidOn          string
	CustomerName    string
	CustomerEmail   string
	PlanName        string
	PlanDescription string
	Footer          string
	Statuses        map[billing.Status]string
}

// Locale carries everything the renderer needs to format text for a viewer.
// It is an explicit input so rendering never depends on process state.
type Locale struct {
	Tag        language.Tag
	months     [12]string
	formatDate func(day int, month string, year int) string
	labels     labels
}

func (l Locale) Code() string { return l.Tag.String() }

// FormatDate renders t (in UTC) as a long date, e.g. "05 de marzo de 2024".
func (l Locale) FormatDate(t time.Time) string {
	if l.formatDate == nil {
		return Spanish.FormatDate(t)
	}
	u := t.UTC()
	return l.formatDate(u.Day(), l.months[u.Month()-1], u.Year())
}

func (l Locale) StatusLabel(s billing.Status) string {
	if v, ok := l.labels.Statuses[s]; ok {
		return v
	}
	return string(s)
}

var Spanish = Locale{
	Tag: language.Spanish,
	months: [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	},
	formatDate: func(day int, month string, year int) string {
		return fmt.Sprintf("%02d de %s de %d", day, month, year)
	},
	labels: labels{
		Heading:         "FACTURA",
		TitlePrefix:     "Factura",
		FilenamePrefix:  "factura",
		Date:            "Fecha",
		Customer:        "Cliente",
		Email:           "Email",
		Description:     "Descripción",
		Amount:          "Importe",
		Total:           "Total",
		Status:          "Estado",
		PaidOn:          "Fecha de pago",
		CustomerName:    "Cliente",
		CustomerEmail:   "email@ejemplo.com",
		PlanName:        "Plan",
		PlanDescription: "Suscripción",
		Footer:          "Gracias por su confianza en Lugasa",
		Statuses: map[billing.Status]string{
			billing.StatusPaid:      "Pagada",
			billing.StatusPending:   "Pendiente",
			billing.StatusOverdue:   "Vencida",
			billing.StatusCancelled: "Cancelada",
		},
	},
}

var English = Locale{
	Tag: language.English,
	months: [12]string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	formatDate: func(day int, month string, year int) string {
		return fmt.Sprintf("%s %02d, %d", month, day, year)
	},
	labels: labels{
		Heading:         "INVOICE",
		TitlePrefix:     "Invoice",
		FilenamePrefix:  "invoice",
		Date:            "Date",
		Customer:        "Customer",
		Email:           "Email",
		Description:     "Description",
		Amount:          "Amount",
		Total:           "Total",
		Status:          "Status",
		PaidOn:          "Paid on",
		CustomerName:    "Customer",
		CustomerEmail:   "email@example.com",
		PlanName:        "Plan",
		PlanDescription: "Subscription",
		Footer:          "Thank you for trusting Lugasa",
		Statuses: map[billing.Status]string{
			billing.StatusPaid:      "Paid",
			billing.StatusPending:   "Pending",
			billing.StatusOverdue:   "Overdue",
			billing.StatusCancelled: "Cancelled",
		},
	},
}

var (
	locales   = []Locale{Spanish, English}
	supported = []language.Tag{language.Spanish, language.English}
	matcher   = language.NewMatcher(supported)
)

// Lookup resolves a short code such as "es" or "en-GB" to a supported locale.
func Lookup(code string) (Locale, bool) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return Locale{}, false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Locale{}, false
	}
	return locales[idx], true
}

// Negotiate picks the best supported locale for an Accept-Language header,
// falling back when the header is empty, malformed or matches nothing.
// A zero fallback means Spanish.
func Negotiate(acceptLanguage string, fallback Locale) Locale {
	if fallback.formatDate == nil {
		fallback = Spanish
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return locales[idx]
}
