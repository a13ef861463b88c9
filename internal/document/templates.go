package document

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("documents").Funcs(template.FuncMap{
		"money":         formatMoney,
		"date":          formatDate,
		"paymentMethod": paymentMethodLabel,
		"deref":         deref,
	}).ParseFS(templateFS, "templates/*.html"),
)

var paymentMethodLabels = map[string]string{
	domain.PaymentBankTransfer: "Bank transfer",
	domain.PaymentDirectDebit:  "Direct debit",
	domain.PaymentCash:         "Cash",
	domain.PaymentCheque:       "Cheque",
	domain.PaymentCard:         "Card",
	domain.PaymentBizum:        "Bizum",
	domain.PaymentOther:        "Other",
}

// RenderReceiptHTML renders a self-contained HTML receipt.
func RenderReceiptHTML(view ReceiptView) ([]byte, error) {
	return execute("receipt.html", view)
}

// RenderCertificateHTML renders a self-contained HTML annual certificate.
func RenderCertificateHTML(view CertificateView) ([]byte, error) {
	return execute("certificate.html", view)
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatMoney prints an amount with two decimals, thousands separators and
// a trailing euro sign, e.g. "1,234.50 €".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	return sign + grouped.String() + "." + frac + " €"
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func paymentMethodLabel(method *string) string {
	if method == nil {
		return ""
	}
	if label, ok := paymentMethodLabels[*method]; ok {
		return label
	}
	return *method
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
