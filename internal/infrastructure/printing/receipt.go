package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/lats/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Shop is the header printed on every receipt
type Shop struct {
	Name    string
	Address string
	Phone   string
	Footer  string
}

// ReceiptData is what the receipt layout is executed with
type ReceiptData struct {
	Shop          Shop
	ReceiptNumber string
	Sale          *sales.Sale
	SoldAt        time.Time
	Currency      string
}

// ReceiptRenderer turns sales into receipt HTML and, when a PDF renderer is
// configured, into PDF.
type ReceiptRenderer struct {
	tmpl     *template.Template
	pdf      PDFRenderer
	shop     Shop
	currency string
	loc      *time.Location
}

// NewReceiptRenderer parses the receipt layout. pdf may be nil, in which
// case only HTML receipts are available.
func NewReceiptRenderer(shop Shop, currency string, loc *time.Location, pdf PDFRenderer) (*ReceiptRenderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	tmpl, err := template.New("receipt").Funcs(receiptFuncs(currency)).Parse(receiptLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return &ReceiptRenderer{tmpl: tmpl, pdf: pdf, shop: shop, currency: currency, loc: loc}, nil
}

// PDFEnabled reports whether PDF rendering is available
func (r *ReceiptRenderer) PDFEnabled() bool {
	return r.pdf != nil
}

// HTML renders the receipt for a sale
func (r *ReceiptRenderer) HTML(sale *sales.Sale) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, ReceiptData{
		Shop:          r.shop,
		ReceiptNumber: sale.ReceiptNumber(),
		Sale:          sale,
		SoldAt:        sale.SoldAt.In(r.loc),
		Currency:      r.currency,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}

// PDF renders the receipt for a sale as PDF
func (r *ReceiptRenderer) PDF(ctx context.Context, sale *sales.Sale) ([]byte, error) {
	if r.pdf == nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF rendering is disabled", nil)
	}
	doc, err := r.HTML(sale)
	if err != nil {
		return nil, err
	}
	res, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:         doc,
		Title:        sale.ReceiptNumber(),
		PaperWidthMM: DefaultPaperWidthMM,
		MarginMM:     3,
	})
	if err != nil {
		return nil, err
	}
	return res.PDFData, nil
}

var statusCaser = cases.Title(language.English)

func receiptFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return currency + " " + FormatAmount(d)
		},
		"datetime": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
		"title": func(s string) string {
			return statusCaser.String(strings.ReplaceAll(s, "_", " "))
		},
		"positive": func(d decimal.Decimal) bool { return d.IsPositive() },
	}
}

// FormatAmount renders whole shillings with thousand separators,
// e.g. 1234567.4 -> 1,234,567
func FormatAmount(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	digits := d.Round(0).String()

	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}

const receiptLayout = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>{{.ReceiptNumber}}</title>
<style>
body{font-family:monospace;font-size:11px;margin:0}
h1{font-size:14px;text-align:center;margin:0 0 2px}
.c{text-align:center}.r{text-align:right}
table{width:100%;border-collapse:collapse}
td{padding:1px 0;vertical-align:top}
hr{border:0;border-top:1px dashed #000}
.total td{font-weight:bold}
</style></head>
<body>
<h1>{{.Shop.Name}}</h1>
{{with .Shop.Address}}<div class="c">{{.}}</div>{{end}}
{{with .Shop.Phone}}<div class="c">Tel: {{.}}</div>{{end}}
<hr>
<div>Receipt: {{.ReceiptNumber}}</div>
<div>Date: {{datetime .SoldAt}}</div>
<div>Customer: {{.Sale.CustomerName}}</div>
{{if ne (printf "%s" .Sale.Status) "completed"}}<div>Status: {{title (printf "%s" .Sale.Status)}}</div>{{end}}
<hr>
<table>
{{range .Sale.Items}}<tr><td colspan="2">{{.ProductName}}</td></tr>
<tr><td>{{.Quantity}} x {{money .UnitPrice}}</td><td class="r">{{money .TotalPrice}}</td></tr>
{{end}}</table>
<hr>
<table>
<tr><td>Subtotal</td><td class="r">{{money .Sale.Subtotal}}</td></tr>
{{if positive .Sale.DiscountAmount}}<tr><td>Discount</td><td class="r">-{{money .Sale.DiscountAmount}}</td></tr>{{end}}
{{if positive .Sale.TaxAmount}}<tr><td>Tax</td><td class="r">{{money .Sale.TaxAmount}}</td></tr>{{end}}
<tr class="total"><td>TOTAL</td><td class="r">{{money .Sale.TotalAmount}}</td></tr>
{{range .Sale.Payments}}<tr><td>{{.Method.DisplayName}}{{with .Reference}} ({{.}}){{end}}</td><td class="r">{{money .Amount}}</td></tr>
{{end}}</table>
<hr>
{{with .Shop.Footer}}<div class="c">{{.}}</div>{{end}}
</body></html>
`
