// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/sunflower003/cocktail-miami-storefront/internal/config"
	"github.com/sunflower003/cocktail-miami-storefront/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData feeds the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedOn      string
	StoreName     string
	Order         *order.Order
}

// GenerateReceipt renders an order receipt PDF
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", o.ID),
		IssuedOn:      o.CreatedAt.Format("January 2, 2006"),
		StoreName:     s.config.App.Name,
		Order:         o,
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Funcs(template.FuncMap{
		"multiply": func(price float64, quantity int) float64 {
			return price * float64(quantity)
		},
	}).Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { text-align: left; padding: 8px 6px; border-bottom: 1px solid #ddd; font-size: 13px; }
  th { background: #f5f5f5; }
  .num { text-align: right; }
  .totals td { border: none; padding: 4px 6px; }
  .totals .label { text-align: right; color: #666; }
  .grand { font-weight: bold; font-size: 15px; }
  .address { margin-top: 24px; font-size: 13px; line-height: 1.5; }
</style>
</head>
<body>
  <h1>{{.StoreName}}</h1>
  <div class="meta">
    Receipt {{.ReceiptNumber}} &middot; {{.IssuedOn}} &middot; Order {{.Order.ID}}<br>
    Payment: {{.Order.PaymentMethod}} &middot; Status: {{.Order.Status}}
  </div>

  <table>
    <tr><th>Item</th><th class="num">Unit price</th><th class="num">Qty</th><th class="num">Amount</th></tr>
    {{range .Order.Items}}
    <tr>
      <td>{{.Name}}</td>
      <td class="num">{{printf "%.2f" .Price}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{printf "%.2f" (multiply .Price .Quantity)}}</td>
    </tr>
    {{end}}
  </table>

  <table class="totals">
    <tr><td class="label">Subtotal</td><td class="num">{{printf "%.2f" .Order.TotalPrice}}</td></tr>
    <tr><td class="label">Shipping</td><td class="num">{{printf "%.2f" .Order.ShippingFee}}</td></tr>
    <tr><td class="label">Tax</td><td class="num">{{printf "%.2f" .Order.Tax}}</td></tr>
    <tr class="grand"><td class="label">Total</td><td class="num">{{printf "%.2f" .Order.FinalTotal}}</td></tr>
  </table>

  <div class="address">
    <strong>Ship to</strong><br>
    {{.Order.ShippingAddress.FirstName}} {{.Order.ShippingAddress.LastName}}<br>
    {{.Order.ShippingAddress.Address}}<br>
    {{.Order.ShippingAddress.City}}, {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.ZipCode}}<br>
    {{.Order.ShippingAddress.Phone}}
  </div>
</body>
</html>`
