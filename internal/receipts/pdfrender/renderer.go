package pdfrender

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/greencart/checkout-client/internal/receipts"
	"github.com/greencart/checkout-client/pkg/types"
)

const disclaimer = "This is a computer-generated receipt and does not require a signature."

// Renderer turns ReceiptData into a paginated PDF document. Rendering is a
// pure function of its input except for the displayed generation date.
type Renderer struct {
	brand string
	now   func() time.Time
}

// Option configures optional renderer behavior.
type Option func(*Renderer)

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// New builds a renderer branded with the storefront name.
func New(brand string, opts ...Option) *Renderer {
	if brand == "" {
		brand = "Green Cart"
	}
	r := &Renderer{brand: brand, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render produces the PDF bytes and the deterministic artifact name. It
// returns an error on internal failure so callers can tell a failed render
// from a skipped one.
func (r *Renderer) Render(data receipts.ReceiptData) ([]byte, string, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	r.addHeader(m)
	r.addIdentifiers(m, data)
	r.addCustomerBlock(m, data)
	r.addPaymentSummary(m, data)
	if data.Order != nil {
		r.addOrderBlock(m, data)
	}
	if len(data.Timeline) > 0 {
		r.addTimeline(m, data)
	}
	r.addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generating receipt pdf: %w", err)
	}

	return doc.GetBytes(), FileName(data.ReceiptID), nil
}

// FileName derives the artifact name from the payment identifier.
func FileName(receiptID string) string {
	return fmt.Sprintf("receipt_%s.pdf", receiptID)
}

func (r *Renderer) addHeader(m core.Maroto) {
	m.AddRow(14,
		col.New(12).Add(
			text.New(r.brand, props.Text{
				Size:  20,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: &props.Color{Red: 0, Green: 128, Blue: 0},
			}),
		),
	)
	m.AddRow(10,
		col.New(12).Add(
			text.New("Payment Receipt", props.Text{
				Size:  16,
				Align: align.Center,
			}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addIdentifiers(m core.Maroto, data receipts.ReceiptData) {
	m.AddRow(12,
		col.New(6).Add(
			text.New(fmt.Sprintf("Date: %s", r.now().Format("02/01/2006")), props.Text{
				Size:  10,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Receipt id: %s", data.ReceiptID), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Left,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Payment id: %s", data.PaymentID), props.Text{
				Size:  10,
				Align: align.Right,
			}),
		),
	)
}

func (r *Renderer) addCustomerBlock(m core.Maroto, data receipts.ReceiptData) {
	m.AddRow(8,
		col.New(12).Add(
			text.New("Customer Information", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
	)
	m.AddRow(22,
		col.New(12).Add(
			text.New(fmt.Sprintf("Name: %s", data.CustomerName), props.Text{
				Size:  10,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Email: %s", data.CustomerEmail), props.Text{
				Size:  10,
				Top:   5,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Phone: %s", data.CustomerPhone), props.Text{
				Size:  10,
				Top:   10,
				Align: align.Left,
			}),
			text.New(fmt.Sprintf("Delivery Address: %s", data.AddressText), props.Text{
				Size:  10,
				Top:   15,
				Align: align.Left,
			}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addPaymentSummary(m core.Maroto, data receipts.ReceiptData) {
	m.AddRow(8,
		col.New(12).Add(
			text.New("Payment Summary", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
	)
	m.AddRow(7,
		headerCell(5, "Description", align.Left),
		headerCell(3, "Amount", align.Right),
		headerCell(2, "Status", align.Center),
		headerCell(2, "Method", align.Center),
	)
	m.AddRow(7,
		bodyCell(5, "Payment for your order", align.Left),
		bodyCell(3, types.FormatMinor(data.AmountMinor, data.Currency), align.Right),
		bodyCell(2, data.Status, align.Center),
		bodyCell(2, data.Method, align.Center),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addOrderBlock(m core.Maroto, data receipts.ReceiptData) {
	order := data.Order

	m.AddRow(8,
		col.New(12).Add(
			text.New("Order Details", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
	)

	orderDate := receipts.Placeholder
	if order.OrderDate != nil {
		orderDate = order.OrderDate.Format("02/01/2006")
	}
	m.AddRow(26,
		col.New(12).Add(
			text.New(fmt.Sprintf("Order ID: %s", order.ID), props.Text{Size: 10, Align: align.Left}),
			text.New(fmt.Sprintf("Order Date: %s", orderDate), props.Text{Size: 10, Top: 5, Align: align.Left}),
			text.New(fmt.Sprintf("Order Status: %s", order.OrderStatus), props.Text{Size: 10, Top: 10, Align: align.Left}),
			text.New(fmt.Sprintf("Payment Status: %s", order.PaymentStatus), props.Text{Size: 10, Top: 15, Align: align.Left}),
			text.New(fmt.Sprintf("Payment Method: %s", order.PaymentMethod), props.Text{Size: 10, Top: 20, Align: align.Left}),
		),
	)

	if len(order.Items) == 0 {
		return
	}

	m.AddRow(7,
		headerCell(6, "Product", align.Left),
		headerCell(2, "Quantity", align.Center),
		headerCell(2, "Unit Price", align.Right),
		headerCell(2, "Subtotal", align.Right),
	)
	for _, item := range order.Items {
		name := item.Product.Name
		if name == "" {
			name = "Product"
		}
		m.AddRow(7,
			bodyCell(6, name, align.Left),
			bodyCell(2, fmt.Sprintf("%d", item.Quantity), align.Center),
			bodyCell(2, types.FormatMajor(item.Price, data.Currency), align.Right),
			bodyCell(2, types.FormatSubtotal(item.Price, item.Quantity, data.Currency), align.Right),
		)
	}
	m.AddRow(7,
		col.New(8),
		headerCell(2, "Total", align.Right),
		headerCell(2, types.FormatMajor(order.TotalPrice, data.Currency), align.Right),
	)
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addTimeline(m core.Maroto, data receipts.ReceiptData) {
	m.AddRow(8,
		col.New(12).Add(
			text.New("Order Timeline", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Align: align.Left,
			}),
		),
	)
	m.AddRow(7,
		headerCell(6, "Status", align.Left),
		headerCell(6, "Date & Time", align.Left),
	)
	for _, entry := range data.Timeline {
		m.AddRow(7,
			bodyCell(6, entry.Event.Label(), align.Left),
			bodyCell(6, entry.At.Format("02/01/2006 15:04:05"), align.Left),
		)
	}
	m.AddRow(4, line.NewCol(12))
}

func (r *Renderer) addFooter(m core.Maroto) {
	m.AddRow(10,
		col.New(12).Add(
			text.New(fmt.Sprintf("Thank you for shopping with %s!", r.brand), props.Text{
				Size:  10,
				Align: align.Center,
			}),
		),
	)
	m.AddRow(6,
		col.New(12).Add(
			text.New(disclaimer, props.Text{
				Size:  9,
				Align: align.Center,
			}),
		),
	)
}

func headerCell(size int, value string, alignment align.Type) core.Col {
	return col.New(size).Add(
		text.New(value, props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: alignment,
		}),
	)
}

func bodyCell(size int, value string, alignment align.Type) core.Col {
	return col.New(size).Add(
		text.New(value, props.Text{
			Size:  9,
			Align: alignment,
		}),
	)
}
