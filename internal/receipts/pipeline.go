package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/greencart/checkout-client/internal/ledger"
	"github.com/greencart/checkout-client/pkg/enums"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
	"github.com/greencart/checkout-client/pkg/logger"
	"github.com/greencart/checkout-client/pkg/storefront"
)

// API is the backend surface the pipeline aggregates from.
type API interface {
	VerifyPayment(ctx context.Context, result storefront.VerificationResult) error
	GetPayment(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error)
	GetOrder(ctx context.Context, orderID string) (*storefront.OrderRecord, error)
	GetCustomerByUser(ctx context.Context, userID string) (*storefront.CustomerRecord, error)
	GetAddress(ctx context.Context, addressID string) (*storefront.AddressRecord, error)
}

// DocumentRenderer turns ReceiptData into a downloadable artifact.
type DocumentRenderer interface {
	Render(data ReceiptData) ([]byte, string, error)
}

// Result reports where an attempt ended and what it produced.
type Result struct {
	State        enums.AttemptState
	Data         *ReceiptData
	ArtifactPath string
}

// PipelineParams wires the pipeline dependencies. Ledger is optional.
type PipelineParams struct {
	API         API
	Renderer    DocumentRenderer
	Ledger      ledger.Service
	Logger      *logger.Logger
	OutputDir   string
	RenderDelay time.Duration
}

// Pipeline verifies a completed payment and assembles its receipt. Receipt
// completeness is best-effort: every optional linked fetch degrades to a
// placeholder rather than aborting the flow.
type Pipeline struct {
	api         API
	renderer    DocumentRenderer
	ledger      ledger.Service
	logg        *logger.Logger
	outputDir   string
	renderDelay time.Duration
}

// NewPipeline builds the receipt pipeline.
func NewPipeline(params PipelineParams) (*Pipeline, error) {
	if params.API == nil {
		return nil, fmt.Errorf("storefront api required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("document renderer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	outputDir := params.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &Pipeline{
		api:         params.API,
		renderer:    params.Renderer,
		ledger:      params.Ledger,
		logg:        params.Logger,
		outputDir:   outputDir,
		renderDelay: params.RenderDelay,
	}, nil
}

// Confirm runs the post-payment path: server-side signature verification,
// then payment fetch, best-effort address fetch, merge, and render.
func (p *Pipeline) Confirm(ctx context.Context, result storefront.VerificationResult, info CustomerInfo) (*Result, error) {
	ctx = p.logg.WithPaymentID(ctx, result.PaymentID)
	p.logg.Debug(ctx, "attempt state: "+enums.AttemptStateVerifying.String())

	if err := p.api.VerifyPayment(ctx, result); err != nil {
		p.logg.Notify(ctx, pkgerrors.PublicMessage(err))
		return &Result{State: enums.AttemptStateFailed}, err
	}
	p.logg.Notify(ctx, "Payment successful!")
	p.logg.Debug(ctx, "attempt state: "+enums.AttemptStateVerified.String())

	payment, err := p.api.GetPayment(ctx, result.PaymentID)
	if err != nil {
		// The payment itself succeeded; only the receipt is lost. Surface a
		// recoverable notification, never a crash.
		p.logg.Notify(ctx, pkgerrors.PublicMessage(err))
		return &Result{State: enums.AttemptStateFailed}, err
	}

	data := p.aggregate(ctx, result.PaymentID, payment, info, false)
	return p.render(ctx, data)
}

// Regenerate runs the manual path by payment id: payment fetch, then the
// best-effort order and customer chain, merge, and render.
func (p *Pipeline) Regenerate(ctx context.Context, paymentID string, info CustomerInfo) (*Result, error) {
	ctx = p.logg.WithPaymentID(ctx, paymentID)

	payment, err := p.api.GetPayment(ctx, paymentID)
	if err != nil {
		p.logg.Notify(ctx, "Failed to fetch payment details")
		return &Result{State: enums.AttemptStateFailed}, err
	}
	p.logg.Notify(ctx, "Payment details fetched successfully")

	data := p.aggregate(ctx, paymentID, payment, info, true)
	return p.render(ctx, data)
}

// aggregate assembles ReceiptData from the payment record and whatever
// optional linked records can be fetched. chainLinks enables the manual
// path's payment -> order -> customer chain.
func (p *Pipeline) aggregate(ctx context.Context, paymentID string, payment *storefront.PaymentRecord, info CustomerInfo, chainLinks bool) ReceiptData {
	if status, parseErr := enums.ParsePaymentStatus(payment.Status); parseErr == nil && status != enums.PaymentStatusCaptured {
		p.logg.Warn(p.logg.WithField(ctx, "status", status.String()), "building receipt for a non-captured payment")
	}

	var softs []error

	var order *storefront.OrderRecord
	var customer *storefront.CustomerRecord
	if chainLinks && payment.OrderID != "" {
		order, softs = fetchOptional(ctx, softs, "order", func(ctx context.Context) (*storefront.OrderRecord, error) {
			return p.api.GetOrder(ctx, payment.OrderID)
		})
		if order != nil && order.UserID != "" {
			customer, softs = fetchOptional(ctx, softs, "customer", func(ctx context.Context) (*storefront.CustomerRecord, error) {
				return p.api.GetCustomerByUser(ctx, order.UserID)
			})
		}
	}

	var address *storefront.AddressRecord
	if info.DeliveryAddressID != "" {
		address, softs = fetchOptional(ctx, softs, "address", func(ctx context.Context) (*storefront.AddressRecord, error) {
			return p.api.GetAddress(ctx, info.DeliveryAddressID)
		})
	}

	if combined := multierr.Combine(softs...); combined != nil {
		p.logg.Warn(p.logg.WithField(ctx, "soft_failures", combined.Error()), "continuing with partial receipt data")
	}

	return BuildReceiptData(paymentID, payment, order, customer, address, info)
}

// render waits out the debounce delay, renders the document, and writes and
// records the artifact.
func (p *Pipeline) render(ctx context.Context, data ReceiptData) (*Result, error) {
	if p.renderDelay > 0 {
		timer := time.NewTimer(p.renderDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return &Result{State: enums.AttemptStateFailed, Data: &data},
				pkgerrors.Wrap(pkgerrors.CodeInternal, ctx.Err(), "attempt abandoned before rendering")
		}
	}
	if err := ctx.Err(); err != nil {
		return &Result{State: enums.AttemptStateFailed, Data: &data},
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attempt abandoned before rendering")
	}

	p.logg.Debug(ctx, "attempt state: "+enums.AttemptStateRendering.String())

	content, name, err := p.renderer.Render(data)
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeRender, err, "render receipt")
		p.logg.Notify(ctx, pkgerrors.PublicMessage(wrapped))
		return &Result{State: enums.AttemptStateRenderFailed, Data: &data}, wrapped
	}

	path := filepath.Join(p.outputDir, name)
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeRender, err, "prepare receipt directory")
		return &Result{State: enums.AttemptStateRenderFailed, Data: &data}, wrapped
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeRender, err, "write receipt artifact")
		return &Result{State: enums.AttemptStateRenderFailed, Data: &data}, wrapped
	}

	p.recordArtifact(ctx, data, name, content)
	p.logg.Notify(ctx, "Receipt downloaded successfully")

	return &Result{
		State:        enums.AttemptStateDelivered,
		Data:         &data,
		ArtifactPath: path,
	}, nil
}

// recordArtifact notes the artifact in the local ledger. Ledger failures
// never fail the attempt.
func (p *Pipeline) recordArtifact(ctx context.Context, data ReceiptData, name string, content []byte) {
	if p.ledger == nil {
		return
	}
	orderID := ""
	if data.Order != nil {
		orderID = data.Order.ID
	}
	_, err := p.ledger.RecordArtifact(ctx, ledger.RecordArtifactInput{
		PaymentID: data.PaymentID,
		OrderID:   orderID,
		FileName:  name,
		Content:   content,
		Outcome:   enums.CheckoutOutcomeDelivered,
	})
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "failed to record receipt artifact")
	}
}

// fetchOptional performs one best-effort lookup. A failure is appended to
// softs and the flow continues with a nil record.
func fetchOptional[T any](ctx context.Context, softs []error, label string, fn func(context.Context) (*T, error)) (*T, []error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, append(softs, fmt.Errorf("%s: %w", label, err))
	}
	return value, softs
}
