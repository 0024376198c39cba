package receipts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/greencart/checkout-client/internal/ledger"
	"github.com/greencart/checkout-client/pkg/db/models"
	"github.com/greencart/checkout-client/pkg/enums"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
	"github.com/greencart/checkout-client/pkg/logger"
	"github.com/greencart/checkout-client/pkg/storefront"
)

type fakeAPI struct {
	verifyFn   func(ctx context.Context, result storefront.VerificationResult) error
	paymentFn  func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error)
	orderFn    func(ctx context.Context, orderID string) (*storefront.OrderRecord, error)
	customerFn func(ctx context.Context, userID string) (*storefront.CustomerRecord, error)
	addressFn  func(ctx context.Context, addressID string) (*storefront.AddressRecord, error)
}

func (f *fakeAPI) VerifyPayment(ctx context.Context, result storefront.VerificationResult) error {
	if f.verifyFn != nil {
		return f.verifyFn(ctx, result)
	}
	return nil
}

func (f *fakeAPI) GetPayment(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
	if f.paymentFn != nil {
		return f.paymentFn(ctx, paymentID)
	}
	return &storefront.PaymentRecord{ID: paymentID, AmountMinor: 150000, Currency: "INR", Status: "captured"}, nil
}

func (f *fakeAPI) GetOrder(ctx context.Context, orderID string) (*storefront.OrderRecord, error) {
	if f.orderFn != nil {
		return f.orderFn(ctx, orderID)
	}
	return nil, errors.New("no order fake configured")
}

func (f *fakeAPI) GetCustomerByUser(ctx context.Context, userID string) (*storefront.CustomerRecord, error) {
	if f.customerFn != nil {
		return f.customerFn(ctx, userID)
	}
	return nil, errors.New("no customer fake configured")
}

func (f *fakeAPI) GetAddress(ctx context.Context, addressID string) (*storefront.AddressRecord, error) {
	if f.addressFn != nil {
		return f.addressFn(ctx, addressID)
	}
	return nil, errors.New("no address fake configured")
}

type fakeRenderer struct {
	renderFn func(data ReceiptData) ([]byte, string, error)
	calls    int
	last     ReceiptData
}

func (f *fakeRenderer) Render(data ReceiptData) ([]byte, string, error) {
	f.calls++
	f.last = data
	if f.renderFn != nil {
		return f.renderFn(data)
	}
	return []byte("%PDF fake"), "receipt_" + data.ReceiptID + ".pdf", nil
}

type fakeLedger struct {
	records []ledger.RecordArtifactInput
	err     error
}

func (f *fakeLedger) RecordArtifact(ctx context.Context, input ledger.RecordArtifactInput) (*models.ReceiptArtifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, input)
	return &models.ReceiptArtifact{PaymentID: input.PaymentID}, nil
}

func (f *fakeLedger) History(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestPipeline(t *testing.T, api *fakeAPI, renderer *fakeRenderer, led ledger.Service) *Pipeline {
	t.Helper()
	p, err := NewPipeline(PipelineParams{
		API:       api,
		Renderer:  renderer,
		Ledger:    led,
		Logger:    testLogger(),
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func verification() storefront.VerificationResult {
	return storefront.VerificationResult{OrderID: "ord_9", PaymentID: "pay_42", Signature: "sig"}
}

func TestConfirmDeliversArtifact(t *testing.T) {
	api := &fakeAPI{}
	renderer := &fakeRenderer{}
	led := &fakeLedger{}
	p := newTestPipeline(t, api, renderer, led)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{Name: "A Shopper"})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if result.State != enums.AttemptStateDelivered {
		t.Fatalf("unexpected state %q", result.State)
	}
	if _, statErr := os.Stat(result.ArtifactPath); statErr != nil {
		t.Fatalf("artifact not written: %v", statErr)
	}
	if filepath.Base(result.ArtifactPath) != "receipt_pay_42.pdf" {
		t.Fatalf("unexpected artifact name %q", result.ArtifactPath)
	}
	if len(led.records) != 1 || led.records[0].PaymentID != "pay_42" {
		t.Fatalf("expected one ledger record, got %+v", led.records)
	}
	if renderer.last.CustomerName != "A Shopper" {
		t.Fatalf("explicit customer info missing from render input: %+v", renderer.last)
	}
}

func TestConfirmVerificationFailureIsTerminal(t *testing.T) {
	api := &fakeAPI{
		verifyFn: func(ctx context.Context, result storefront.VerificationResult) error {
			return pkgerrors.New(pkgerrors.CodeVerification, "signature rejected")
		},
	}
	renderer := &fakeRenderer{}
	p := newTestPipeline(t, api, renderer, nil)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{})
	if result.State != enums.AttemptStateFailed {
		t.Fatalf("unexpected state %q", result.State)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeVerification {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if renderer.calls != 0 {
		t.Fatal("renderer must not run after verification failure")
	}
}

func TestConfirmPaymentFetchFailureIsRecoverable(t *testing.T) {
	api := &fakeAPI{
		paymentFn: func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, errors.New("status 500"), "fetch payment")
		},
	}
	renderer := &fakeRenderer{}
	p := newTestPipeline(t, api, renderer, nil)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{})
	if result.State != enums.AttemptStateFailed {
		t.Fatalf("unexpected state %q", result.State)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeFetch {
		t.Fatalf("expected fetch failure, got %v", err)
	}
	if pkgerrors.IsTerminal(err) {
		t.Fatal("payment fetch failure after verification must be recoverable")
	}
}

func TestConfirmAddressFailureDegradesToPlaceholder(t *testing.T) {
	api := &fakeAPI{
		addressFn: func(ctx context.Context, addressID string) (*storefront.AddressRecord, error) {
			return nil, errors.New("address service down")
		},
	}
	renderer := &fakeRenderer{}
	p := newTestPipeline(t, api, renderer, nil)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{DeliveryAddressID: "addr_1"})
	if err != nil {
		t.Fatalf("Confirm should tolerate address failure: %v", err)
	}
	if result.State != enums.AttemptStateDelivered {
		t.Fatalf("unexpected state %q", result.State)
	}
	if renderer.last.AddressText != Placeholder {
		t.Fatalf("expected address placeholder, got %q", renderer.last.AddressText)
	}
}

func TestConfirmDoesNotChainOrderLookups(t *testing.T) {
	orderCalls := 0
	api := &fakeAPI{
		paymentFn: func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
			return &storefront.PaymentRecord{ID: paymentID, OrderID: "ord_9"}, nil
		},
		orderFn: func(ctx context.Context, orderID string) (*storefront.OrderRecord, error) {
			orderCalls++
			return &storefront.OrderRecord{ID: orderID}, nil
		},
	}
	p := newTestPipeline(t, api, &fakeRenderer{}, nil)

	if _, err := p.Confirm(context.Background(), verification(), CustomerInfo{}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if orderCalls != 0 {
		t.Fatal("post-payment path must not chain into order lookups")
	}
}

func TestRegenerateChainsBestEffort(t *testing.T) {
	api := &fakeAPI{
		paymentFn: func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
			return &storefront.PaymentRecord{ID: paymentID, AmountMinor: 100, Currency: "INR", OrderID: "ord_9"}, nil
		},
		orderFn: func(ctx context.Context, orderID string) (*storefront.OrderRecord, error) {
			return &storefront.OrderRecord{ID: orderID, UserID: "user_5", OrderStatus: "Shipped"}, nil
		},
		customerFn: func(ctx context.Context, userID string) (*storefront.CustomerRecord, error) {
			return &storefront.CustomerRecord{Name: "Fetched Customer"}, nil
		},
	}
	renderer := &fakeRenderer{}
	p := newTestPipeline(t, api, renderer, nil)

	result, err := p.Regenerate(context.Background(), "pay_42", CustomerInfo{})
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if result.State != enums.AttemptStateDelivered {
		t.Fatalf("unexpected state %q", result.State)
	}
	if renderer.last.CustomerName != "Fetched Customer" {
		t.Fatalf("chained customer missing: %+v", renderer.last)
	}
	if renderer.last.Order == nil || renderer.last.Order.OrderStatus != "Shipped" {
		t.Fatalf("chained order missing: %+v", renderer.last.Order)
	}
}

func TestRegenerateToleratesBrokenChain(t *testing.T) {
	api := &fakeAPI{
		paymentFn: func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
			return &storefront.PaymentRecord{ID: paymentID, OrderID: "ord_9"}, nil
		},
		orderFn: func(ctx context.Context, orderID string) (*storefront.OrderRecord, error) {
			return nil, errors.New("orders unavailable")
		},
	}
	renderer := &fakeRenderer{}
	p := newTestPipeline(t, api, renderer, nil)

	result, err := p.Regenerate(context.Background(), "pay_42", CustomerInfo{})
	if err != nil {
		t.Fatalf("Regenerate must tolerate order failure: %v", err)
	}
	if result.State != enums.AttemptStateDelivered {
		t.Fatalf("unexpected state %q", result.State)
	}
	if renderer.last.CustomerName != Placeholder {
		t.Fatalf("expected placeholder name, got %q", renderer.last.CustomerName)
	}
}

func TestRegeneratePaymentFetchFailure(t *testing.T) {
	api := &fakeAPI{
		paymentFn: func(ctx context.Context, paymentID string) (*storefront.PaymentRecord, error) {
			return nil, pkgerrors.New(pkgerrors.CodeFetch, "payment lookup unsuccessful")
		},
	}
	p := newTestPipeline(t, api, &fakeRenderer{}, nil)

	result, err := p.Regenerate(context.Background(), "pay_gone", CustomerInfo{})
	if err == nil {
		t.Fatal("expected error when the payment itself cannot be fetched")
	}
	if result.State != enums.AttemptStateFailed {
		t.Fatalf("unexpected state %q", result.State)
	}
}

func TestRenderFailureIsReported(t *testing.T) {
	renderer := &fakeRenderer{
		renderFn: func(data ReceiptData) ([]byte, string, error) {
			return nil, "", errors.New("font table corrupt")
		},
	}
	led := &fakeLedger{}
	p := newTestPipeline(t, &fakeAPI{}, renderer, led)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{})
	if result.State != enums.AttemptStateRenderFailed {
		t.Fatalf("unexpected state %q", result.State)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRender {
		t.Fatalf("expected render failure, got %v", err)
	}
	if len(led.records) != 0 {
		t.Fatal("no ledger record expected for a failed render")
	}
}

func TestRenderDelayHonorsCancellation(t *testing.T) {
	p, err := NewPipeline(PipelineParams{
		API:         &fakeAPI{},
		Renderer:    &fakeRenderer{},
		Logger:      testLogger(),
		OutputDir:   t.TempDir(),
		RenderDelay: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	result, err := p.Confirm(ctx, verification(), CustomerInfo{})
	if time.Since(start) > time.Second {
		t.Fatal("cancelled attempt should not wait out the render delay")
	}
	if err == nil || result.State != enums.AttemptStateFailed {
		t.Fatalf("expected abandoned attempt, got state=%v err=%v", result.State, err)
	}
}

func TestLedgerFailureDoesNotFailAttempt(t *testing.T) {
	led := &fakeLedger{err: errors.New("disk full")}
	p := newTestPipeline(t, &fakeAPI{}, &fakeRenderer{}, led)

	result, err := p.Confirm(context.Background(), verification(), CustomerInfo{})
	if err != nil {
		t.Fatalf("ledger failure must not fail the attempt: %v", err)
	}
	if result.State != enums.AttemptStateDelivered {
		t.Fatalf("unexpected state %q", result.State)
	}
}
