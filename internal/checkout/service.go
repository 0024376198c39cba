package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/greencart/checkout-client/internal/receipts"
	"github.com/greencart/checkout-client/pkg/enums"
	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
	"github.com/greencart/checkout-client/pkg/logger"
	"github.com/greencart/checkout-client/pkg/metrics"
	"github.com/greencart/checkout-client/pkg/storefront"
	"github.com/greencart/checkout-client/pkg/validators"
)

// OrderCreator requests server-side payment orders.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req storefront.CreateOrderRequest) (*storefront.PaymentOrder, error)
}

// Confirmer runs the post-payment verification and receipt pipeline.
type Confirmer interface {
	Confirm(ctx context.Context, result storefront.VerificationResult, info receipts.CustomerInfo) (*receipts.Result, error)
}

// PayInput is one checkout request. Customer fields are optional prefill and
// receipt data; DeliveryAddressID references a server-side address.
type PayInput struct {
	AmountMinor       int64  `json:"amount" validate:"required,gt=0"`
	Currency          string `json:"currency" validate:"required,len=3,alpha"`
	CustomerName      string `json:"customer_name" validate:"omitempty"`
	CustomerEmail     string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone     string `json:"customer_phone" validate:"omitempty"`
	DeliveryAddressID string `json:"delivery_address_id" validate:"omitempty"`
}

// PayResult is the terminal report of one attempt.
type PayResult struct {
	Outcome enums.CheckoutOutcome
	Receipt *receipts.Result
}

// ServiceParams wires the checkout service. Loader and Metrics are optional.
type ServiceParams struct {
	Orders   OrderCreator
	Gateway  Gateway
	Pipeline Confirmer
	Loader   *SessionLoader
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// Service drives one checkout attempt end to end: validate, create the
// order, collect the payment, confirm, and report. At most one attempt may
// be in flight per Service.
type Service struct {
	orders   OrderCreator
	gateway  Gateway
	pipeline Confirmer
	loader   *SessionLoader
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger

	inFlight atomic.Bool
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Pipeline == nil {
		return nil, fmt.Errorf("receipt pipeline required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		orders:   params.Orders,
		gateway:  params.Gateway,
		pipeline: params.Pipeline,
		loader:   params.Loader,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// Pay runs one checkout attempt. A dismissed checkout is a failure with its
// own reason, never a success. Overlapping calls on the same Service are
// rejected.
func (s *Service) Pay(ctx context.Context, input PayInput) (*PayResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a checkout attempt is already in flight")
	}
	defer s.inFlight.Store(false)

	ctx = s.logg.WithAttemptID(ctx, uuid.NewString())
	started := s.now()
	result, err := s.pay(ctx, input)
	s.metrics.ObserveAttempt(result.Outcome, s.now().Sub(started))
	return result, err
}

func (s *Service) pay(ctx context.Context, input PayInput) (*PayResult, error) {
	if err := validators.Struct(input); err != nil {
		return &PayResult{Outcome: enums.CheckoutOutcomeFailed}, err
	}

	if s.loader != nil && !s.loader.Ready(ctx) {
		err := pkgerrors.New(pkgerrors.CodeInitiation, "checkout script unavailable")
		s.logg.Notify(ctx, pkgerrors.PublicMessage(err))
		return &PayResult{Outcome: enums.CheckoutOutcomeFailed}, err
	}

	order, err := s.orders.CreateOrder(ctx, storefront.CreateOrderRequest{
		AmountMinor: input.AmountMinor,
		Currency:    input.Currency,
	})
	if err != nil {
		s.logg.Notify(ctx, pkgerrors.PublicMessage(err))
		return &PayResult{Outcome: enums.CheckoutOutcomeFailed}, err
	}
	ctx = s.logg.WithOrderID(ctx, order.OrderID)
	s.logg.Debug(ctx, "payment order created")

	outcome, err := s.gateway.Collect(ctx, *order, Prefill{
		Name:  input.CustomerName,
		Email: input.CustomerEmail,
		Phone: input.CustomerPhone,
	})
	if err != nil {
		s.logg.Notify(ctx, pkgerrors.PublicMessage(err))
		return &PayResult{Outcome: outcomeForError(err)}, err
	}
	if outcome.Cancelled {
		cancelErr := pkgerrors.New(pkgerrors.CodeCancelled, "checkout dismissed by customer")
		s.logg.Notify(ctx, pkgerrors.PublicMessage(cancelErr))
		return &PayResult{Outcome: enums.CheckoutOutcomeCancelled}, cancelErr
	}
	if outcome.Completed == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "gateway returned no outcome")
		return &PayResult{Outcome: enums.CheckoutOutcomeFailed}, err
	}

	receipt, err := s.pipeline.Confirm(ctx, *outcome.Completed, receipts.CustomerInfo{
		Name:              input.CustomerName,
		Email:             input.CustomerEmail,
		Phone:             input.CustomerPhone,
		DeliveryAddressID: input.DeliveryAddressID,
	})
	return &PayResult{
		Outcome: outcomeForState(receipt.State),
		Receipt: receipt,
	}, err
}

func outcomeForState(state enums.AttemptState) enums.CheckoutOutcome {
	switch state {
	case enums.AttemptStateDelivered:
		return enums.CheckoutOutcomeDelivered
	case enums.AttemptStateRenderFailed:
		return enums.CheckoutOutcomeRenderFailed
	default:
		return enums.CheckoutOutcomeFailed
	}
}

func outcomeForError(err error) enums.CheckoutOutcome {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCancelled {
		return enums.CheckoutOutcomeCancelled
	}
	return enums.CheckoutOutcomeFailed
}
