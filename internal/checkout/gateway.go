package checkout

import (
	"context"

	"github.com/greencart/checkout-client/pkg/storefront"
)

// Prefill holds optional customer fields shown pre-populated in the hosted
// checkout. Absent fields stay empty strings; the gateway never invents
// values.
type Prefill struct {
	Name  string
	Email string
	Phone string
}

// Outcome is the single terminal signal of one widget interaction. Exactly
// one of Completed or Cancelled holds per attempt.
type Outcome struct {
	Completed *storefront.VerificationResult
	Cancelled bool
}

// Gateway presents one payment order to the customer and waits for the
// interaction to end. Collect blocks until the customer completes, dismisses,
// or the context ends; implementations must return exactly one outcome per
// call and ignore any later duplicate signals.
type Gateway interface {
	Collect(ctx context.Context, order storefront.PaymentOrder, prefill Prefill) (Outcome, error)
}
