package enums

// CheckoutOutcome labels the terminal result of a checkout attempt, used for
// metrics and the artifact ledger.
type CheckoutOutcome string

const (
	CheckoutOutcomeDelivered    CheckoutOutcome = "delivered"
	CheckoutOutcomeRenderFailed CheckoutOutcome = "render_failed"
	CheckoutOutcomeCancelled    CheckoutOutcome = "cancelled"
	CheckoutOutcomeFailed       CheckoutOutcome = "failed"
)

// String implements fmt.Stringer.
func (c CheckoutOutcome) String() string {
	return string(c)
}
