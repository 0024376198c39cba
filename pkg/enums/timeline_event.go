package enums

// TimelineEvent names a tracked point in an order's fulfillment history.
type TimelineEvent string

const (
	TimelineEventOrdered    TimelineEvent = "ordered"
	TimelineEventProcessing TimelineEvent = "processing"
	TimelineEventPacked     TimelineEvent = "packed"
	TimelineEventShipped    TimelineEvent = "shipped"
	TimelineEventDelivered  TimelineEvent = "delivered"
	TimelineEventCancelled  TimelineEvent = "cancelled"
)

// TimelineOrder is the canonical rendering order. Absent events are skipped;
// present ones always appear in this sequence.
var TimelineOrder = []TimelineEvent{
	TimelineEventOrdered,
	TimelineEventProcessing,
	TimelineEventPacked,
	TimelineEventShipped,
	TimelineEventDelivered,
	TimelineEventCancelled,
}

var timelineLabels = map[TimelineEvent]string{
	TimelineEventOrdered:    "Order Placed",
	TimelineEventProcessing: "Processing",
	TimelineEventPacked:     "Packed",
	TimelineEventShipped:    "Shipped",
	TimelineEventDelivered:  "Delivered",
	TimelineEventCancelled:  "Cancelled",
}

// String implements fmt.Stringer.
func (t TimelineEvent) String() string {
	return string(t)
}

// Label returns the display name used on receipts.
func (t TimelineEvent) Label() string {
	if label, ok := timelineLabels[t]; ok {
		return label
	}
	return string(t)
}
