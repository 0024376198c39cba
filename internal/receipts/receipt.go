package receipts

import (
	"strings"
	"time"

	"github.com/greencart/checkout-client/pkg/enums"
	"github.com/greencart/checkout-client/pkg/storefront"
)

// Placeholder fills any receipt field with no resolvable value. Missing
// optional records degrade to it; they never fail the build.
const Placeholder = "N/A"

// DefaultPaymentMethod labels payments that carry no method of their own.
const DefaultPaymentMethod = "Razorpay"

// CustomerInfo is the caller-supplied customer detail. Every field is
// optional; DeliveryAddressID is a string address reference resolved
// best-effort.
type CustomerInfo struct {
	Name              string `json:"name" validate:"omitempty"`
	Email             string `json:"email" validate:"omitempty,email"`
	Phone             string `json:"phone" validate:"omitempty"`
	DeliveryAddressID string `json:"delivery_address_id" validate:"omitempty"`
}

// TimelineEntry is one resolved fulfillment event.
type TimelineEntry struct {
	Event enums.TimelineEvent
	At    time.Time
}

// OrderSection is the optional order block on a receipt.
type OrderSection struct {
	ID            string
	OrderDate     *time.Time
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
	Items         []storefront.OrderItem
	TotalPrice    float64
}

// ReceiptData is the merged, denormalized view rendered into the document.
// Built fresh per render; never persisted.
type ReceiptData struct {
	PaymentID   string
	ReceiptID   string
	AmountMinor int64
	Currency    string
	Status      string
	Method      string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	AddressText   string

	Order    *OrderSection
	Timeline []TimelineEntry
}

// BuildReceiptData merges the fetched records with the caller-supplied
// customer info. Field precedence: explicit customer info, then fetched
// customer, then the order's embedded user, then payment metadata, then the
// placeholder. Any record other than the payment may be nil.
func BuildReceiptData(
	paymentID string,
	payment *storefront.PaymentRecord,
	order *storefront.OrderRecord,
	customer *storefront.CustomerRecord,
	address *storefront.AddressRecord,
	info CustomerInfo,
) ReceiptData {
	data := ReceiptData{
		PaymentID: paymentID,
		ReceiptID: paymentID,
		Currency:  "INR",
		Status:    Placeholder,
		Method:    DefaultPaymentMethod,
	}

	var meta storefront.PaymentMetadata
	if payment != nil {
		meta = payment.Metadata
		data.AmountMinor = payment.AmountMinor
		if payment.ID != "" {
			data.ReceiptID = payment.ID
		}
		if payment.Currency != "" {
			data.Currency = payment.Currency
		}
		if payment.Status != "" {
			data.Status = payment.Status
		}
	}

	var orderUser storefront.OrderUser
	if order != nil && order.User != nil {
		orderUser = *order.User
	}
	var cust storefront.CustomerRecord
	if customer != nil {
		cust = *customer
	}

	data.CustomerName = firstNonEmpty(info.Name, cust.Name, orderUser.Name, meta.CustomerName, Placeholder)
	data.CustomerEmail = firstNonEmpty(info.Email, cust.Email, orderUser.Email, meta.CustomerEmail, Placeholder)
	data.CustomerPhone = firstNonEmpty(info.Phone, cust.Contact, cust.Phone, meta.CustomerPhone, Placeholder)
	data.AddressText = resolveAddress(address, order, meta)

	method := ""
	if payment != nil {
		method = payment.Method
	}
	if method == "" && order != nil {
		method = order.PaymentMethod
	}
	if method != "" {
		data.Method = method
	}

	if order != nil {
		data.Order = &OrderSection{
			ID:            firstNonEmpty(order.ID, Placeholder),
			OrderDate:     order.OrderDate,
			OrderStatus:   firstNonEmpty(order.OrderStatus, Placeholder),
			PaymentStatus: firstNonEmpty(order.PaymentStatus, Placeholder),
			PaymentMethod: firstNonEmpty(order.PaymentMethod, Placeholder),
			Items:         order.OrderItems,
			TotalPrice:    order.TotalPrice,
		}
		data.Timeline = buildTimeline(order.Timestamps)
	}

	return data
}

// buildTimeline emits only the events present, always in canonical order.
func buildTimeline(ts storefront.OrderTimestamps) []TimelineEntry {
	byEvent := map[enums.TimelineEvent]*time.Time{
		enums.TimelineEventOrdered:    ts.Ordered,
		enums.TimelineEventProcessing: ts.Processing,
		enums.TimelineEventPacked:     ts.Packed,
		enums.TimelineEventShipped:    ts.Shipped,
		enums.TimelineEventDelivered:  ts.Delivered,
		enums.TimelineEventCancelled:  ts.Cancelled,
	}

	var entries []TimelineEntry
	for _, event := range enums.TimelineOrder {
		if at := byEvent[event]; at != nil {
			entries = append(entries, TimelineEntry{Event: event, At: *at})
		}
	}
	return entries
}

func resolveAddress(address *storefront.AddressRecord, order *storefront.OrderRecord, meta storefront.PaymentMetadata) string {
	if address != nil {
		var parts []string
		if address.StreetOrSociety != "" {
			parts = append(parts, address.StreetOrSociety)
		}
		if address.CityVillage != "" {
			parts = append(parts, address.CityVillage)
		}
		if address.Pincode != "" {
			parts = append(parts, "Pincode: "+address.Pincode)
		}
		if address.State != "" {
			parts = append(parts, address.State)
		}
		if address.Country != "" {
			parts = append(parts, address.Country)
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	if order != nil && order.ShippingAddress != "" {
		return order.ShippingAddress
	}
	if meta.CustomerAddress != "" {
		return meta.CustomerAddress
	}
	return Placeholder
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
