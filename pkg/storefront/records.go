package storefront

import "time"

// PaymentOrder is the server-created order descriptor consumed once to open
// the hosted checkout.
type PaymentOrder struct {
	OrderID     string
	AmountMinor int64
	Currency    string
}

// VerificationResult is the three-field payload produced by the checkout
// completion callback. It must be verified server-side before anything
// downstream trusts it.
type VerificationResult struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// PaymentMetadata carries gateway notes used as last-resort receipt
// fallbacks.
type PaymentMetadata struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
}

// PaymentRecord is the server-of-record payment state. Amounts are in minor
// units (paise).
type PaymentRecord struct {
	ID          string          `json:"id"`
	AmountMinor int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Method      string          `json:"method"`
	OrderID     string          `json:"orderId"`
	Metadata    PaymentMetadata `json:"metadata"`
}

// OrderUser is the user snapshot embedded in an order.
type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductRef is the product snapshot on an order line.
type ProductRef struct {
	Name string `json:"Name"`
}

// OrderItem is one purchased line. Price is the unit price in major units.
type OrderItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
}

// OrderTimestamps holds the fulfillment history; absent events are nil.
type OrderTimestamps struct {
	Ordered    *time.Time `json:"ordered"`
	Processing *time.Time `json:"processing"`
	Packed     *time.Time `json:"packed"`
	Shipped    *time.Time `json:"shipped"`
	Delivered  *time.Time `json:"delivered"`
	Cancelled  *time.Time `json:"cancelled"`
}

// OrderRecord is the linked order fetched via PaymentRecord.OrderID.
type OrderRecord struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"user"`
	User            *OrderUser      `json:"userDetails,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems"`
	TotalPrice      float64         `json:"totalPrice"`
	OrderDate       *time.Time      `json:"orderDate"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	Timestamps      OrderTimestamps `json:"timestamps"`
}

// CustomerRecord is the linked customer profile. Field casing follows the
// backend schema.
type CustomerRecord struct {
	Name    string `json:"Name"`
	Email   string `json:"Email"`
	Phone   string `json:"Phone"`
	Contact string `json:"CustomerContact"`
}

// AddressRecord is a delivery address fetched by reference.
type AddressRecord struct {
	StreetOrSociety string `json:"streetOrSociety"`
	CityVillage     string `json:"cityVillage"`
	Pincode         string `json:"pincode"`
	State           string `json:"state"`
	Country         string `json:"country"`
}
