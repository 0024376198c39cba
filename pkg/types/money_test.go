package types

import "testing"

func TestFormatMinor(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		currency string
		want     string
	}{
		{"typical order", 150000, "INR", "₹1500.00"},
		{"zero", 0, "INR", "₹0.00"},
		{"sub-rupee", 50, "INR", "₹0.50"},
		{"usd", 12345, "USD", "$123.45"},
		{"unknown code", 100, "XYZ", "XYZ 1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMinor(tt.minor, tt.currency); got != tt.want {
				t.Fatalf("FormatMinor(%d, %q) = %q, want %q", tt.minor, tt.currency, got, tt.want)
			}
		})
	}
}

func TestFormatSubtotal(t *testing.T) {
	if got := FormatSubtotal(249.5, 2, "INR"); got != "₹499.00" {
		t.Fatalf("unexpected subtotal %q", got)
	}
	// Float unit prices must not accumulate binary rounding error.
	if got := FormatSubtotal(0.1, 3, "INR"); got != "₹0.30" {
		t.Fatalf("unexpected subtotal %q", got)
	}
}

func TestFormatMajor(t *testing.T) {
	if got := FormatMajor(1500, "INR"); got != "₹1500.00" {
		t.Fatalf("unexpected major format %q", got)
	}
}
