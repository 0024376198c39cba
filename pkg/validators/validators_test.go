package validators

import (
	"testing"

	pkgerrors "github.com/greencart/checkout-client/pkg/errors"
)

type payInput struct {
	AmountMinor int64  `json:"amount" validate:"gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(payInput{AmountMinor: 150000, Currency: "INR"}); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestStructInvalidUsesJSONNames(t *testing.T) {
	err := Struct(payInput{AmountMinor: 0, Currency: "RUPEES", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected coded validation error, got %v", err)
	}

	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	for _, field := range []string{"amount", "currency", "email"} {
		if _, present := details[field]; !present {
			t.Fatalf("missing detail for %q: %v", field, details)
		}
	}
}
