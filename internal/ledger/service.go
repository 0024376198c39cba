package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/greencart/checkout-client/pkg/db/models"
	"github.com/greencart/checkout-client/pkg/enums"
)

// Service records generated receipt artifacts.
type Service interface {
	RecordArtifact(ctx context.Context, input RecordArtifactInput) (*models.ReceiptArtifact, error)
	History(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error)
}

type service struct {
	repo Repository
}

// RecordArtifactInput captures the immutable data an artifact entry requires.
type RecordArtifactInput struct {
	PaymentID string
	OrderID   string
	FileName  string
	Content   []byte
	Outcome   enums.CheckoutOutcome
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("artifact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordArtifact(ctx context.Context, input RecordArtifactInput) (*models.ReceiptArtifact, error) {
	if input.PaymentID == "" {
		return nil, fmt.Errorf("payment id is required")
	}
	if input.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}

	sum := sha256.Sum256(input.Content)
	artifact := &models.ReceiptArtifact{
		PaymentID: input.PaymentID,
		OrderID:   input.OrderID,
		FileName:  input.FileName,
		ByteSize:  int64(len(input.Content)),
		SHA256:    hex.EncodeToString(sum[:]),
		Outcome:   input.Outcome,
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *service) History(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment id is required")
	}
	return s.repo.ListByPaymentID(ctx, paymentID)
}
