package ledger

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/greencart/checkout-client/pkg/db/models"
	"github.com/greencart/checkout-client/pkg/enums"
)

type fakeRepository struct {
	createFn func(ctx context.Context, artifact *models.ReceiptArtifact) error
	listFn   func(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, artifact *models.ReceiptArtifact) error {
	if f.createFn != nil {
		return f.createFn(ctx, artifact)
	}
	return nil
}

func (f *fakeRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error) {
	if f.listFn != nil {
		return f.listFn(ctx, paymentID)
	}
	return nil, nil
}

func TestService_RecordArtifact(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.ReceiptArtifact
	repo.createFn = func(ctx context.Context, artifact *models.ReceiptArtifact) error {
		created = artifact
		return nil
	}

	content := []byte("%PDF-1.4 fake")
	got, err := svc.RecordArtifact(context.Background(), RecordArtifactInput{
		PaymentID: "pay_42",
		OrderID:   "ord_9",
		FileName:  "receipt_pay_42.pdf",
		Content:   content,
		Outcome:   enums.CheckoutOutcomeDelivered,
	})
	if err != nil {
		t.Fatalf("RecordArtifact error: %v", err)
	}
	if created == nil {
		t.Fatal("expected artifact to be created")
	}
	if created.PaymentID != "pay_42" || created.FileName != "receipt_pay_42.pdf" {
		t.Fatalf("unexpected artifact data: %+v", created)
	}
	if created.ByteSize != int64(len(content)) {
		t.Fatalf("byte size mismatch: %d", created.ByteSize)
	}
	if len(created.SHA256) != 64 {
		t.Fatalf("expected hex sha256, got %q", created.SHA256)
	}
	if got != created {
		t.Fatal("service should return the created artifact")
	}
}

func TestService_RecordArtifactChecksumIsContentDerived(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	var sums []string
	repo.createFn = func(ctx context.Context, artifact *models.ReceiptArtifact) error {
		sums = append(sums, artifact.SHA256)
		return nil
	}

	input := RecordArtifactInput{PaymentID: "pay_1", FileName: "a.pdf", Content: []byte("same")}
	if _, err := svc.RecordArtifact(context.Background(), input); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := svc.RecordArtifact(context.Background(), input); err != nil {
		t.Fatalf("second record: %v", err)
	}
	if sums[0] != sums[1] {
		t.Fatalf("identical content must hash identically: %v", sums)
	}
}

func TestService_RecordArtifactValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	if _, err := svc.RecordArtifact(context.Background(), RecordArtifactInput{FileName: "a.pdf"}); err == nil {
		t.Fatal("expected error for missing payment id")
	}
	if _, err := svc.RecordArtifact(context.Background(), RecordArtifactInput{PaymentID: "p"}); err == nil {
		t.Fatal("expected error for missing file name")
	}
}

func TestService_History(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error) {
			return []models.ReceiptArtifact{{PaymentID: paymentID}}, nil
		},
	}
	svc, _ := NewService(repo)

	artifacts, err := svc.History(context.Background(), "pay_42")
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].PaymentID != "pay_42" {
		t.Fatalf("unexpected history %+v", artifacts)
	}

	if _, err := svc.History(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty payment id")
	}
}
