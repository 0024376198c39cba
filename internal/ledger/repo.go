package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/greencart/checkout-client/pkg/db/models"
)

// Repository manages persistence for receipt artifacts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, artifact *models.ReceiptArtifact) error
	ListByPaymentID(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an artifact repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, artifact *models.ReceiptArtifact) error {
	return r.db.WithContext(ctx).Create(artifact).Error
}

func (r *repository) ListByPaymentID(ctx context.Context, paymentID string) ([]models.ReceiptArtifact, error) {
	var artifacts []models.ReceiptArtifact
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&artifacts).Error; err != nil {
		return nil, err
	}
	return artifacts, nil
}
