package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greencart/checkout-client/pkg/enums"
)

// ReceiptArtifact records one generated receipt document.
type ReceiptArtifact struct {
	ID        uuid.UUID             `gorm:"type:text;primaryKey" json:"id"`
	PaymentID string                `gorm:"index;not null" json:"payment_id"`
	OrderID   string                `gorm:"index" json:"order_id"`
	FileName  string                `gorm:"not null" json:"file_name"`
	ByteSize  int64                 `gorm:"not null" json:"byte_size"`
	SHA256    string                `gorm:"not null" json:"sha256"`
	Outcome   enums.CheckoutOutcome `gorm:"not null" json:"outcome"`
	CreatedAt time.Time             `json:"created_at"`
}

// BeforeCreate assigns the artifact id.
func (r *ReceiptArtifact) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
