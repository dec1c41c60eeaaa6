package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadBatch is one discrete ingestion event. The batch owns its
// transaction rows: deleting a batch cascades to them.
type UploadBatch struct {
	ID                 string    `gorm:"primary_key;size:36" json:"id"`
	FileName           string    `gorm:"size:255;not null" json:"file_name"`
	RowCount           int       `gorm:"not null;default:0" json:"row_count"`
	CompaniesProcessed int       `gorm:"not null;default:0" json:"companies_processed"`
	UploadedAt         time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

func (b *UploadBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func GetUploadBatch(ctx context.Context, id string) (*UploadBatch, error) {
	db := config.GetDB()

	var batch UploadBatch
	err := db.WithContext(ctx).Where("id = ?", id).Take(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ListUploadBatches returns batches newest first, capped.
func ListUploadBatches(ctx context.Context) ([]*UploadBatch, error) {
	db := config.GetDB()

	var batches []*UploadBatch
	err := db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(config.ListLimit).
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// DeleteUploadBatch removes a batch and all transaction rows that
// reference it, in one transaction.
func DeleteUploadBatch(ctx context.Context, id string) error {
	db := config.GetDB()

	batch, err := GetUploadBatch(ctx, id)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := DeleteTransactionsByBatch(tx, batch.ID); err != nil {
			return err
		}
		return tx.Delete(batch).Error
	})
}
