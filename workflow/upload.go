package workflow

import (
	"context"
	"strings"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UploadPayload mirrors the uploader's parsed-spreadsheet shape:
// allData holds the transaction rows, mixData the company roster sheet.
type UploadPayload struct {
	FileData FileData `json:"fileData"`
	FileName string   `json:"fileName"`
}

type FileData struct {
	AllData []map[string]any `json:"allData"`
	MixData []map[string]any `json:"mixData"`
}

type UploadResult struct {
	BatchId            string `json:"batchId"`
	FileName           string `json:"fileName"`
	DataRowsSaved      int    `json:"dataRowsSaved"`
	CompaniesProcessed int    `json:"companiesProcessed"`
}

// DashboardCacheVersionKey is bumped on every write that can change a
// dashboard summary; readers fold the counter into their cache key.
const DashboardCacheVersionKey = "dashboard:ver"

// IngestUpload runs the batch ingestion pipeline: batch create, config
// upserts from the roster sheet, row normalization and bulk insert,
// then the batch count update. All of it inside one transaction; on
// any failure nothing survives.
func IngestUpload(ctx context.Context, logger *logrus.Logger, payload *UploadPayload) (*UploadResult, error) {
	db := config.GetDB()

	fileName := payload.FileName
	if fileName == "" {
		fileName = "unknown.xlsx"
	}

	var batch models.UploadBatch
	var companiesProcessed int

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batch = models.UploadBatch{FileName: fileName}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}

		seen := map[string]bool{}
		for _, row := range payload.FileData.MixData {
			companyId := rosterCompanyId(row)
			if companyId == "" || seen[companyId] {
				continue
			}
			seen[companyId] = true
			if err := models.UpsertNotificationConfig(tx, companyId); err != nil {
				return err
			}
		}
		companiesProcessed = len(seen)

		rows := make([]*models.WeighbridgeTransaction, 0, len(payload.FileData.AllData))
		for _, raw := range payload.FileData.AllData {
			row := NormalizeRow(raw)
			row.BatchId = batch.ID
			rows = append(rows, row)
		}
		if err := models.BulkInsertTransactions(tx, rows); err != nil {
			return err
		}

		return tx.Model(&batch).Updates(map[string]interface{}{
			"RowCount":           len(rows),
			"CompaniesProcessed": companiesProcessed,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	// Invalidate cached dashboard summaries. Best effort.
	if _, verr := config.GetRedisCounter(ctx, DashboardCacheVersionKey); verr != nil {
		logger.WithFields(logrus.Fields{
			"field":    "IngestUpload",
			"batch_id": batch.ID,
		}).Warn("failed to bump dashboard cache version: " + verr.Error())
	}

	logger.WithFields(logrus.Fields{
		"field":               "IngestUpload",
		"batch_id":            batch.ID,
		"file_name":           fileName,
		"rows_saved":          len(payload.FileData.AllData),
		"companies_processed": companiesProcessed,
	}).Info("upload ingested")

	return &UploadResult{
		BatchId:            batch.ID,
		FileName:           fileName,
		DataRowsSaved:      len(payload.FileData.AllData),
		CompaniesProcessed: companiesProcessed,
	}, nil
}

// rosterCompanyId extracts the company identifier from one roster row.
// Roster rows carry no transaction data; a blank identifier skips the row.
func rosterCompanyId(row map[string]any) string {
	v, ok := pickFirstKey(row, companyHeaders)
	if !ok {
		return ""
	}
	return strings.TrimSpace(toString(v))
}
