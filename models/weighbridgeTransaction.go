package models

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeighbridgeTransaction is one weighbridge event, normalized from a
// spreadsheet row. CompanyId is joined by value (not by reference) to
// NotificationConfig: configs may exist before or after data rows.
type WeighbridgeTransaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BatchId         string          `gorm:"size:36;index;not null" json:"batch_id"`
	TransactionDate time.Time       `gorm:"index;not null" json:"transaction_date"`
	CompanyId       string          `gorm:"size:255;index;not null" json:"company_id"`
	Product         string          `gorm:"size:255;not null" json:"product"`
	WeighType       WeighType       `gorm:"type:enum('BUY','SELL');index;not null" json:"weigh_type"`
	NetWeightKg     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_weight_kg"`
	Raw             json.RawMessage `gorm:"type:json" json:"raw"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ProductSummary is one dashboard line: a product total for one direction.
type ProductSummary struct {
	Product     string          `json:"product"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
}

// CompanyProductTotal is one report line, grouped per company.
type CompanyProductTotal struct {
	CompanyId   string          `json:"company_id"`
	WeighType   WeighType       `json:"weigh_type"`
	Product     string          `json:"product"`
	TotalWeight decimal.Decimal `json:"total_weight"`
}

const insertBatchSize = 500

// BulkInsertTransactions persists a normalized row set inside the
// caller's transaction.
func BulkInsertTransactions(tx *gorm.DB, rows []*WeighbridgeTransaction) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, insertBatchSize).Error
}

// DeleteTransactionsByBatch cascades a batch deletion to its rows.
func DeleteTransactionsByBatch(tx *gorm.DB, batchId string) error {
	return tx.Where("batch_id = ?", batchId).Delete(&WeighbridgeTransaction{}).Error
}

// DashboardSummary sums net weight per (direction, product) over a
// closed date window, each direction ordered by total descending.
// An empty window yields two empty slices, not an error.
func DashboardSummary(ctx context.Context, start, end time.Time) ([]ProductSummary, []ProductSummary, error) {
	db := config.GetDB()

	var rows []CompanyProductTotal
	err := db.WithContext(ctx).Raw(`
		SELECT
			weigh_type,
			product,
			COALESCE(SUM(net_weight_kg), 0) AS total_weight
		FROM weighbridge_transactions
		WHERE transaction_date >= ? AND transaction_date <= ?
		GROUP BY weigh_type, product
		ORDER BY total_weight DESC
	`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	buy := []ProductSummary{}
	sell := []ProductSummary{}
	for _, r := range rows {
		item := ProductSummary{Product: r.Product, TotalWeight: r.TotalWeight}
		if r.WeighType == WeighTypeBuy {
			buy = append(buy, item)
		} else {
			sell = append(sell, item)
		}
	}
	return buy, sell, nil
}

// BatchGroupTotals sums net weight per (company, direction, product)
// for one upload batch.
func BatchGroupTotals(ctx context.Context, batchId string) ([]CompanyProductTotal, error) {
	db := config.GetDB()

	var rows []CompanyProductTotal
	err := db.WithContext(ctx).Raw(`
		SELECT
			company_id,
			weigh_type,
			product,
			COALESCE(SUM(net_weight_kg), 0) AS total_weight
		FROM weighbridge_transactions
		WHERE batch_id = ?
		GROUP BY company_id, weigh_type, product
		ORDER BY company_id, weigh_type, total_weight DESC
	`, batchId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompanyDayTotals sums net weight per (direction, product) for one
// company over one calendar day in the given location.
func CompanyDayTotals(ctx context.Context, companyId string, day time.Time) ([]CompanyProductTotal, error) {
	db := config.GetDB()

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var rows []CompanyProductTotal
	err := db.WithContext(ctx).Raw(`
		SELECT
			company_id,
			weigh_type,
			product,
			COALESCE(SUM(net_weight_kg), 0) AS total_weight
		FROM weighbridge_transactions
		WHERE company_id = ? AND transaction_date >= ? AND transaction_date < ?
		GROUP BY company_id, weigh_type, product
		ORDER BY weigh_type, total_weight DESC
	`, companyId, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountTransactionsByBatch reports how many rows one batch owns.
func CountTransactionsByBatch(ctx context.Context, batchId string) (int64, error) {
	db := config.GetDB()
	var n int64
	err := db.WithContext(ctx).Model(&WeighbridgeTransaction{}).
		Where("batch_id = ?", batchId).Count(&n).Error
	return n, err
}
