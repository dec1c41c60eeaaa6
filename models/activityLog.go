package models

import (
	"context"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
)

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusSkipped ActivityStatus = "skipped"
	ActivityStatusError   ActivityStatus = "error"
)

// ActivityLog is the delivery audit trail written by the dispatcher.
type ActivityLog struct {
	ID             int            `gorm:"primary_key" json:"id"`
	CompanyId      string         `gorm:"size:255;index" json:"company_id"`
	WeighType      string         `gorm:"size:16" json:"weigh_type"`
	Status         ActivityStatus `gorm:"type:enum('success','skipped','error');not null" json:"status"`
	Message        string         `gorm:"type:text" json:"message"`
	RecipientCount int            `gorm:"not null;default:0" json:"recipient_count"`
	Error          string         `gorm:"type:text" json:"error"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// WriteActivityLog is best effort: an audit write failure is logged
// but never fails the operation being audited.
func WriteActivityLog(ctx context.Context, entry *ActivityLog) {
	db := config.GetDB()
	if db == nil {
		return
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		config.LogError(config.GetLogger(), "activityLog.go", "WriteActivityLog", "Create", entry, err)
	}
}

// ListActivityLogs returns audit rows newest first, capped.
func ListActivityLogs(ctx context.Context) ([]*ActivityLog, error) {
	db := config.GetDB()

	var logs []*ActivityLog
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(config.ListLimit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
