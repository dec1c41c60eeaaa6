package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationConfig is one company's recipient roster and notify
// preferences. CompanyId doubles as the join key to transaction rows.
type NotificationConfig struct {
	ID         int        `gorm:"primary_key" json:"id"`
	CompanyId  string     `gorm:"size:255;uniqueIndex;not null" json:"company_id"`
	NotifyBuy  *bool      `gorm:"not null;default:true" json:"notify_buy"`
	NotifySell *bool      `gorm:"not null;default:true" json:"notify_sell"`
	Uuids      StringList `gorm:"type:json" json:"uuids"`
	Meta       StringMap  `gorm:"type:json" json:"meta"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// UpdateConfigInput replaces the operator-managed parts of a config.
type UpdateConfigInput struct {
	Uuids []string          `json:"uuids"`
	Meta  map[string]string `json:"meta"`
}

// UpsertNotificationConfig creates a config for a newly seen company
// with an empty recipient set and default notify flags. An existing
// config is left untouched (create-if-absent only).
func UpsertNotificationConfig(tx *gorm.DB, companyId string) error {
	cfg := NotificationConfig{
		CompanyId:  companyId,
		NotifyBuy:  utils.NewTrue(),
		NotifySell: utils.NewTrue(),
		Uuids:      StringList{},
		Meta:       StringMap{},
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}},
		DoNothing: true,
	}).Create(&cfg).Error
}

// ListNotificationConfigs returns all configs ordered by companyId.
func ListNotificationConfigs(ctx context.Context) ([]*NotificationConfig, error) {
	db := config.GetDB()

	var configs []*NotificationConfig
	err := db.WithContext(ctx).Order("company_id ASC").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func GetNotificationConfigByCompany(ctx context.Context, companyId string) (*NotificationConfig, error) {
	db := config.GetDB()

	var cfg NotificationConfig
	err := db.WithContext(ctx).Where("company_id = ?", companyId).Take(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// GetNotificationConfigByRecipient finds the config whose recipient
// set contains the given messaging uid. The linkage is read-only from
// the webhook's perspective; only operators edit recipient sets.
func GetNotificationConfigByRecipient(ctx context.Context, userId string) (*NotificationConfig, error) {
	db := config.GetDB()

	var cfg NotificationConfig
	err := db.WithContext(ctx).
		Where("JSON_CONTAINS(uuids, JSON_QUOTE(?))", userId).
		Take(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// UpdateNotificationConfig replaces the recipient set and meta map of
// one config. Notify flags are managed separately and left alone here.
func UpdateNotificationConfig(ctx context.Context, id int, input *UpdateConfigInput) (*NotificationConfig, error) {
	db := config.GetDB()

	var cfg NotificationConfig
	err := db.WithContext(ctx).Where("id = ?", id).Take(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	// Operators paste recipient lists; drop blanks and repeats.
	uuids := StringList{}
	for _, u := range input.Uuids {
		u = strings.TrimSpace(u)
		if u == "" || uuids.Contains(u) {
			continue
		}
		uuids = append(uuids, u)
	}
	meta := StringMap(input.Meta)
	if meta == nil {
		meta = StringMap{}
	}

	err = db.WithContext(ctx).Model(&cfg).Updates(map[string]interface{}{
		"Uuids": uuids,
		"Meta":  meta,
	}).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
