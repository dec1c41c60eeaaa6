package models

import (
	"context"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"gorm.io/gorm/clause"
)

// User is one messaging-platform end user who has interacted with the
// bot. Users are linked to companies only by appearing in a config's
// recipient set.
type User struct {
	ID          int       `gorm:"primary_key" json:"id"`
	UserId      string    `gorm:"size:64;uniqueIndex;not null" json:"user_id"`
	DisplayName string    `gorm:"size:255;not null" json:"display_name"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// SaveUser records a follower, keeping the first-seen row when the
// same uid follows again.
func SaveUser(ctx context.Context, userId, displayName string) (*User, error) {
	db := config.GetDB()

	user := User{UserId: userId, DisplayName: displayName}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns recipients newest first, capped.
func ListUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()

	var users []*User
	err := db.WithContext(ctx).
		Order("added_at DESC").
		Limit(config.ListLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
