package models

import (
	"log"

	"bitbucket.org/sornidev/weighbridge_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&UploadBatch{}, &WeighbridgeTransaction{},
		&NotificationConfig{}, &User{},
		&ActivityLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
