package models

import (
	"time"

	"gorm.io/gorm"
)

// SalesRecord is one POS line item from an uploaded sales export.
// Category is derived from DiningOption and is always one of
// In-House, 1P, DD, GH, UB, Catering or Others.
type SalesRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	CompanyID int64      `gorm:"index;not null"`
	Store     string     `gorm:"type:varchar(128);index;not null"`
	Date      *time.Time `gorm:"index;not null"`
	Time      string     `gorm:"type:varchar(16)"`
	Day       string     `gorm:"type:varchar(16)"`
	Week      int        `gorm:"not null"`
	Month     int        `gorm:"not null"`
	Quarter   int        `gorm:"not null"`
	Year      int        `gorm:"index;not null"`

	DiningOption string `gorm:"type:varchar(64)"`
	Category     string `gorm:"type:varchar(16);index;not null"`
	MenuItem     string `gorm:"type:varchar(128)"`
	Server       string `gorm:"type:varchar(64)"`

	Qty        float64 `gorm:"type:decimal(12,2);not null"`
	NetPrice   float64 `gorm:"type:decimal(18,2);not null"`
	GrossPrice float64 `gorm:"type:decimal(18,2);not null"`

	CreatedAt time.Time
}

func MigrateSalesDB(db *gorm.DB) error {
	return db.AutoMigrate(&SalesRecord{})
}
