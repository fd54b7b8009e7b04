package models

import (
	"time"

	"gorm.io/gorm"
)

// FinancialRecord is one store-week actuals row. Rows are unique per
// (company, store, date, week, year); uploads never update in place.
type FinancialRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	CompanyID int64      `gorm:"index;not null"`
	Store     string     `gorm:"type:varchar(128);index;not null"`
	Date      *time.Time `gorm:"index;not null"`
	Week      int        `gorm:"not null"`
	Month     int        `gorm:"not null"`
	Quarter   int        `gorm:"not null"`
	Year      int        `gorm:"index;not null"`

	NetSales float64 `gorm:"type:decimal(18,2);not null"`
	Orders   float64 `gorm:"type:decimal(12,2);not null"`
	LbrHrs   float64 `gorm:"type:decimal(12,2);not null"`
	LbrPay   float64 `gorm:"type:decimal(18,2);not null"`

	Johns          float64 `gorm:"type:decimal(18,2);not null"`
	Terra          float64 `gorm:"type:decimal(18,2);not null"`
	Metro          float64 `gorm:"type:decimal(18,2);not null"`
	Victory        float64 `gorm:"type:decimal(18,2);not null"`
	CentralKitchen float64 `gorm:"type:decimal(18,2);not null"`
	Other          float64 `gorm:"type:decimal(18,2);not null"`

	Helper1 string `gorm:"type:varchar(64)"`
	Helper2 string `gorm:"type:varchar(64)"`
	Helper3 string `gorm:"type:varchar(64)"`
	Helper4 string `gorm:"type:varchar(64)"`

	CreatedAt time.Time
}

// BudgetRecord carries the budgeted counterpart of FinancialRecord,
// additionally keyed by quarter.
type BudgetRecord struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	CompanyID int64      `gorm:"index;not null"`
	Store     string     `gorm:"type:varchar(128);index;not null"`
	Date      *time.Time `gorm:"index;not null"`
	Week      int        `gorm:"not null"`
	Month     int        `gorm:"not null"`
	Quarter   int        `gorm:"not null"`
	Year      int        `gorm:"index;not null"`

	NetSales float64 `gorm:"type:decimal(18,2);not null"`
	Orders   float64 `gorm:"type:decimal(12,2);not null"`
	LbrHrs   float64 `gorm:"type:decimal(12,2);not null"`
	LbrPay   float64 `gorm:"type:decimal(18,2);not null"`

	Johns          float64 `gorm:"type:decimal(18,2);not null"`
	Terra          float64 `gorm:"type:decimal(18,2);not null"`
	Metro          float64 `gorm:"type:decimal(18,2);not null"`
	Victory        float64 `gorm:"type:decimal(18,2);not null"`
	CentralKitchen float64 `gorm:"type:decimal(18,2);not null"`
	Other          float64 `gorm:"type:decimal(18,2);not null"`

	CreatedAt time.Time
}

type UploadedFile struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	CompanyID  int64     `gorm:"index;not null"`
	FileName   string    `gorm:"type:varchar(256);not null"`
	Dashboard  string    `gorm:"type:varchar(32);index;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func MigrateFinancialDB(db *gorm.DB) error {
	return db.AutoMigrate(&FinancialRecord{}, &BudgetRecord{}, &UploadedFile{})
}
