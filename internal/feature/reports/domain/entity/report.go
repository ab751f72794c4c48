// Package entity defines the domain models for the reports feature.
package entity

import "time"

// Report represents a vehicle sale report submitted by a user.
// Reports feed the price estimate once an administrator approves them.
type Report struct {
	ID        uint    `gorm:"primaryKey"`
	Make      string  `gorm:"size:100;not null;index:idx_make_model"`
	Model     string  `gorm:"size:100;not null;index:idx_make_model"`
	Year      int     `gorm:"not null"`
	Mileage   int     `gorm:"not null"`
	Lng       float64 `gorm:"not null"`
	Lat       float64 `gorm:"not null"`
	Price     int     `gorm:"not null"`
	Approved  bool    `gorm:"not null;default:false"`
	UserID    uint    `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
