package model

import "time"

// Price is in minor currency units. Stock never goes negative: the only
// decrement path is the conditional update in the inventory repository.
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID  int64     `gorm:"not null;index" json:"business_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Price       int64     `gorm:"not null" json:"price"`
	Stock       int64     `gorm:"not null" json:"stock"`
	IsActive    bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
