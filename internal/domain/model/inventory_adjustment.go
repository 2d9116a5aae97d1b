package model

import "time"

// Audit trail for explicit stock changes made by a merchant (restocks,
// corrections). Order placement decrements stock without a row here.
type InventoryAdjustment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64     `gorm:"not null;index" json:"product_id"`
	MerchantID int64     `gorm:"not null;index" json:"merchant_id"`
	Delta      int64     `gorm:"not null" json:"delta"`
	Reason     string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
