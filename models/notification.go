package models

import (
	"time"
)

// DealNotification is one deal-won webhook delivery, deduplicated by the
// CRM deal id (primary key). The raw payload is kept for replay/debugging;
// viewed_by tracks which dashboard clients already displayed the
// celebration.
type DealNotification struct {
	ID          string  `gorm:"primaryKey" json:"id"` // CRM deal id
	DealName    string  `json:"deal_name"`
	Amount      float64 `json:"amount"`
	OwnerName   string  `json:"owner_name"`
	SDRName     string  `gorm:"column:sdr_name" json:"sdr_name"`
	LDRName     string  `gorm:"column:ldr_name" json:"ldr_name"`
	CompanyName string  `json:"company_name"`
	ProductName string  `json:"product_name"`
	Pipeline    string  `json:"pipeline"`
	DealStage   string  `json:"deal_stage"`
	Payload     string  `gorm:"type:jsonb" json:"-"`
	ViewedBy    string  `gorm:"type:jsonb;default:'[]'" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
