package model

import (
	"time"
)

// ReceiptModel 捐赠凭据
type ReceiptModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`

	FundId       string `json:"fund_id" gorm:"not null;index;size:36"`
	DonorAddress string `json:"donor_address" gorm:"not null"`
	Amount       int64  `json:"amount" gorm:"not null"` // 捐赠金额（原生资产最小单位）
}

// TableName 自定义表名
func (ReceiptModel) TableName() string {
	return "receipt"
}
