package model

import (
	"time"
)

// OwnerCapabilityModel 基金所有者凭证
// 每个基金有且仅有一条记录，与基金在同一事务中创建
type OwnerCapabilityModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`

	FundId string `json:"fund_id" gorm:"not null;uniqueIndex;size:36"`
}

// TableName 自定义表名
func (OwnerCapabilityModel) TableName() string {
	return "owner_capability"
}
