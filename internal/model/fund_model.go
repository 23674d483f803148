package model

import (
	"time"
)

// FundModel 众筹基金
type FundModel struct {
	Id        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 筹款信息
	TargetAmount int64 `json:"target_amount" gorm:"not null"` // 目标金额（参考货币整数单位）
	RaisedAmount int64 `json:"raised_amount" gorm:"default:0"` // 已筹金额（原生资产最小单位）

	// 创建者信息
	CreatorAddress string `json:"creator_address" gorm:"not null"`

	// 状态
	Status FundStatus `json:"status" gorm:"default:'active'"`
}

// FundStatus 基金状态
type FundStatus string

const (
	FundStatusActive  FundStatus = "active"   // 筹款中
	FundStatusGoalMet FundStatus = "goal_met" // 已达标
	FundStatusDrained FundStatus = "drained"  // 已提取
)

// TableName 自定义表名
func (FundModel) TableName() string {
	return "fund"
}
