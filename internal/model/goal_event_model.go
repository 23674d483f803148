package model

import (
	"time"
)

// GoalEventModel 达标广播事件记录
// 达标后的每次捐赠都会新增一条，不做去重
type GoalEventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	FundId       string `json:"fund_id" gorm:"not null;index;size:36"`
	RaisedAmount int64  `json:"raised_amount" gorm:"not null"` // 触发时刻的累计已筹金额
}

// TableName 自定义表名
func (GoalEventModel) TableName() string {
	return "goal_event"
}
