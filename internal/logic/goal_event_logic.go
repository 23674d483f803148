package logic

import (
	"fmt"

	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/model"
	"gorm.io/gorm"
)

// GoalEventLogic 达标事件业务逻辑
type GoalEventLogic struct {
	db *gorm.DB
}

// NewGoalEventLogic 创建达标事件业务逻辑
func NewGoalEventLogic(db *gorm.DB) *GoalEventLogic {
	return &GoalEventLogic{db: db}
}

// RecordGoalReached 落库一条达标事件并把基金标记为已达标
func (l *GoalEventLogic) RecordGoalReached(ev ledger.GoalReached) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		event := &model.GoalEventModel{
			FundId:       ev.FundID,
			RaisedAmount: int64(ev.Raised),
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("创建达标事件失败: %w", err)
		}

		if err := tx.Model(&model.FundModel{}).
			Where("id = ?", ev.FundID).
			Update("status", model.FundStatusGoalMet).Error; err != nil {
			return fmt.Errorf("更新基金状态失败: %w", err)
		}

		return nil
	})
}

// GetFundEvents 获取基金的达标事件列表
func (l *GoalEventLogic) GetFundEvents(fundID string, page, pageSize int) ([]model.GoalEventModel, int64, error) {
	var events []model.GoalEventModel
	var total int64

	if err := l.db.Model(&model.GoalEventModel{}).
		Where("fund_id = ?", fundID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取达标事件总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := l.db.Where("fund_id = ?", fundID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("获取达标事件列表失败: %w", err)
	}

	return events, total, nil
}
