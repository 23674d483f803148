package event

import (
	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/logger"
)

// NotifyProcessor 达标事件通知处理器
type NotifyProcessor struct{}

// NewNotifyProcessor 创建达标事件通知处理器
func NewNotifyProcessor() *NotifyProcessor {
	return &NotifyProcessor{}
}

// Name 处理器名称
func (p *NotifyProcessor) Name() string {
	return "goal_event_notifier"
}

// Process 输出达标通知
func (p *NotifyProcessor) Process(ev ledger.GoalReached) error {
	logger.Info("Fund %s reached its goal with raised amount %d", ev.FundID, ev.Raised)
	return nil
}
