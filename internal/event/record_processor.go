package event

import (
	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/logic"
)

// RecordProcessor 达标事件落库处理器
type RecordProcessor struct {
	goalEventLogic *logic.GoalEventLogic
}

// NewRecordProcessor 创建达标事件落库处理器
func NewRecordProcessor(goalEventLogic *logic.GoalEventLogic) *RecordProcessor {
	return &RecordProcessor{goalEventLogic: goalEventLogic}
}

// Name 处理器名称
func (p *RecordProcessor) Name() string {
	return "goal_event_recorder"
}

// Process 落库达标事件
func (p *RecordProcessor) Process(ev ledger.GoalReached) error {
	return p.goalEventLogic.RecordGoalReached(ev)
}
