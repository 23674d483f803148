package event

import (
	"fmt"
	"sync"

	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// Processor 达标事件处理器
type Processor interface {
	Name() string
	Process(ev ledger.GoalReached) error
}

// Bus 达标事件广播器
// 事件通过协程池分发给所有已注册的处理器，只发不收，不去重，不等待确认
type Bus struct {
	pool *ants.Pool // 协程池

	mu         sync.RWMutex
	processors []Processor
}

// NewBus 创建事件广播器
func NewBus(poolSize int) (*Bus, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	return &Bus{pool: pool}, nil
}

// Register 注册事件处理器
func (b *Bus) Register(p Processor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.processors = append(b.processors, p)
	logger.Info("Registered goal event processor: %s", p.Name())
}

// Publish 广播一条达标事件
// 处理器失败只记日志，不影响其他处理器，也不回传给捐赠方
func (b *Bus) Publish(ev ledger.GoalReached) {
	b.mu.RLock()
	processors := make([]Processor, len(b.processors))
	copy(processors, b.processors)
	b.mu.RUnlock()

	for _, p := range processors {
		p := p
		err := b.pool.Submit(func() {
			if err := p.Process(ev); err != nil {
				logger.Error("Processor %s failed to handle goal event for fund %s: %v",
					p.Name(), ev.FundID, err)
			}
		})
		if err != nil {
			logger.Error("Failed to submit goal event to processor %s: %v", p.Name(), err)
		}
	}
}

// Close 关闭广播器，释放协程池
func (b *Bus) Close() {
	b.pool.Release()
}
