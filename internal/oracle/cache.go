package oracle

import (
	"sync"
	"time"

	"github.com/blues/fls/internal/ledger"
)

// Cache 最近一次报价缓存
// 由定时任务刷新，统计接口读取，不参与捐赠路径的价格判断
type Cache struct {
	mu        sync.RWMutex
	data      ledger.PriceData
	updatedAt time.Time
	valid     bool
}

// NewCache 创建报价缓存
func NewCache() *Cache {
	return &Cache{}
}

// Set 写入最新报价
func (c *Cache) Set(data ledger.PriceData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.updatedAt = time.Now()
	c.valid = true
}

// Get 读取最近报价，第二个返回值表示缓存是否已填充
func (c *Cache) Get() (ledger.PriceData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data, c.valid
}

// UpdatedAt 最近一次刷新时间
func (c *Cache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
