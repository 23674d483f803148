package task

import (
	"context"
	"time"

	"github.com/blues/fls/internal/config"
	"github.com/blues/fls/internal/logger"
	"github.com/blues/fls/internal/oracle"
	"github.com/go-co-op/gocron/v2"
)

// PriceRefreshJob 报价刷新任务
// 定时拉取价格源最新报价写入缓存，统计接口读取缓存折算筹款价值
type PriceRefreshJob struct {
	oracleClient *oracle.Client
	priceCache   *oracle.Cache
	config       *config.Config
}

// NewPriceRefreshJob 创建报价刷新任务
func NewPriceRefreshJob(oracleClient *oracle.Client, priceCache *oracle.Cache, cfg *config.Config) *PriceRefreshJob {
	return &PriceRefreshJob{
		oracleClient: oracleClient,
		priceCache:   priceCache,
		config:       cfg,
	}
}

// GetName 获取任务名称
func (j *PriceRefreshJob) GetName() string {
	return "price_feed_refresher"
}

// GetSchedule 获取调度配置
func (j *PriceRefreshJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *PriceRefreshJob) Execute() {
	feedID := j.config.Oracle.FeedId

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(j.config.Oracle.Timeout)*time.Second)
	defer cancel()

	price, err := j.oracleClient.GetPrice(ctx, feedID)
	if err != nil {
		logger.Error("Failed to refresh price for feed %s: %v", feedID, err)
		return
	}

	j.priceCache.Set(price)
	logger.Info("Refreshed price for feed %s: price=%d round=%d", feedID, price.Price, price.Round)
}
