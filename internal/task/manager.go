package task

import (
	"github.com/blues/fls/internal/config"
	"github.com/blues/fls/internal/logger"
	"github.com/blues/fls/internal/oracle"
	"github.com/go-co-op/gocron/v2"
)

// Manager 任务管理器
type Manager struct {
	scheduler    gocron.Scheduler
	oracleClient *oracle.Client
	priceCache   *oracle.Cache
	config       *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(oracleClient *oracle.Client, priceCache *oracle.Cache, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler:    s,
		oracleClient: oracleClient,
		priceCache:   priceCache,
		config:       cfg,
	}
}

// Start 启动任务管理器
func Start(oracleClient *oracle.Client, priceCache *oracle.Cache, cfg *config.Config) *Manager {
	manager := NewManager(oracleClient, priceCache, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册报价刷新任务
	m.RegisterPriceRefreshJob()
}

// RegisterPriceRefreshJob 注册报价刷新任务
func (m *Manager) RegisterPriceRefreshJob() {
	job := NewPriceRefreshJob(m.oracleClient, m.priceCache, m.config)

	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
