package main

import (
	"github.com/blues/fls/internal/config"
	"github.com/blues/fls/internal/database"
	"github.com/blues/fls/internal/event"
	"github.com/blues/fls/internal/logger"
	"github.com/blues/fls/internal/logic"
	"github.com/blues/fls/internal/oracle"
	"github.com/blues/fls/internal/router"
	"github.com/blues/fls/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if cfg.Log.Output == "file" {
		fileLogger, err := logger.NewWithFileRotation(logger.ParseLogLevel(cfg.Log.Level), cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(fileLogger)
	} else {
		stdLogger, err := logger.New(logger.ParseLogLevel(cfg.Log.Level))
		if err != nil {
			logger.Fatal("Failed to initialize logger: %v", err)
		}
		logger.SetDefaultLogger(stdLogger)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化价格源客户端
	oracleClient, err := oracle.Init(cfg.Oracle)
	if err != nil {
		logger.Fatal("Failed to initialize oracle client: %v", err)
	}
	defer oracleClient.Close()

	// 报价缓存
	priceCache := oracle.NewCache()

	// 达标事件广播器
	bus, err := event.NewBus(cfg.Event.PoolSize)
	if err != nil {
		logger.Fatal("Failed to initialize event bus: %v", err)
	}
	defer bus.Close()

	goalEventLogic := logic.NewGoalEventLogic(db)
	bus.Register(event.NewRecordProcessor(goalEventLogic))
	bus.Register(event.NewNotifyProcessor())

	// 业务逻辑
	fundLogic := logic.NewFundLogic(db, oracleClient, priceCache, cfg.Oracle.FeedId, bus.Publish)
	receiptLogic := logic.NewReceiptLogic(db)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(fundLogic, receiptLogic, goalEventLogic)

	// 启动定时任务
	manager := task.Start(oracleClient, priceCache, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
