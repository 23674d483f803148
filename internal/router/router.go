package router

import (
	"github.com/blues/fls/internal/handler"
	"github.com/blues/fls/internal/logic"
	"github.com/gin-gonic/gin"
)

func Setup(fundLogic *logic.FundLogic, receiptLogic *logic.ReceiptLogic, goalEventLogic *logic.GoalEventLogic) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "fund-ledger-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		fundHandler := handler.NewFundHandler(fundLogic)
		receiptHandler := handler.NewReceiptHandler(receiptLogic, goalEventLogic)

		// 基金相关路由
		funds := v1.Group("/funds")
		{
			funds.POST("", fundHandler.CreateFund)
			funds.GET("", fundHandler.GetFunds)
			funds.GET("/:id", fundHandler.GetFund)
			funds.POST("/:id/donations", fundHandler.Donate)
			funds.POST("/:id/withdrawals", fundHandler.Withdraw)
			funds.GET("/:id/receipts", receiptHandler.GetFundReceipts)
			funds.GET("/:id/events", receiptHandler.GetFundEvents)
			funds.GET("/:id/stats", fundHandler.GetFundStats)
		}

		// 捐赠凭据路由
		v1.GET("/receipts", receiptHandler.GetDonorReceipts)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
