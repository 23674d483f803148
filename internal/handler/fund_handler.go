package handler

import (
	"errors"
	"math"
	"net/http"

	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/logic"
	"github.com/gin-gonic/gin"
)

// FundHandler 基金处理器
type FundHandler struct {
	fundLogic *logic.FundLogic
}

// NewFundHandler 创建基金处理器
func NewFundHandler(fundLogic *logic.FundLogic) *FundHandler {
	return &FundHandler{
		fundLogic: fundLogic,
	}
}

// CreateFund 创建基金
func (h *FundHandler) CreateFund(c *gin.Context) {
	var req CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 金额列持久化为有符号整数，超界目标在入口拒绝
	if req.TargetAmount > math.MaxInt64 {
		ErrorResponse(c, http.StatusBadRequest, "目标金额超出允许范围")
		return
	}

	// 调用logic层创建基金
	fund, cap, err := h.fundLogic.CreateFund(req.CreatorAddress, req.TargetAmount)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "基金创建成功", CreateFundResponse{
		Fund:         ToFundResponse(fund),
		CapabilityId: cap.Id,
	})
}

// GetFunds 获取基金列表
func (h *FundHandler) GetFunds(c *gin.Context) {
	page, pageSize := pageParams(c, 10)

	// 调用logic层获取基金列表
	funds, total, err := h.fundLogic.GetFunds(page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取基金列表成功", GetFundsResponse{
		Funds:      ToFundResponseList(funds),
		Pagination: paginationOf(page, pageSize, total),
	})
}

// GetFund 获取基金详情
func (h *FundHandler) GetFund(c *gin.Context) {
	// 调用logic层获取基金详情
	fund, err := h.fundLogic.GetFund(c.Param("id"))
	if err != nil {
		if errors.Is(err, logic.ErrFundNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取基金详情成功", GetFundResponse{
		Fund: ToFundResponse(fund),
	})
}

// Donate 向基金捐赠
func (h *FundHandler) Donate(c *gin.Context) {
	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// 金额列持久化为有符号整数，超界捐赠在入口拒绝
	if req.Amount > math.MaxInt64 {
		ErrorResponse(c, http.StatusBadRequest, "捐赠金额超出允许范围")
		return
	}

	// 调用logic层完成捐赠
	receipt, err := h.fundLogic.Donate(c.Request.Context(), c.Param("id"), req.DonorAddress, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrFundNotFound):
			ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrPriceUnavailable):
			// 价格源不可用时捐赠被整体放弃，基金状态未变
			ErrorResponse(c, http.StatusBadGateway, err.Error())
		default:
			ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusCreated, "捐赠成功", DonateResponse{
		Receipt: ToReceiptResponse(receipt),
	})
}

// Withdraw 提取基金余额
func (h *FundHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	fundID := c.Param("id")

	// 调用logic层完成提现
	amount, err := h.fundLogic.Withdraw(fundID, req.CapabilityId)
	if err != nil {
		switch {
		case errors.Is(err, logic.ErrFundNotFound):
			ErrorResponse(c, http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrUnauthorized):
			ErrorResponse(c, http.StatusForbidden, err.Error())
		default:
			ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	SuccessResponse(c, http.StatusOK, "提现成功", WithdrawResponse{
		FundID: fundID,
		Amount: int64(amount),
	})
}

// GetFundStats 获取基金统计信息
func (h *FundHandler) GetFundStats(c *gin.Context) {
	// 调用logic层获取基金统计信息
	stats, err := h.fundLogic.GetFundStats(c.Param("id"))
	if err != nil {
		if errors.Is(err, logic.ErrFundNotFound) {
			ErrorResponse(c, http.StatusNotFound, err.Error())
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取基金统计成功", GetFundStatsResponse{
		Stats: stats,
	})
}
