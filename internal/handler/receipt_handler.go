package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/fls/internal/logic"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler 捐赠凭据处理器
type ReceiptHandler struct {
	receiptLogic   *logic.ReceiptLogic
	goalEventLogic *logic.GoalEventLogic
}

// NewReceiptHandler 创建捐赠凭据处理器
func NewReceiptHandler(receiptLogic *logic.ReceiptLogic, goalEventLogic *logic.GoalEventLogic) *ReceiptHandler {
	return &ReceiptHandler{
		receiptLogic:   receiptLogic,
		goalEventLogic: goalEventLogic,
	}
}

// GetFundReceipts 获取基金的捐赠凭据列表
func (h *ReceiptHandler) GetFundReceipts(c *gin.Context) {
	page, pageSize := pageParams(c, 20)

	// 调用logic层获取捐赠凭据列表
	receipts, total, err := h.receiptLogic.GetFundReceipts(c.Param("id"), page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠凭据成功", GetFundReceiptsResponse{
		Receipts:   ToReceiptResponseList(receipts),
		Pagination: paginationOf(page, pageSize, total),
	})
}

// GetDonorReceipts 获取捐赠人的凭据列表
func (h *ReceiptHandler) GetDonorReceipts(c *gin.Context) {
	donor := c.Query("donor")
	if donor == "" {
		ErrorResponse(c, http.StatusBadRequest, "缺少捐赠人地址")
		return
	}

	page, pageSize := pageParams(c, 20)

	// 调用logic层获取捐赠凭据列表
	receipts, total, err := h.receiptLogic.GetDonorReceipts(donor, page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取捐赠凭据成功", GetFundReceiptsResponse{
		Receipts:   ToReceiptResponseList(receipts),
		Pagination: paginationOf(page, pageSize, total),
	})
}

// GetFundEvents 获取基金的达标事件列表
func (h *ReceiptHandler) GetFundEvents(c *gin.Context) {
	page, pageSize := pageParams(c, 20)

	// 调用logic层获取达标事件列表
	events, total, err := h.goalEventLogic.GetFundEvents(c.Param("id"), page, pageSize)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取达标事件成功", GetFundEventsResponse{
		Events:     ToGoalEventResponseList(events),
		Pagination: paginationOf(page, pageSize, total),
	})
}

// pageParams 解析分页参数
func pageParams(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// paginationOf 构造分页信息
func paginationOf(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
