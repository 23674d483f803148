package handler

import (
	"time"

	"github.com/blues/fls/internal/model"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// 请求模型

// CreateFundRequest 创建基金请求
type CreateFundRequest struct {
	CreatorAddress string `json:"creatorAddress" binding:"required"`
	TargetAmount   uint64 `json:"targetAmount"` // 零目标合法：无最低筹款目标
}

// DonateRequest 捐赠请求
type DonateRequest struct {
	DonorAddress string `json:"donorAddress" binding:"required"`
	Amount       uint64 `json:"amount" binding:"required,min=1"` // 原生资产最小单位
}

// WithdrawRequest 提现请求
type WithdrawRequest struct {
	CapabilityId string `json:"capabilityId" binding:"required"`
}

// 响应模型

// FundResponse 基金响应模型
type FundResponse struct {
	ID           string    `json:"id"`
	Creator      string    `json:"creator"`
	TargetAmount int64     `json:"targetAmount"`
	RaisedAmount int64     `json:"raisedAmount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateFundResponse 创建基金响应
// 凭证ID仅在创建时返回一次，由创建者自行保管
type CreateFundResponse struct {
	Fund         FundResponse `json:"fund"`
	CapabilityId string       `json:"capabilityId"`
}

// GetFundsResponse 获取基金列表响应
type GetFundsResponse struct {
	Funds      []FundResponse `json:"funds"`
	Pagination Pagination     `json:"pagination"`
}

// GetFundResponse 获取基金详情响应
type GetFundResponse struct {
	Fund FundResponse `json:"fund"`
}

// ReceiptResponse 捐赠凭据响应模型
type ReceiptResponse struct {
	ID        string    `json:"id"`
	FundID    string    `json:"fundId"`
	Donor     string    `json:"donor"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// DonateResponse 捐赠响应
type DonateResponse struct {
	Receipt ReceiptResponse `json:"receipt"`
}

// WithdrawResponse 提现响应
type WithdrawResponse struct {
	FundID string `json:"fundId"`
	Amount int64  `json:"amount"` // 提取的全部余额，已清零的基金返回0
}

// GetFundReceiptsResponse 获取基金捐赠凭据响应
type GetFundReceiptsResponse struct {
	Receipts   []ReceiptResponse `json:"receipts"`
	Pagination Pagination        `json:"pagination"`
}

// GoalEventResponse 达标事件响应模型
type GoalEventResponse struct {
	ID           int64     `json:"id"`
	FundID       string    `json:"fundId"`
	RaisedAmount int64     `json:"raisedAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GetFundEventsResponse 获取基金达标事件响应
type GetFundEventsResponse struct {
	Events     []GoalEventResponse `json:"events"`
	Pagination Pagination          `json:"pagination"`
}

// GetFundStatsResponse 获取基金统计响应
type GetFundStatsResponse struct {
	Stats map[string]interface{} `json:"stats"`
}

// 转换函数

// ToFundResponse 将数据库模型转换为响应模型
func ToFundResponse(fund *model.FundModel) FundResponse {
	return FundResponse{
		ID:           fund.Id,
		Creator:      fund.CreatorAddress,
		TargetAmount: fund.TargetAmount,
		RaisedAmount: fund.RaisedAmount,
		Status:       string(fund.Status),
		CreatedAt:    fund.CreatedAt,
		UpdatedAt:    fund.UpdatedAt,
	}
}

// ToFundResponseList 将数据库模型列表转换为响应模型列表
func ToFundResponseList(funds []model.FundModel) []FundResponse {
	result := make([]FundResponse, len(funds))
	for i, fund := range funds {
		result[i] = ToFundResponse(&fund)
	}
	return result
}

// ToReceiptResponse 将捐赠凭据数据库模型转换为响应模型
func ToReceiptResponse(receipt *model.ReceiptModel) ReceiptResponse {
	return ReceiptResponse{
		ID:        receipt.Id,
		FundID:    receipt.FundId,
		Donor:     receipt.DonorAddress,
		Amount:    receipt.Amount,
		CreatedAt: receipt.CreatedAt,
	}
}

// ToReceiptResponseList 将捐赠凭据数据库模型列表转换为响应模型列表
func ToReceiptResponseList(receipts []model.ReceiptModel) []ReceiptResponse {
	result := make([]ReceiptResponse, len(receipts))
	for i, receipt := range receipts {
		result[i] = ToReceiptResponse(&receipt)
	}
	return result
}

// ToGoalEventResponse 将达标事件数据库模型转换为响应模型
func ToGoalEventResponse(event *model.GoalEventModel) GoalEventResponse {
	return GoalEventResponse{
		ID:           event.Id,
		FundID:       event.FundId,
		RaisedAmount: event.RaisedAmount,
		CreatedAt:    event.CreatedAt,
	}
}

// ToGoalEventResponseList 将达标事件数据库模型列表转换为响应模型列表
func ToGoalEventResponseList(events []model.GoalEventModel) []GoalEventResponse {
	result := make([]GoalEventResponse, len(events))
	for i, event := range events {
		result[i] = ToGoalEventResponse(&event)
	}
	return result
}
