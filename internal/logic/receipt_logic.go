package logic

import (
	"fmt"

	"github.com/blues/fls/internal/model"
	"gorm.io/gorm"
)

// ReceiptLogic 捐赠凭据业务逻辑
type ReceiptLogic struct {
	db *gorm.DB
}

// NewReceiptLogic 创建捐赠凭据业务逻辑
func NewReceiptLogic(db *gorm.DB) *ReceiptLogic {
	return &ReceiptLogic{db: db}
}

// GetFundReceipts 获取基金的捐赠凭据列表
func (l *ReceiptLogic) GetFundReceipts(fundID string, page, pageSize int) ([]model.ReceiptModel, int64, error) {
	var receipts []model.ReceiptModel
	var total int64

	if err := l.db.Model(&model.ReceiptModel{}).
		Where("fund_id = ?", fundID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠凭据总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := l.db.Where("fund_id = ?", fundID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&receipts).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠凭据列表失败: %w", err)
	}

	return receipts, total, nil
}

// GetDonorReceipts 获取捐赠人的凭据列表
func (l *ReceiptLogic) GetDonorReceipts(donorAddress string, page, pageSize int) ([]model.ReceiptModel, int64, error) {
	var receipts []model.ReceiptModel
	var total int64

	if err := l.db.Model(&model.ReceiptModel{}).
		Where("donor_address = ?", donorAddress).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠凭据总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := l.db.Where("donor_address = ?", donorAddress).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&receipts).Error; err != nil {
		return nil, 0, fmt.Errorf("获取捐赠凭据列表失败: %w", err)
	}

	return receipts, total, nil
}
