package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/model"
	"github.com/blues/fls/internal/oracle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrFundNotFound 基金不存在
var ErrFundNotFound = errors.New("基金不存在")

// FundLogic 基金业务逻辑
type FundLogic struct {
	db     *gorm.DB
	oracle ledger.PriceOracle
	cache  *oracle.Cache
	feedID string
	sink   ledger.GoalSink
}

// NewFundLogic 创建基金业务逻辑
func NewFundLogic(db *gorm.DB, priceOracle ledger.PriceOracle, cache *oracle.Cache, feedID string, sink ledger.GoalSink) *FundLogic {
	return &FundLogic{
		db:     db,
		oracle: priceOracle,
		cache:  cache,
		feedID: feedID,
		sink:   sink,
	}
}

// CreateFund 创建基金并签发所有者凭证
// 基金与凭证在同一事务中落库，保证一一对应
func (l *FundLogic) CreateFund(creatorAddress string, target uint64) (*model.FundModel, *model.OwnerCapabilityModel, error) {
	fund, cap := ledger.CreateFund(target)

	fundRow := &model.FundModel{
		Id:             fund.ID,
		TargetAmount:   int64(fund.Target),
		RaisedAmount:   0,
		CreatorAddress: creatorAddress,
		Status:         model.FundStatusActive,
	}
	capRow := &model.OwnerCapabilityModel{
		Id:     cap.ID(),
		FundId: cap.FundID(),
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fundRow).Error; err != nil {
			return err
		}
		if err := tx.Create(capRow).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("创建基金失败: %w", err)
	}

	return fundRow, capRow, nil
}

// Donate 向基金捐赠
// 价格源查询失败时事务回滚，余额不变；达标事件在事务提交后才广播。
// 基金行先加行锁再读，余额用数据库端累加更新，并发捐赠不会互相覆盖
func (l *FundLogic) Donate(ctx context.Context, fundID, donorAddress string, amount uint64) (*model.ReceiptModel, error) {
	var receiptRow *model.ReceiptModel
	var goals []ledger.GoalReached

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var fundRow model.FundModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fundRow, "id = ?", fundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundNotFound
			}
			return fmt.Errorf("获取基金失败: %w", err)
		}

		fund := &ledger.Fund{
			ID:     fundRow.Id,
			Target: uint64(fundRow.TargetAmount),
			Raised: uint64(fundRow.RaisedAmount),
		}

		receipt, err := ledger.Donate(ctx, l.oracle, l.feedID, fund, amount, func(ev ledger.GoalReached) {
			goals = append(goals, ev)
		})
		if err != nil {
			return err
		}

		// 行锁之下累加式更新与内存中的 fund.Raised 等价
		if err := tx.Model(&fundRow).
			Update("raised_amount", gorm.Expr("raised_amount + ?", int64(amount))).Error; err != nil {
			return fmt.Errorf("更新基金余额失败: %w", err)
		}

		receiptRow = &model.ReceiptModel{
			Id:           receipt.ID,
			FundId:       receipt.FundID,
			DonorAddress: donorAddress,
			Amount:       int64(receipt.AmountDonated),
		}
		if err := tx.Create(receiptRow).Error; err != nil {
			return fmt.Errorf("创建捐赠凭据失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.sink != nil {
		for _, ev := range goals {
			l.sink(ev)
		}
	}

	return receiptRow, nil
}

// Withdraw 提取基金全部余额
// 凭证校验交给核心账本完成，校验失败时不产生任何状态变更。
// 基金行加行锁读出再清零，避免清零覆盖锁等待期间提交的捐赠
func (l *FundLogic) Withdraw(fundID, capabilityID string) (uint64, error) {
	var amount uint64

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var fundRow model.FundModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&fundRow, "id = ?", fundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFundNotFound
			}
			return fmt.Errorf("获取基金失败: %w", err)
		}

		var capRow model.OwnerCapabilityModel
		if err := tx.First(&capRow, "id = ?", capabilityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrUnauthorized
			}
			return fmt.Errorf("获取凭证失败: %w", err)
		}

		fund := &ledger.Fund{
			ID:     fundRow.Id,
			Target: uint64(fundRow.TargetAmount),
			Raised: uint64(fundRow.RaisedAmount),
		}
		cap := ledger.RestoreCap(capRow.Id, capRow.FundId)

		drained, err := ledger.Withdraw(cap, fund)
		if err != nil {
			return err
		}
		amount = drained

		updates := map[string]interface{}{
			"raised_amount": int64(fund.Raised),
		}
		if drained > 0 {
			updates["status"] = model.FundStatusDrained
		}
		if err := tx.Model(&fundRow).Updates(updates).Error; err != nil {
			return fmt.Errorf("更新基金余额失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return amount, nil
}

// GetFunds 获取基金列表
func (l *FundLogic) GetFunds(page, pageSize int) ([]model.FundModel, int64, error) {
	var funds []model.FundModel
	var total int64

	if err := l.db.Model(&model.FundModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取基金总数失败: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := l.db.Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&funds).Error; err != nil {
		return nil, 0, fmt.Errorf("获取基金列表失败: %w", err)
	}

	return funds, total, nil
}

// GetFund 获取基金详情
func (l *FundLogic) GetFund(id string) (*model.FundModel, error) {
	var fund model.FundModel
	if err := l.db.First(&fund, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFundNotFound
		}
		return nil, fmt.Errorf("获取基金详情失败: %w", err)
	}
	return &fund, nil
}

// GetFundStats 获取基金统计信息
// 折算价值用缓存报价计算，缓存未填充时只返回账面数据
func (l *FundLogic) GetFundStats(id string) (map[string]interface{}, error) {
	fund, err := l.GetFund(id)
	if err != nil {
		return nil, err
	}

	var donationCount int64
	if err := l.db.Model(&model.ReceiptModel{}).
		Where("fund_id = ?", id).
		Count(&donationCount).Error; err != nil {
		return nil, fmt.Errorf("获取捐赠次数失败: %w", err)
	}

	var donorCount int64
	if err := l.db.Model(&model.ReceiptModel{}).
		Where("fund_id = ?", id).
		Distinct("donor_address").
		Count(&donorCount).Error; err != nil {
		return nil, fmt.Errorf("获取捐赠人数失败: %w", err)
	}

	stats := map[string]interface{}{
		"fund_id":        fund.Id,
		"target_amount":  fund.TargetAmount,
		"raised_amount":  fund.RaisedAmount,
		"status":         fund.Status,
		"donation_count": donationCount,
		"donor_count":    donorCount,
	}

	if price, ok := l.cache.Get(); ok {
		raised := uint64(fund.RaisedAmount)
		stats["price"] = price.Price
		stats["price_updated_at"] = l.cache.UpdatedAt()
		stats["raised_value"] = ledger.ConvertToReference(raised, price.Price)
		stats["goal_met"] = ledger.GoalMet(raised, uint64(fund.TargetAmount), price.Price)
	}

	return stats, nil
}
