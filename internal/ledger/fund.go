package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnauthorized 提现凭证与基金不匹配
var ErrUnauthorized = errors.New("unauthorized: capability not bound to fund")

// ErrPriceUnavailable 价格源查询失败
var ErrPriceUnavailable = errors.New("price feed unavailable")

// Fund 众筹基金
type Fund struct {
	ID     string // 基金唯一标识
	Target uint64 // 目标金额（参考货币整数单位），创建后不可变
	Raised uint64 // 已筹金额（原生资产最小单位）
}

// OwnerCap 基金所有者凭证
// 字段不导出，只能由 CreateFund 签发，唯一用途是在 Withdraw 中做身份比对
type OwnerCap struct {
	id     string
	fundID string
}

// ID 凭证标识
func (c *OwnerCap) ID() string {
	return c.id
}

// FundID 凭证绑定的基金标识
func (c *OwnerCap) FundID() string {
	return c.fundID
}

// RestoreCap 从持久化记录恢复凭证
// 仅供存储层回填已签发的凭证使用，不是新的签发路径
func RestoreCap(id, fundID string) *OwnerCap {
	return &OwnerCap{id: id, fundID: fundID}
}

// Receipt 捐赠凭据，不可赎回
type Receipt struct {
	ID            string // 凭据唯一标识
	FundID        string // 所属基金
	AmountDonated uint64 // 本次捐赠金额（原生资产最小单位）
}

// GoalReached 达标广播事件
// 达标后的每次捐赠都会再次触发，事件本身不做去重
type GoalReached struct {
	FundID string
	Raised uint64 // 触发时刻的累计已筹金额
}

// GoalSink 达标事件接收器
type GoalSink func(GoalReached)

// CreateFund 创建基金并签发唯一的所有者凭证
func CreateFund(target uint64) (*Fund, *OwnerCap) {
	fund := &Fund{
		ID:     uuid.NewString(),
		Target: target,
		Raised: 0,
	}
	cap := &OwnerCap{
		id:     uuid.NewString(),
		fundID: fund.ID,
	}
	return fund, cap
}

// Donate 向基金捐赠
// 先查询价格源：查询失败时直接返回，基金状态不变。
// 余额合并之后的达标判断和凭据铸造不再回滚。
func Donate(ctx context.Context, oracle PriceOracle, feedID string, fund *Fund, amount uint64, sink GoalSink) (*Receipt, error) {
	price, err := oracle.GetPrice(ctx, feedID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	donated := amount
	fund.Raised += amount

	// 达标判断只做观测，不阻塞捐赠，也不阻止后续捐赠
	if GoalMet(fund.Raised, fund.Target, price.Price) && sink != nil {
		sink(GoalReached{FundID: fund.ID, Raised: fund.Raised})
	}

	return &Receipt{
		ID:            uuid.NewString(),
		FundID:        fund.ID,
		AmountDonated: donated,
	}, nil
}

// Withdraw 提取基金全部余额
// 凭证校验在任何状态变更之前完成，校验失败返回 ErrUnauthorized。
// 余额为零时照常成功，返回 0。
func Withdraw(cap *OwnerCap, fund *Fund) (uint64, error) {
	if cap == nil || cap.fundID != fund.ID {
		return 0, ErrUnauthorized
	}

	amount := fund.Raised
	fund.Raised = 0
	return amount, nil
}
