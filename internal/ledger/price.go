package ledger

import (
	"context"
	"math/big"
)

const (
	// NativeDecimals 原生资产小数位数
	NativeDecimals = 9
	// NativeScale 原生资产最小单位换算系数（10^9）
	NativeScale = 1_000_000_000
	// PriceScale 价格源报价的固定缩放系数（10^8）
	PriceScale = 100_000_000
)

// PriceData 价格源返回的一次报价
// 核心只消费 Price，其余字段为价格源元数据，此处不做校验
type PriceData struct {
	Price     int64  // 报价，按 PriceScale 缩放
	Decimals  uint8  // 报价小数位数
	Timestamp int64  // 报价时间戳
	Round     uint64 // 轮次标识
}

// PriceOracle 外部价格源
type PriceOracle interface {
	GetPrice(ctx context.Context, feedID string) (PriceData, error)
}

// GoalMet 判断折算后的已筹金额是否达到目标
// raised 为最小单位，target 为参考货币整数单位。
// 比较式：raised × price >= target × NativeScale × PriceScale，
// 乘法用大整数完成，避免大额筹款或高价时溢出。
func GoalMet(raised, target uint64, price int64) bool {
	if price <= 0 {
		return false
	}

	lhs := new(big.Int).Mul(
		new(big.Int).SetUint64(raised),
		big.NewInt(price),
	)
	rhs := new(big.Int).SetUint64(target)
	rhs.Mul(rhs, big.NewInt(NativeScale))
	rhs.Mul(rhs, big.NewInt(PriceScale))

	return lhs.Cmp(rhs) >= 0
}

// ConvertToReference 将最小单位的原生资产金额折算为参考货币整数单位
func ConvertToReference(raised uint64, price int64) uint64 {
	if price <= 0 {
		return 0
	}

	value := new(big.Int).Mul(
		new(big.Int).SetUint64(raised),
		big.NewInt(price),
	)
	value.Quo(value, big.NewInt(NativeScale))
	value.Quo(value, big.NewInt(PriceScale))
	return value.Uint64()
}
