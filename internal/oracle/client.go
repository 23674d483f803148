package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/blues/fls/internal/config"
	"github.com/blues/fls/internal/ledger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// 价格聚合器ABI定义（Chainlink风格，简化版）
const aggregatorABI = `[
	{
		"inputs": [],
		"name": "latestRoundData",
		"outputs": [
			{"internalType": "uint80", "name": "roundId", "type": "uint80"},
			{"internalType": "int256", "name": "answer", "type": "int256"},
			{"internalType": "uint256", "name": "startedAt", "type": "uint256"},
			{"internalType": "uint256", "name": "updatedAt", "type": "uint256"},
			{"internalType": "uint80", "name": "answeredInRound", "type": "uint80"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [
			{"internalType": "uint8", "name": "", "type": "uint8"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Client 链上价格源客户端
type Client struct {
	client        *ethclient.Client
	feeds         map[string]common.Address // 价格对标识 -> 聚合器合约地址
	aggregatorABI abi.ABI

	mu       sync.RWMutex
	decimals map[string]uint8 // 每个价格对的小数位数，首次查询后缓存
}

func Init(cfg config.OracleConfig) (*Client, error) {
	// 连接RPC节点
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rpc node: %w", err)
	}

	// 解析聚合器地址
	feeds := make(map[string]common.Address, len(cfg.Feeds))
	for feedID, addr := range cfg.Feeds {
		feeds[feedID] = common.HexToAddress(addr)
	}

	// 解析ABI
	parsedABI, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse aggregator ABI: %w", err)
	}

	return &Client{
		client:        client,
		feeds:         feeds,
		aggregatorABI: parsedABI,
		decimals:      make(map[string]uint8),
	}, nil
}

// GetPrice 查询指定价格对的最新报价
func (c *Client) GetPrice(ctx context.Context, feedID string) (ledger.PriceData, error) {
	addr, ok := c.feeds[feedID]
	if !ok {
		return ledger.PriceData{}, fmt.Errorf("unknown price feed: %s", feedID)
	}

	data, err := c.aggregatorABI.Pack("latestRoundData")
	if err != nil {
		return ledger.PriceData{}, fmt.Errorf("failed to pack latestRoundData call: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}, nil)
	if err != nil {
		return ledger.PriceData{}, fmt.Errorf("failed to call aggregator %s: %w", addr.Hex(), err)
	}

	values, err := c.aggregatorABI.Unpack("latestRoundData", result)
	if err != nil {
		return ledger.PriceData{}, fmt.Errorf("failed to unpack latestRoundData: %w", err)
	}
	if len(values) < 5 {
		return ledger.PriceData{}, fmt.Errorf("unexpected latestRoundData result: %d values", len(values))
	}

	roundId := values[0].(*big.Int)
	answer := values[1].(*big.Int)
	updatedAt := values[3].(*big.Int)

	decimals, err := c.getDecimals(ctx, feedID, addr)
	if err != nil {
		return ledger.PriceData{}, err
	}

	return ledger.PriceData{
		Price:     answer.Int64(),
		Decimals:  decimals,
		Timestamp: updatedAt.Int64(),
		Round:     roundId.Uint64(),
	}, nil
}

// getDecimals 查询聚合器小数位数，结果缓存
func (c *Client) getDecimals(ctx context.Context, feedID string, addr common.Address) (uint8, error) {
	c.mu.RLock()
	decimals, ok := c.decimals[feedID]
	c.mu.RUnlock()
	if ok {
		return decimals, nil
	}

	data, err := c.aggregatorABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals call: %w", err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to call aggregator %s: %w", addr.Hex(), err)
	}

	values, err := c.aggregatorABI.Unpack("decimals", result)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals: %w", err)
	}
	decimals = values[0].(uint8)

	c.mu.Lock()
	c.decimals[feedID] = decimals
	c.mu.Unlock()

	return decimals, nil
}

// Close 关闭RPC连接
func (c *Client) Close() {
	c.client.Close()
}
