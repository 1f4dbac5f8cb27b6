package etherman

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	depositEventSignatureHash = crypto.Keccak256Hash([]byte("BridgeEvent(uint8,uint32,address,uint32,address,uint256,bytes,uint32)"))
	claimEventSignatureHash   = crypto.Keccak256Hash([]byte("ClaimEvent(uint32,uint32,address,address,uint256)"))

	// ErrNotFound is used when the object is not found
	ErrNotFound = errors.New("not found")
	// ErrUnknownEvent is used when a log carries no recognized event signature
	ErrUnknownEvent = errors.New("unknown event signature")
)

const bridgeEventsABIJSON = `[
	{"anonymous":false,"inputs":[
		{"indexed":false,"internalType":"uint8","name":"leafType","type":"uint8"},
		{"indexed":false,"internalType":"uint32","name":"originNetwork","type":"uint32"},
		{"indexed":false,"internalType":"address","name":"originAddress","type":"address"},
		{"indexed":false,"internalType":"uint32","name":"destinationNetwork","type":"uint32"},
		{"indexed":false,"internalType":"address","name":"destinationAddress","type":"address"},
		{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"},
		{"indexed":false,"internalType":"bytes","name":"metadata","type":"bytes"},
		{"indexed":false,"internalType":"uint32","name":"depositCount","type":"uint32"}],
	"name":"BridgeEvent","type":"event"},
	{"anonymous":false,"inputs":[
		{"indexed":false,"internalType":"uint32","name":"index","type":"uint32"},
		{"indexed":false,"internalType":"uint32","name":"originNetwork","type":"uint32"},
		{"indexed":false,"internalType":"address","name":"originAddress","type":"address"},
		{"indexed":false,"internalType":"address","name":"destinationAddress","type":"address"},
		{"indexed":false,"internalType":"uint256","name":"amount","type":"uint256"}],
	"name":"ClaimEvent","type":"event"}]`

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	bridgeEventsABI = mustParseABI(bridgeEventsABIJSON)
	erc20ABI        = mustParseABI(erc20ABIJSON)
)

func mustParseABI(abiJSON string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

// DecodeEventError reports a bridge log whose payload could not be decoded.
// It is fatal for that single event only; sibling events stay unaffected.
type DecodeEventError struct {
	Signature common.Hash
	TxHash    common.Hash
	Err       error
}

func (e *DecodeEventError) Error() string {
	return fmt.Sprintf("decoding bridge event %s in tx %s: %v", e.Signature, e.TxHash, e.Err)
}

func (e *DecodeEventError) Unwrap() error {
	return e.Err
}

type ethClienter interface {
	ethereum.ChainReader
	ethereum.LogFilterer
	ethereum.TransactionReader
	ethereum.ContractCaller
}

// Client is a read-only JSON-RPC client bound to one chain's node.
type Client struct {
	EtherClient ethClienter

	rpc *rpc.Client
}

// NewClient creates a new etherman client connected to the given node URL.
func NewClient(url string) (*Client, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		log.Errorf("error connecting to %s: %+v", url, err)
		return nil, err
	}
	return &Client{EtherClient: ethclient.NewClient(rpcClient), rpc: rpcClient}, nil
}

// GetLatestBlockNumber returns the number of the chain head.
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	header, err := c.EtherClient.HeaderByNumber(ctx, nil)
	metrics.RecordRPCRequest("eth_getBlockByNumber", err == nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// GetBridgeLogs retrieves the logs emitted by the bridge contract with one of
// the two recognized event signatures within the block range.
func (c *Client) GetBridgeLogs(ctx context.Context, bridgeAddr common.Address, fromBlock, toBlock uint64) ([]types.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{bridgeAddr},
		Topics:    [][]common.Hash{{depositEventSignatureHash, claimEventSignatureHash}},
	}
	logs, err := c.EtherClient.FilterLogs(ctx, query)
	metrics.RecordRPCRequest("eth_getLogs", err == nil)
	return logs, err
}

// FilterBridgeLogs returns the subsequence of logs emitted by the bridge
// contract carrying a recognized event signature, preserving input order.
func FilterBridgeLogs(logs []types.Log, bridgeAddr common.Address) []types.Log {
	filtered := make([]types.Log, 0, len(logs))
	for _, vLog := range logs {
		if vLog.Address != bridgeAddr || len(vLog.Topics) == 0 {
			continue
		}
		switch vLog.Topics[0] {
		case depositEventSignatureHash, claimEventSignatureHash:
			filtered = append(filtered, vLog)
		}
	}
	return filtered
}

// DecodeBridgeLog decodes a single bridge contract log, dispatching on its
// event signature.
func DecodeBridgeLog(vLog types.Log) (*DecodedLog, error) {
	if len(vLog.Topics) == 0 {
		return nil, &DecodeEventError{TxHash: vLog.TxHash, Err: ErrUnknownEvent}
	}
	switch vLog.Topics[0] {
	case depositEventSignatureHash:
		deposit, err := decodeDepositEvent(vLog.Data)
		if err != nil {
			return nil, &DecodeEventError{Signature: vLog.Topics[0], TxHash: vLog.TxHash, Err: err}
		}
		return &DecodedLog{Raw: vLog, Event: deposit}, nil
	case claimEventSignatureHash:
		claim, err := decodeClaimEvent(vLog.Data)
		if err != nil {
			return nil, &DecodeEventError{Signature: vLog.Topics[0], TxHash: vLog.TxHash, Err: err}
		}
		return &DecodedLog{Raw: vLog, Event: claim}, nil
	}
	return nil, &DecodeEventError{Signature: vLog.Topics[0], TxHash: vLog.TxHash, Err: ErrUnknownEvent}
}

func decodeDepositEvent(data []byte) (*Deposit, error) {
	values, err := bridgeEventsABI.Events["BridgeEvent"].Inputs.Unpack(data)
	if err != nil {
		return nil, err
	}
	return &Deposit{
		LeafType:           values[0].(uint8),
		OriginNetwork:      values[1].(uint32),
		OriginAddress:      values[2].(common.Address),
		DestinationNetwork: values[3].(uint32),
		DestinationAddress: values[4].(common.Address),
		Amount:             values[5].(*big.Int),
		Metadata:           values[6].([]byte),
		DepositCount:       values[7].(uint32),
	}, nil
}

func decodeClaimEvent(data []byte) (*Claim, error) {
	values, err := bridgeEventsABI.Events["ClaimEvent"].Inputs.Unpack(data)
	if err != nil {
		return nil, err
	}
	return &Claim{
		Index:              values[0].(uint32),
		OriginNetwork:      values[1].(uint32),
		OriginAddress:      values[2].(common.Address),
		DestinationAddress: values[3].(common.Address),
		Amount:             values[4].(*big.Int),
	}, nil
}

// GetBlocksTimestamps resolves the given block numbers to their timestamps in
// a single batched eth_getBlockByNumber request. Blocks unknown to the node
// are left out of the result.
func (c *Client) GetBlocksTimestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error) {
	timestamps := make(map[uint64]time.Time, len(blockNumbers))
	if len(blockNumbers) == 0 {
		return timestamps, nil
	}
	headers := make([]*types.Header, len(blockNumbers))
	batch := make([]rpc.BatchElem, len(blockNumbers))
	for i, blockNumber := range blockNumbers {
		batch[i] = rpc.BatchElem{
			Method: "eth_getBlockByNumber",
			Args:   []interface{}{hexutil.EncodeUint64(blockNumber), false},
			Result: &headers[i],
		}
	}
	err := c.rpc.BatchCallContext(ctx, batch)
	metrics.RecordRPCRequest("eth_getBlockByNumber", err == nil)
	if err != nil {
		return nil, err
	}
	for i, elem := range batch {
		if elem.Error != nil {
			return nil, fmt.Errorf("error getting block %d: %w", blockNumbers[i], elem.Error)
		}
		if headers[i] == nil {
			continue
		}
		timestamps[blockNumbers[i]] = time.Unix(int64(headers[i].Time), 0)
	}
	return timestamps, nil
}

// TokenSymbol reads the symbol of an ERC-20 token contract.
func (c *Client) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	values, err := c.callTokenMethod(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	return values[0].(string), nil
}

// TokenDecimals reads the decimals of an ERC-20 token contract.
func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	values, err := c.callTokenMethod(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	return values[0].(uint8), nil
}

func (c *Client) callTokenMethod(ctx context.Context, token common.Address, method string) ([]interface{}, error) {
	data, err := erc20ABI.Pack(method)
	if err != nil {
		return nil, err
	}
	res, err := c.EtherClient.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	metrics.RecordRPCRequest("eth_call", err == nil)
	if err != nil {
		return nil, err
	}
	values, err := erc20ABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("error unpacking %s() of token %s: %w", method, token, err)
	}
	return values, nil
}

// GetTxReceipt retrieves the receipt of a transaction.
func (c *Client) GetTxReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.EtherClient.TransactionReceipt(ctx, txHash)
	metrics.RecordRPCRequest("eth_getTransactionReceipt", err == nil)
	return receipt, err
}

// GetBatchDetails asks the rollup node for the lifecycle details of a batch.
// ErrNotFound is returned when the node does not know the batch yet.
func (c *Client) GetBatchDetails(ctx context.Context, number uint64) (*BatchDetails, error) {
	var details *BatchDetails
	err := c.rpc.CallContext(ctx, &details, "zks_getL1BatchDetails", number)
	metrics.RecordRPCRequest("zks_getL1BatchDetails", err == nil)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrNotFound
	}
	return details, nil
}

// GetLatestBatchNumber returns the number of the latest batch sealed on the
// rollup.
func (c *Client) GetLatestBatchNumber(ctx context.Context) (uint64, error) {
	var number hexutil.Uint64
	err := c.rpc.CallContext(ctx, &number, "zks_L1BatchNumber")
	metrics.RecordRPCRequest("zks_L1BatchNumber", err == nil)
	if err != nil {
		return 0, err
	}
	return uint64(number), nil
}
