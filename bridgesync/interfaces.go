package bridgesync

import (
	"context"
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackc/pgx/v4"
)

type localEtherMan interface {
	GetLatestBlockNumber(ctx context.Context) (uint64, error)
	GetBridgeLogs(ctx context.Context, bridgeAddr common.Address, fromBlock, toBlock uint64) ([]types.Log, error)
	GetBlocksTimestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error)
}

// tokenEtherMan reads ERC-20 metadata. Token contracts live on L1, so both
// synchronizers share the L1 client here.
type tokenEtherMan interface {
	TokenSymbol(ctx context.Context, tokenAddr common.Address) (string, error)
	TokenDecimals(ctx context.Context, tokenAddr common.Address) (uint8, error)
}

// storageInterface gathers the methods required to interact with the state.
type storageInterface interface {
	BeginDBTransaction(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, dbTx pgx.Tx) error
	Rollback(ctx context.Context, dbTx pgx.Tx) error
	GetLastProcessedBlock(ctx context.Context, networkID uint, dbTx pgx.Tx) (uint64, error)
	SetLastProcessedBlock(ctx context.Context, networkID uint, blockNumber uint64, dbTx pgx.Tx) error
	GetTokensByAddresses(ctx context.Context, addresses []common.Address, dbTx pgx.Tx) ([]*etherman.Token, error)
	AddTokens(ctx context.Context, tokens []*etherman.Token, dbTx pgx.Tx) ([]*etherman.Token, error)
	AddOperations(ctx context.Context, operations []*etherman.Operation, dbTx pgx.Tx) error
}
