package pgstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/utils/gerror"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lib/pq"
)

// PostgresStorage implements the Storage interface
type PostgresStorage struct {
	*pgxpool.Pool
}

type execQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (commandTag pgconn.CommandTag, err error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// NewPostgresStorage creates a new Storage DB
func NewPostgresStorage(cfg Config) (*PostgresStorage, error) {
	log.Debugf("Create PostgresStorage with Config: %v", cfg)
	config, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s?pool_max_conns=%d", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.MaxConns))
	if err != nil {
		log.Errorf("Unable to parse DB config: %v", err)
		return nil, err
	}
	db, err := pgxpool.ConnectConfig(context.Background(), config)
	if err != nil {
		log.Errorf("Unable to connect to database: %v", err)
		return nil, err
	}
	return &PostgresStorage{db}, nil
}

// getExecQuerier determines which execQuerier to use, dbTx or the main pgxpool
func (p *PostgresStorage) getExecQuerier(dbTx pgx.Tx) execQuerier {
	if dbTx != nil {
		return dbTx
	}
	return p
}

// BeginDBTransaction starts a transaction block.
func (p *PostgresStorage) BeginDBTransaction(ctx context.Context) (pgx.Tx, error) {
	return p.Begin(ctx)
}

// Commit commits a db transaction.
func (p *PostgresStorage) Commit(ctx context.Context, dbTx pgx.Tx) error {
	if dbTx != nil {
		return dbTx.Commit(ctx)
	}
	return gerror.ErrNilDBTransaction
}

// Rollback rollbacks a db transaction.
func (p *PostgresStorage) Rollback(ctx context.Context, dbTx pgx.Tx) error {
	if dbTx != nil {
		return dbTx.Rollback(ctx)
	}
	return gerror.ErrNilDBTransaction
}

// GetLastProcessedBlock gets the sync progress of the given chain.
func (p *PostgresStorage) GetLastProcessedBlock(ctx context.Context, networkID uint, dbTx pgx.Tx) (uint64, error) {
	var blockNumber uint64
	const getProgressSQL = "SELECT block_num FROM sync.sync_progress WHERE network_id = $1"

	e := p.getExecQuerier(dbTx)
	err := e.QueryRow(ctx, getProgressSQL, networkID).Scan(&blockNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, gerror.ErrStorageNotFound
	}
	return blockNumber, err
}

// SetLastProcessedBlock stores the sync progress of the given chain.
func (p *PostgresStorage) SetLastProcessedBlock(ctx context.Context, networkID uint, blockNumber uint64, dbTx pgx.Tx) error {
	const setProgressSQL = `
		INSERT INTO sync.sync_progress (network_id, block_num) VALUES ($1, $2)
		ON CONFLICT (network_id) DO UPDATE SET block_num = EXCLUDED.block_num`

	e := p.getExecQuerier(dbTx)
	_, err := e.Exec(ctx, setProgressSQL, networkID, blockNumber)
	return err
}

// GetTokensByAddresses gets the stored tokens matching the given addresses.
func (p *PostgresStorage) GetTokensByAddresses(ctx context.Context, addresses []common.Address, dbTx pgx.Tx) ([]*etherman.Token, error) {
	const getTokensSQL = "SELECT id, address, symbol, decimals FROM sync.token WHERE address = ANY($1)"

	e := p.getExecQuerier(dbTx)
	rows, err := e.Query(ctx, getTokensSQL, pq.Array(addressesToBytes(addresses)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*etherman.Token
	for rows.Next() {
		var token etherman.Token
		if err := rows.Scan(&token.ID, &token.Address, &token.Symbol, &token.Decimals); err != nil {
			return nil, err
		}
		tokens = append(tokens, &token)
	}
	return tokens, rows.Err()
}

// AddTokens inserts the given tokens, skipping addresses already present, and
// returns the rows this call inserted with their assigned ids.
func (p *PostgresStorage) AddTokens(ctx context.Context, tokens []*etherman.Token, dbTx pgx.Tx) ([]*etherman.Token, error) {
	const addTokenSQL = `
		INSERT INTO sync.token (address, symbol, decimals) VALUES ($1, $2, $3)
		ON CONFLICT (address) DO NOTHING RETURNING id`

	e := p.getExecQuerier(dbTx)
	var inserted []*etherman.Token
	for _, token := range tokens {
		var id uint64
		err := e.QueryRow(ctx, addTokenSQL, token.Address, token.Symbol, token.Decimals).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, &etherman.Token{ID: id, Address: token.Address, Symbol: token.Symbol, Decimals: token.Decimals})
	}
	return inserted, nil
}

// AddOperations imports a page of operations. A conflicting row merges with
// the incoming one, keeping the already known fields and filling the missing
// side.
func (p *PostgresStorage) AddOperations(ctx context.Context, operations []*etherman.Operation, dbTx pgx.Tx) error {
	const addOperationSQL = `
		INSERT INTO sync.operation (type, index, amount, l1_token_id, l2_token_address, l1_tx_hash, l2_tx_hash, block_num, block_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (type, index) DO UPDATE SET
			amount = EXCLUDED.amount,
			l1_token_id = COALESCE(operation.l1_token_id, EXCLUDED.l1_token_id),
			l2_token_address = COALESCE(operation.l2_token_address, EXCLUDED.l2_token_address),
			l1_tx_hash = COALESCE(operation.l1_tx_hash, EXCLUDED.l1_tx_hash),
			l2_tx_hash = COALESCE(operation.l2_tx_hash, EXCLUDED.l2_tx_hash),
			block_num = COALESCE(operation.block_num, EXCLUDED.block_num),
			block_timestamp = COALESCE(operation.block_timestamp, EXCLUDED.block_timestamp)`

	e := p.getExecQuerier(dbTx)
	for _, operation := range operations {
		_, err := e.Exec(ctx, addOperationSQL, operation.Type, operation.Index, operation.Amount.String(),
			operation.L1TokenID, operation.L2TokenAddress, operation.L1TxHash, operation.L2TxHash,
			operation.BlockNumber, operation.BlockTimestamp)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetLatestBatchNumber gets the highest batch number known locally.
func (p *PostgresStorage) GetLatestBatchNumber(ctx context.Context, dbTx pgx.Tx) (uint64, error) {
	var batchNumber uint64
	const getLatestBatchSQL = "SELECT batch_num FROM sync.batch ORDER BY batch_num DESC LIMIT 1"

	e := p.getExecQuerier(dbTx)
	err := e.QueryRow(ctx, getLatestBatchSQL).Scan(&batchNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, gerror.ErrStorageNotFound
	}
	return batchNumber, err
}

// GetEarliestPendingBatch gets the lowest batch number still in the given
// status.
func (p *PostgresStorage) GetEarliestPendingBatch(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) (uint64, error) {
	var batchNumber uint64
	const getEarliestPendingSQL = "SELECT batch_num FROM sync.batch WHERE status = $1 ORDER BY batch_num ASC LIMIT 1"

	e := p.getExecQuerier(dbTx)
	err := e.QueryRow(ctx, getEarliestPendingSQL, status).Scan(&batchNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, gerror.ErrStorageNotFound
	}
	return batchNumber, err
}

// GetPendingBatches lists the batch numbers in the given status, ascending.
func (p *PostgresStorage) GetPendingBatches(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) ([]uint64, error) {
	const getPendingBatchesSQL = "SELECT batch_num FROM sync.batch WHERE status = $1 ORDER BY batch_num ASC"

	e := p.getExecQuerier(dbTx)
	rows, err := e.Query(ctx, getPendingBatchesSQL, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []uint64
	for rows.Next() {
		var number uint64
		if err := rows.Scan(&number); err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	return numbers, rows.Err()
}

// GetBatchesByNumbers gets the batches with the given numbers, ascending.
func (p *PostgresStorage) GetBatchesByNumbers(ctx context.Context, numbers []uint64, dbTx pgx.Tx) ([]*etherman.Batch, error) {
	const getBatchesSQL = `
		SELECT batch_num, status, commit_tx_id, prove_tx_id, execute_tx_id
		FROM sync.batch WHERE batch_num = ANY($1) ORDER BY batch_num ASC`

	e := p.getExecQuerier(dbTx)
	rows, err := e.Query(ctx, getBatchesSQL, pq.Array(numbersToInt64(numbers)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*etherman.Batch
	for rows.Next() {
		var batch etherman.Batch
		if err := rows.Scan(&batch.Number, &batch.Status, &batch.CommitTxID, &batch.ProveTxID, &batch.ExecuteTxID); err != nil {
			return nil, err
		}
		batches = append(batches, &batch)
	}
	return batches, rows.Err()
}

// AddBatches inserts the given batch numbers in the given status. Numbers
// already present are left untouched.
func (p *PostgresStorage) AddBatches(ctx context.Context, numbers []uint64, status etherman.BatchStatus, dbTx pgx.Tx) error {
	const addBatchSQL = "INSERT INTO sync.batch (batch_num, status) VALUES ($1, $2) ON CONFLICT (batch_num) DO NOTHING"

	e := p.getExecQuerier(dbTx)
	for _, number := range numbers {
		if _, err := e.Exec(ctx, addBatchSQL, number, status); err != nil {
			return err
		}
	}
	return nil
}

// UpsertBatch stores the batch, replacing any previous row for its number.
func (p *PostgresStorage) UpsertBatch(ctx context.Context, batch *etherman.Batch, dbTx pgx.Tx) error {
	const upsertBatchSQL = `
		INSERT INTO sync.batch (batch_num, status, commit_tx_id, prove_tx_id, execute_tx_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (batch_num) DO UPDATE SET
			status = EXCLUDED.status,
			commit_tx_id = EXCLUDED.commit_tx_id,
			prove_tx_id = EXCLUDED.prove_tx_id,
			execute_tx_id = EXCLUDED.execute_tx_id`

	e := p.getExecQuerier(dbTx)
	_, err := e.Exec(ctx, upsertBatchSQL, batch.Number, batch.Status, batch.CommitTxID, batch.ProveTxID, batch.ExecuteTxID)
	return err
}

// AddL1Transaction stores an L1 transaction hash and returns its row id. The
// insert is idempotent, a repeated hash returns the existing id.
func (p *PostgresStorage) AddL1Transaction(ctx context.Context, hash common.Hash, dbTx pgx.Tx) (uint64, error) {
	const addL1TxSQL = "INSERT INTO sync.l1_transaction (hash) VALUES ($1) ON CONFLICT (hash) DO NOTHING RETURNING id"
	const getL1TxSQL = "SELECT id FROM sync.l1_transaction WHERE hash = $1"

	e := p.getExecQuerier(dbTx)
	var id uint64
	err := e.QueryRow(ctx, addL1TxSQL, hash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = e.QueryRow(ctx, getL1TxSQL, hash).Scan(&id)
	}
	return id, err
}

// UpdateBatchesStatus advances the given batches to status and records the
// stage transaction that caused the transition.
func (p *PostgresStorage) UpdateBatchesStatus(ctx context.Context, numbers []uint64, status etherman.BatchStatus, txID uint64, dbTx pgx.Tx) error {
	var column string
	switch status {
	case etherman.BatchCommitted:
		column = "commit_tx_id"
	case etherman.BatchProven:
		column = "prove_tx_id"
	case etherman.BatchExecuted:
		column = "execute_tx_id"
	default:
		return fmt.Errorf("no stage transaction column for batch status %s", status)
	}
	updateBatchesSQL := fmt.Sprintf("UPDATE sync.batch SET status = $1, %s = $2 WHERE batch_num = ANY($3)", column)

	e := p.getExecQuerier(dbTx)
	_, err := e.Exec(ctx, updateBatchesSQL, status, txID, pq.Array(numbersToInt64(numbers)))
	return err
}

func addressesToBytes(addresses []common.Address) [][]byte {
	b := make([][]byte, 0, len(addresses))
	for _, address := range addresses {
		b = append(b, address.Bytes())
	}
	return b
}

func numbersToInt64(numbers []uint64) []int64 {
	n := make([]int64, 0, len(numbers))
	for _, number := range numbers {
		n = append(n, int64(number))
	}
	return n
}
