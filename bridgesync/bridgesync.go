package bridgesync

import (
	"context"
	"errors"
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/Peersyst/blockscout/utils/gerror"
	"github.com/ethereum/go-ethereum/core/types"
)

// Synchronizer imports the bridge activity of one chain into the store.
type Synchronizer interface {
	Sync() error
	Stop()
}

// ClientSynchronizer reads bridge logs from one chain, runs them through the
// decode and resolve pipeline and imports the resulting operations.
type ClientSynchronizer struct {
	storage      storageInterface
	etherMan     localEtherMan
	l1EtherMan   tokenEtherMan
	ctx          context.Context
	cancelCtx    context.CancelFunc
	cfg          Config
	chain        ChainConfig
	networkID    uint
	isL1         bool
	synced       bool
	waitDuration time.Duration
}

// NewSynchronizer creates and initializes an instance of Synchronizer for one
// chain. isL1 decides the chain role, it is never inferred from ambient state.
func NewSynchronizer(storage storageInterface, etherMan localEtherMan, l1EtherMan tokenEtherMan, cfg Config, isL1 bool) *ClientSynchronizer {
	ctx, cancel := context.WithCancel(context.Background())
	chain := cfg.L2
	networkID := uint(1)
	if isL1 {
		chain = cfg.L1
		networkID = 0
	}
	return &ClientSynchronizer{
		storage:    storage,
		etherMan:   etherMan,
		l1EtherMan: l1EtherMan,
		ctx:        ctx,
		cancelCtx:  cancel,
		cfg:        cfg,
		chain:      chain,
		networkID:  networkID,
		isL1:       isL1,
	}
}

// Sync reads the last processed block and keeps importing bridge events from
// that point. It only returns once Stop is called.
func (s *ClientSynchronizer) Sync() error {
	log.Infof("networkID: %d, synchronization started", s.networkID)
	lastBlockSynced := s.resumePoint()
	log.Debugf("networkID: %d, initial lastBlockSynced: %d", s.networkID, lastBlockSynced)
	for {
		select {
		case <-s.ctx.Done():
			log.Debugf("networkID: %d, synchronizer ctx done", s.networkID)
			return nil
		case <-time.After(s.waitDuration):
			log.Debugf("networkID: %d, syncing...", s.networkID)
			var err error
			if lastBlockSynced, err = s.syncBlocks(lastBlockSynced); err != nil {
				log.Warnf("networkID: %d, error syncing blocks: %v", s.networkID, err)
				if s.ctx.Err() != nil {
					continue
				}
				lastBlockSynced = s.resumePoint()
			}
		}
	}
}

// Stop function stops the synchronizer
func (s *ClientSynchronizer) Stop() {
	s.cancelCtx()
}

// resumePoint returns the stored sync progress, or the configured genesis
// block when nothing was imported yet.
func (s *ClientSynchronizer) resumePoint() uint64 {
	lastBlockSynced, err := s.storage.GetLastProcessedBlock(s.ctx, s.networkID, nil)
	if err != nil {
		if errors.Is(err, gerror.ErrStorageNotFound) {
			log.Infof("networkID: %d, no sync progress stored. Using genesis block: %d", s.networkID, s.chain.GenBlockNumber)
			return s.chain.GenBlockNumber
		}
		log.Fatalf("networkID: %d, unexpected error getting the sync progress. Error: %v", s.networkID, err)
	}
	return lastBlockSynced
}

// syncBlocks imports bridge events from the block after lastBlockSynced up to
// the chain head, in chunks of SyncChunkSize blocks.
func (s *ClientSynchronizer) syncBlocks(lastBlockSynced uint64) (uint64, error) {
	var lastKnownBlock uint64
	err := etherman.RetryForever(s.ctx, "get latest block number", s.cfg.RetryInterval.Duration, func() error {
		var err error
		lastKnownBlock, err = s.etherMan.GetLatestBlockNumber(s.ctx)
		return err
	})
	if err != nil {
		return lastBlockSynced, err
	}

	fromBlock := lastBlockSynced + 1
	for fromBlock <= lastKnownBlock {
		toBlock := fromBlock + s.cfg.SyncChunkSize
		if toBlock > lastKnownBlock {
			toBlock = lastKnownBlock
		}
		log.Debugf("networkID: %d, getting bridge info from block %d to block %d", s.networkID, fromBlock, toBlock)
		if err := s.syncBlockRange(fromBlock, toBlock); err != nil {
			return lastBlockSynced, err
		}
		lastBlockSynced = toBlock
		fromBlock = toBlock + 1
	}
	if !s.synced {
		log.Infof("networkID: %d, synced", s.networkID)
		s.waitDuration = s.cfg.SyncInterval.Duration
		s.synced = true
	}
	return lastBlockSynced, nil
}

// syncBlockRange runs the pipeline over one block range and imports the
// outcome together with the new sync progress in a single db transaction.
func (s *ClientSynchronizer) syncBlockRange(fromBlock, toBlock uint64) error {
	var logs []types.Log
	err := etherman.RetryForever(s.ctx, "get bridge logs", s.cfg.RetryInterval.Duration, func() error {
		var err error
		logs, err = s.etherMan.GetBridgeLogs(s.ctx, s.chain.BridgeAddr, fromBlock, toBlock)
		return err
	})
	if err != nil {
		return err
	}

	operations, err := s.processLogs(logs)
	if err != nil {
		return err
	}

	dbTx, err := s.storage.BeginDBTransaction(s.ctx)
	if err != nil {
		log.Errorf("networkID: %d, error creating db transaction to store block range %d-%d. Error: %v",
			s.networkID, fromBlock, toBlock, err)
		return err
	}
	if err := s.storage.AddOperations(s.ctx, operations, dbTx); err != nil {
		log.Errorf("networkID: %d, error storing operations for block range %d-%d. Error: %v",
			s.networkID, fromBlock, toBlock, err)
		rollbackErr := s.storage.Rollback(s.ctx, dbTx)
		if rollbackErr != nil {
			log.Errorf("networkID: %d, error rolling back the operations import for block range %d-%d. rollbackErr: %v, err: %s",
				s.networkID, fromBlock, toBlock, rollbackErr, err.Error())
			return rollbackErr
		}
		return err
	}
	if err := s.storage.SetLastProcessedBlock(s.ctx, s.networkID, toBlock, dbTx); err != nil {
		log.Errorf("networkID: %d, error storing sync progress for block range %d-%d. Error: %v",
			s.networkID, fromBlock, toBlock, err)
		rollbackErr := s.storage.Rollback(s.ctx, dbTx)
		if rollbackErr != nil {
			log.Errorf("networkID: %d, error rolling back the sync progress for block range %d-%d. rollbackErr: %v, err: %s",
				s.networkID, fromBlock, toBlock, rollbackErr, err.Error())
			return rollbackErr
		}
		return err
	}
	if err := s.storage.Commit(s.ctx, dbTx); err != nil {
		log.Errorf("networkID: %d, error committing block range %d-%d. Error: %v",
			s.networkID, fromBlock, toBlock, err)
		rollbackErr := s.storage.Rollback(s.ctx, dbTx)
		if rollbackErr != nil {
			log.Errorf("networkID: %d, error rolling back block range %d-%d. rollbackErr: %v, err: %s",
				s.networkID, fromBlock, toBlock, rollbackErr, err.Error())
			return rollbackErr
		}
		return err
	}

	if len(operations) > 0 {
		log.Infof("networkID: %d, imported %d operations from block range %d-%d", s.networkID, len(operations), fromBlock, toBlock)
		for _, operation := range operations {
			metrics.RecordSyncedOperation(s.networkLabel(), string(operation.Type))
		}
	}
	metrics.RecordLastProcessedBlock(s.networkLabel(), toBlock)
	return nil
}

// processLogs turns raw chain logs into operations ready for import.
func (s *ClientSynchronizer) processLogs(logs []types.Log) ([]*etherman.Operation, error) {
	filtered := etherman.FilterBridgeLogs(logs, s.chain.BridgeAddr)
	decoded := make([]*etherman.DecodedLog, 0, len(filtered))
	for _, vLog := range filtered {
		d, err := etherman.DecodeBridgeLog(vLog)
		if err != nil {
			// A malformed event is dropped on its own, its siblings still count.
			log.Errorf("networkID: %d, error decoding bridge log in tx %s. Skipping event. Error: %v",
				s.networkID, vLog.TxHash, err)
			continue
		}
		decoded = append(decoded, d)
	}

	tokenIDs, err := s.resolveTokens(decoded)
	if err != nil {
		return nil, err
	}
	timestamps := s.resolveBlocksTimestamps(decoded)
	return s.buildOperations(decoded, tokenIDs, timestamps), nil
}

func (s *ClientSynchronizer) networkLabel() string {
	if s.isL1 {
		return "l1"
	}
	return "l2"
}
