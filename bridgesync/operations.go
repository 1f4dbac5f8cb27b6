package bridgesync

import (
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// buildOperations maps each decoded event to its operation record as seen
// from this chain.
func (s *ClientSynchronizer) buildOperations(decoded []*etherman.DecodedLog, tokenIDs map[common.Address]uint64, timestamps map[uint64]time.Time) []*etherman.Operation {
	operations := make([]*etherman.Operation, 0, len(decoded))
	for _, d := range decoded {
		switch event := d.Event.(type) {
		case *etherman.Deposit:
			operations = append(operations, s.buildDepositOperation(event, d.Raw, tokenIDs, timestamps))
		case *etherman.Claim:
			operations = append(operations, s.buildClaimOperation(event, d.Raw))
		}
	}
	return operations
}

// buildDepositOperation records a deposit event. On L1 the event opens a
// deposit, on the rollup the same event shape opens a withdrawal.
func (s *ClientSynchronizer) buildDepositOperation(deposit *etherman.Deposit, raw types.Log, tokenIDs map[common.Address]uint64, timestamps map[uint64]time.Time) *etherman.Operation {
	operation := &etherman.Operation{
		Type:   etherman.OpWithdrawal,
		Index:  deposit.DepositCount,
		Amount: deposit.Amount,
	}
	if s.isL1 {
		operation.Type = etherman.OpDeposit
	}
	tokenRef := deposit.Token()
	if addr, ok := tokenRef.L1(); ok {
		if id, ok := tokenIDs[addr]; ok {
			operation.L1TokenID = &id
		}
	}
	if addr, ok := tokenRef.L2(); ok {
		l2Addr := addr
		operation.L2TokenAddress = &l2Addr
	}
	blockNumber := raw.BlockNumber
	operation.BlockNumber = &blockNumber
	if ts, ok := timestamps[raw.BlockNumber]; ok {
		t := ts
		operation.BlockTimestamp = &t
	}
	s.tagTxHash(operation, raw.TxHash)
	return operation
}

// buildClaimOperation records a claim event, the completion side of a
// transfer. Claim events carry no token or block enrichment.
func (s *ClientSynchronizer) buildClaimOperation(claim *etherman.Claim, raw types.Log) *etherman.Operation {
	operation := &etherman.Operation{
		Type:   etherman.OpDeposit,
		Index:  claim.Index,
		Amount: claim.Amount,
	}
	if s.isL1 {
		operation.Type = etherman.OpWithdrawal
	}
	s.tagTxHash(operation, raw.TxHash)
	return operation
}

// tagTxHash stores the observing chain's transaction hash on the operation.
// Exactly one side is ever set.
func (s *ClientSynchronizer) tagTxHash(operation *etherman.Operation, txHash common.Hash) {
	hash := txHash
	if s.isL1 {
		operation.L1TxHash = &hash
	} else {
		operation.L2TxHash = &hash
	}
}
