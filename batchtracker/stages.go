package batchtracker

import (
	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Marker events emitted on L1 by the rollup contract, one per lifecycle
// stage. The batch number is the first indexed topic of each.
var (
	blockCommitSignatureHash       = crypto.Keccak256Hash([]byte("BlockCommit(uint256,bytes32,bytes32)"))
	blockVerificationSignatureHash = crypto.Keccak256Hash([]byte("BlockVerification(uint256,bytes32)"))
	blockExecutionSignatureHash    = crypto.Keccak256Hash([]byte("BlockExecution(uint256,bytes32,bytes32)"))
)

// Stage is one lifecycle transition of a rollup batch.
type Stage string

// Lifecycle stages, in order.
const (
	StageCommit  Stage = "commit"
	StageProve   Stage = "prove"
	StageExecute Stage = "execute"
)

var stages = []Stage{StageCommit, StageProve, StageExecute}

// pendingStatus returns the status a batch holds while awaiting this stage.
func (s Stage) pendingStatus() etherman.BatchStatus {
	switch s {
	case StageCommit:
		return etherman.BatchSealed
	case StageProve:
		return etherman.BatchCommitted
	default:
		return etherman.BatchProven
	}
}

// targetStatus returns the status this stage transitions a batch into.
func (s Stage) targetStatus() etherman.BatchStatus {
	switch s {
	case StageCommit:
		return etherman.BatchCommitted
	case StageProve:
		return etherman.BatchProven
	default:
		return etherman.BatchExecuted
	}
}

// topic returns the L1 log signature announcing this stage.
func (s Stage) topic() common.Hash {
	switch s {
	case StageCommit:
		return blockCommitSignatureHash
	case StageProve:
		return blockVerificationSignatureHash
	default:
		return blockExecutionSignatureHash
	}
}

// markerTx returns the L1 transaction that performed this stage for the
// batch, if the rollup node reported it already.
func (s Stage) markerTx(details *etherman.BatchDetails) *common.Hash {
	switch s {
	case StageCommit:
		return details.CommitTxHash
	case StageProve:
		return details.ProveTxHash
	default:
		return details.ExecuteTxHash
	}
}
