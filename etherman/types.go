package etherman

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Leaf types carried by the deposit events emitted by the bridge contract.
const (
	// LeafTypeAsset represents a bridge asset transfer
	LeafTypeAsset uint8 = 0
	// LeafTypeMessage represents a bridge message
	LeafTypeMessage uint8 = 1
)

const (
	// mainnetNetworkID identifies the base chain in the origin network field
	mainnetNetworkID uint32 = 0
	// rollupNetworkID identifies the rollup chain in the origin network field
	rollupNetworkID uint32 = 1
)

// OperationType classifies a bridge operation record.
type OperationType string

// Operation types stored for bridge events.
const (
	OpDeposit    OperationType = "deposit"
	OpWithdrawal OperationType = "withdrawal"
	OpClaim      OperationType = "claim"
)

// BatchStatus is the lifecycle state of a rollup batch.
type BatchStatus string

// Batch lifecycle states, strictly advancing in this order.
const (
	BatchSealed    BatchStatus = "sealed"
	BatchCommitted BatchStatus = "committed"
	BatchProven    BatchStatus = "proven"
	BatchExecuted  BatchStatus = "executed"
)

// Event is the decoded payload of a recognized bridge contract log. Deposit
// and Claim are the only implementations.
type Event interface {
	isEvent()
}

// Deposit struct
type Deposit struct {
	LeafType           uint8
	OriginNetwork      uint32
	OriginAddress      common.Address
	DestinationNetwork uint32
	DestinationAddress common.Address
	Amount             *big.Int
	Metadata           []byte
	DepositCount       uint32
}

// Claim struct
type Claim struct {
	Index              uint32
	OriginNetwork      uint32
	OriginAddress      common.Address
	DestinationAddress common.Address
	Amount             *big.Int
}

func (*Deposit) isEvent() {}
func (*Claim) isEvent()   {}

// DecodedLog pairs a raw bridge log with its decoded event payload.
type DecodedLog struct {
	Raw   types.Log
	Event Event
}

// TokenRef points at the chain-local address of a bridged token. At most one
// side is set; events that carry no resolvable token yield the zero TokenRef.
type TokenRef struct {
	l1 *common.Address
	l2 *common.Address
}

// L1 returns the token address on the base chain, if any.
func (t TokenRef) L1() (common.Address, bool) {
	if t.l1 == nil {
		return common.Address{}, false
	}
	return *t.l1, true
}

// L2 returns the token address on the rollup chain, if any.
func (t TokenRef) L2() (common.Address, bool) {
	if t.l2 == nil {
		return common.Address{}, false
	}
	return *t.l2, true
}

// Token derives the token reference of the deposit: tokens originating on
// network 0 live on L1, tokens originating on network 1 on the rollup.
// Message leaves, foreign origin networks and the burn address carry no
// resolvable token.
func (d *Deposit) Token() TokenRef {
	if d.LeafType == LeafTypeMessage || d.OriginNetwork > rollupNetworkID {
		return TokenRef{}
	}
	if d.OriginAddress == (common.Address{}) {
		return TokenRef{}
	}
	addr := d.OriginAddress
	if d.OriginNetwork == mainnetNetworkID {
		return TokenRef{l1: &addr}
	}
	return TokenRef{l2: &addr}
}

// Token is an L1 ERC-20 token sighted by the bridge. Symbol and Decimals stay
// nil when the on-chain reads failed; ID is assigned by the storage on first
// insert.
type Token struct {
	ID       uint64
	Address  common.Address
	Symbol   *string
	Decimals *uint8
}

// Operation is the canonical record of one bridge movement as observed from
// one chain. Exactly one of L1TxHash and L2TxHash is set; the other optional
// fields stay nil when the event kind carries no enrichment.
type Operation struct {
	Type           OperationType
	Index          uint32
	Amount         *big.Int
	L1TokenID      *uint64
	L2TokenAddress *common.Address
	L1TxHash       *common.Hash
	L2TxHash       *common.Hash
	BlockNumber    *uint64
	BlockTimestamp *time.Time
}

// Batch tracks the lifecycle of one rollup batch against its L1 marker
// transactions.
type Batch struct {
	Number      uint64
	Status      BatchStatus
	CommitTxID  *uint64
	ProveTxID   *uint64
	ExecuteTxID *uint64
}

// L1Transaction is a base chain transaction referenced by batch transitions.
type L1Transaction struct {
	ID   uint64
	Hash common.Hash
}

// BatchDetails is the rollup node's view of one batch lifecycle. The marker
// transaction hashes stay nil until the corresponding L1 transaction is sent.
type BatchDetails struct {
	Number        uint64       `json:"number"`
	Timestamp     uint64       `json:"timestamp"`
	CommitTxHash  *common.Hash `json:"commitTxHash"`
	ProveTxHash   *common.Hash `json:"proveTxHash"`
	ExecuteTxHash *common.Hash `json:"executeTxHash"`
}
