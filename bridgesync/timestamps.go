package bridgesync

import (
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
)

// resolveBlocksTimestamps fetches the timestamps of the blocks holding the
// decoded deposits. Only a canceled context stops the fetch, and then the
// returned map is empty so the operations carry no timestamp instead of a
// stale one.
func (s *ClientSynchronizer) resolveBlocksTimestamps(decoded []*etherman.DecodedLog) map[uint64]time.Time {
	var blockNumbers []uint64
	seen := make(map[uint64]bool)
	for _, d := range decoded {
		if _, ok := d.Event.(*etherman.Deposit); !ok {
			continue
		}
		if seen[d.Raw.BlockNumber] {
			continue
		}
		seen[d.Raw.BlockNumber] = true
		blockNumbers = append(blockNumbers, d.Raw.BlockNumber)
	}
	if len(blockNumbers) == 0 {
		return map[uint64]time.Time{}
	}

	var timestamps map[uint64]time.Time
	err := etherman.RetryForever(s.ctx, "get blocks timestamps", s.cfg.RetryInterval.Duration, func() error {
		var err error
		timestamps, err = s.etherMan.GetBlocksTimestamps(s.ctx, blockNumbers)
		return err
	})
	if err != nil {
		log.Debugf("networkID: %d, timestamp resolution stopped: %v", s.networkID, err)
		return map[uint64]time.Time{}
	}
	return timestamps
}
