package bridgesync

import (
	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/ethereum/go-ethereum/common"
)

// addressSet is an address set with deterministic iteration order, first
// sighting wins.
type addressSet struct {
	order []common.Address
	seen  map[common.Address]bool
}

func newAddressSet() *addressSet {
	return &addressSet{seen: make(map[common.Address]bool)}
}

func (s *addressSet) add(addr common.Address) {
	if s.seen[addr] {
		return
	}
	s.seen[addr] = true
	s.order = append(s.order, addr)
}

// resolveTokens maps the L1 token addresses referenced by the decoded
// deposits to store ids, registering the tokens the store does not know yet.
func (s *ClientSynchronizer) resolveTokens(decoded []*etherman.DecodedLog) (map[common.Address]uint64, error) {
	requested := newAddressSet()
	for _, d := range decoded {
		deposit, ok := d.Event.(*etherman.Deposit)
		if !ok {
			continue
		}
		if addr, ok := deposit.Token().L1(); ok {
			requested.add(addr)
		}
	}
	tokenIDs := make(map[common.Address]uint64)
	if len(requested.order) == 0 {
		return tokenIDs, nil
	}

	known, err := s.storage.GetTokensByAddresses(s.ctx, requested.order, nil)
	if err != nil {
		return nil, err
	}
	for _, token := range known {
		tokenIDs[token.Address] = token.ID
	}

	var missing []*etherman.Token
	for _, addr := range requested.order {
		if _, ok := tokenIDs[addr]; ok {
			continue
		}
		missing = append(missing, s.fetchTokenMetadata(addr))
	}
	if len(missing) == 0 {
		return tokenIDs, nil
	}

	inserted, err := s.storage.AddTokens(s.ctx, missing, nil)
	if err != nil {
		return nil, err
	}
	for _, token := range inserted {
		tokenIDs[token.Address] = token.ID
	}

	// Another sync process can register the same token between the lookup and
	// the insert. Re-query the addresses the insert skipped.
	var skipped []common.Address
	for _, token := range missing {
		if _, ok := tokenIDs[token.Address]; !ok {
			skipped = append(skipped, token.Address)
		}
	}
	if len(skipped) > 0 {
		raced, err := s.storage.GetTokensByAddresses(s.ctx, skipped, nil)
		if err != nil {
			return nil, err
		}
		for _, token := range raced {
			tokenIDs[token.Address] = token.ID
		}
	}
	return tokenIDs, nil
}

// fetchTokenMetadata reads symbol and decimals from the token contract on L1.
// A failed read leaves the field unset, the token is registered anyway.
func (s *ClientSynchronizer) fetchTokenMetadata(addr common.Address) *etherman.Token {
	token := &etherman.Token{Address: addr}

	var symbol string
	err := etherman.Retry(s.ctx, "token symbol", s.cfg.TokenRetryAttempts, s.cfg.TokenRetryInterval.Duration, func() error {
		var err error
		symbol, err = s.l1EtherMan.TokenSymbol(s.ctx, addr)
		return err
	})
	if err != nil {
		log.Warnf("networkID: %d, error reading symbol of token %s: %v", s.networkID, addr.String(), err)
	} else {
		token.Symbol = &symbol
	}

	var decimals uint8
	err = etherman.Retry(s.ctx, "token decimals", s.cfg.TokenRetryAttempts, s.cfg.TokenRetryInterval.Duration, func() error {
		var err error
		decimals, err = s.l1EtherMan.TokenDecimals(s.ctx, addr)
		return err
	})
	if err != nil {
		log.Warnf("networkID: %d, error reading decimals of token %s: %v", s.networkID, addr.String(), err)
	} else {
		token.Decimals = &decimals
	}
	return token
}
