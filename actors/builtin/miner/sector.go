package miner

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
)

// Information stored on-chain for a proven sector, restricted to what its power and termination fee depend on.
type SectorOnChainInfo struct {
	Activation            abi.ChainEpoch  // Epoch during which the sector proof was accepted
	Expiration            abi.ChainEpoch  // Epoch during which the sector expires
	DealWeight            abi.DealWeight  // Integral of active deals over sector lifetime
	VerifiedDealWeight    abi.DealWeight  // Integral of active verified deals over sector lifetime
	ExpectedDayReward     abi.TokenAmount // Expected one day projection of reward for sector computed at activation time
	ExpectedStoragePledge abi.TokenAmount // Expected twenty day projection of reward for sector computed at activation time
	PowerBaseEpoch        abi.ChainEpoch  // Epoch from which the current power and expected rewards are measured
	ReplacedDayReward     abi.TokenAmount // Day reward of sector this sector replaced or zero
}

// A new sector record with no deals, no replacement, and power based at activation.
func NewSectorOnChainInfo(activation, expiration abi.ChainEpoch, dayReward, storagePledge abi.TokenAmount) *SectorOnChainInfo {
	return &SectorOnChainInfo{
		Activation:            activation,
		Expiration:            expiration,
		DealWeight:            big.Zero(),
		VerifiedDealWeight:    big.Zero(),
		ExpectedDayReward:     dayReward,
		ExpectedStoragePledge: storagePledge,
		PowerBaseEpoch:        activation,
		ReplacedDayReward:     big.Zero(),
	}
}

// Epochs elapsed at currEpoch since the sector's power was last based.
func (s *SectorOnChainInfo) Age(currEpoch abi.ChainEpoch) abi.ChainEpoch {
	return currEpoch - s.PowerBaseEpoch
}

// Epochs the sector was alive before its power was re-based, attributed to the replaced sector.
func (s *SectorOnChainInfo) ReplacedAge() abi.ChainEpoch {
	return s.PowerBaseEpoch - s.Activation
}

// Epochs over which the sector's power is committed.
func (s *SectorOnChainInfo) PowerDuration() abi.ChainEpoch {
	return s.Expiration - s.PowerBaseEpoch
}
