package miner

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/filecoin-project/sector-penalty/actors/builtin"
)

type SectorStateSummary struct {
	Quality abi.SectorQuality
	QAPower abi.StoragePower
}

// Checks the internal consistency of a sector record.
// The summary is nil if the record is too malformed to derive a power from.
func CheckSectorInvariants(sector *SectorOnChainInfo, sectorSize abi.SectorSize) (*SectorStateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}

	if err := ValidateSectorSize(sectorSize); err != nil {
		acc.Addf("sector size: %s", err)
	}
	if sector == nil {
		acc.Add("sector is nil")
		return nil, acc
	}

	amounts := []struct {
		name  string
		value big.Int
	}{
		{"deal weight", sector.DealWeight},
		{"verified deal weight", sector.VerifiedDealWeight},
		{"expected day reward", sector.ExpectedDayReward},
		{"expected storage pledge", sector.ExpectedStoragePledge},
		{"replaced day reward", sector.ReplacedDayReward},
	}
	for _, a := range amounts {
		if a.value.Nil() {
			acc.Addf("%s is unset", a.name)
			continue
		}
		acc.Require(!a.value.LessThan(big.Zero()), "%s %v is negative", a.name, a.value)
	}
	if !acc.IsEmpty() {
		return nil, acc
	}

	acc.Require(sector.Activation <= sector.PowerBaseEpoch, "power base epoch %d before activation %d",
		sector.PowerBaseEpoch, sector.Activation)
	acc.Require(sector.PowerDuration() > 0, "expiration %d not after power base epoch %d",
		sector.Expiration, sector.PowerBaseEpoch)
	if sector.PowerDuration() <= 0 {
		return nil, acc
	}

	spaceTime := big.Mul(big.NewIntUnsigned(uint64(sectorSize)), big.NewInt(int64(sector.PowerDuration())))
	dealSpaceTime := big.Add(sector.DealWeight, sector.VerifiedDealWeight)
	acc.Require(dealSpaceTime.LessThanEqual(spaceTime), "deal weights %v exceed sector space-time %v",
		dealSpaceTime, spaceTime)

	quality := QualityForWeight(sectorSize, sector.PowerDuration(), sector.DealWeight, sector.VerifiedDealWeight)
	qaPower := QAPowerForSector(sectorSize, sector)
	acc.Require(qaPower.LessThanEqual(QAPowerMax(sectorSize)), "qa power %v exceeds maximum %v for size %d",
		qaPower, QAPowerMax(sectorSize), sectorSize)
	acc.Require(qaPower.GreaterThanEqual(big.NewIntUnsigned(uint64(sectorSize))) || dealSpaceTime.GreaterThan(spaceTime),
		"qa power %v below raw size %d", qaPower, sectorSize)

	return &SectorStateSummary{
		Quality: quality,
		QAPower: qaPower,
	}, acc
}
