package miner

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/filecoin-project/sector-penalty/actors/util/smoothing"
)

// Computes the fee owed for terminating a sector at currEpoch, given the network's smoothed
// power and reward estimates at that epoch.
// The sector's quality-adjusted power is derived from its size and deal weights over its power duration.
// Records that would yield a negative age or a non-positive power duration are rejected.
func TerminationPenaltyForSector(currEpoch abi.ChainEpoch, sectorSize abi.SectorSize, sector *SectorOnChainInfo,
	networkQAPowerEstimate, rewardEstimate smoothing.FilterEstimate,
) (abi.TokenAmount, error) {
	if err := validateForTermination(currEpoch, sectorSize, sector); err != nil {
		return abi.TokenAmount{}, err
	}

	qaPower := QAPowerForSector(sectorSize, sector)
	return PledgePenaltyForTermination(
		sector.ExpectedDayReward,
		sector.Age(currEpoch),
		sector.ExpectedStoragePledge,
		networkQAPowerEstimate,
		qaPower,
		rewardEstimate,
		sector.ReplacedDayReward,
		sector.ReplacedAge(),
	), nil
}

func validateForTermination(currEpoch abi.ChainEpoch, sectorSize abi.SectorSize, sector *SectorOnChainInfo) error {
	if err := ValidateSectorSize(sectorSize); err != nil {
		return err
	}
	if sector == nil {
		return exitcode.ErrIllegalArgument.Wrapf("no sector")
	}
	if sector.DealWeight.Nil() || sector.VerifiedDealWeight.Nil() || sector.ExpectedDayReward.Nil() ||
		sector.ExpectedStoragePledge.Nil() || sector.ReplacedDayReward.Nil() {
		return exitcode.ErrIllegalArgument.Wrapf("sector has unset amounts")
	}
	if age := sector.Age(currEpoch); age < 0 {
		return exitcode.ErrIllegalArgument.Wrapf("termination epoch %d before power base epoch %d",
			currEpoch, sector.PowerBaseEpoch)
	}
	if sector.ReplacedAge() < 0 {
		return exitcode.ErrIllegalArgument.Wrapf("power base epoch %d before activation %d",
			sector.PowerBaseEpoch, sector.Activation)
	}
	if sector.PowerDuration() <= 0 {
		return exitcode.ErrIllegalArgument.Wrapf("expiration %d not after power base epoch %d",
			sector.Expiration, sector.PowerBaseEpoch)
	}
	return nil
}
