package miner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/filecoin-project/sector-penalty/actors/util"
	"github.com/filecoin-project/sector-penalty/actors/util/math"
)

// Quality multiplier for committed capacity (no deals) in a sector
var QualityBaseMultiplier = big.NewInt(10)

// Quality multiplier for unverified deals in a sector
var DealWeightMultiplier = big.NewInt(10)

// Quality multiplier for verified deals in a sector
var VerifiedDealWeightMultiplier = big.NewInt(100)

// Precision used for making QA power calculations
const SectorQualityPrecision = 20

// Seal proofs registered with the network. A sector's size is always the size of one of these.
var registeredSealProofs = []abi.RegisteredSealProof{
	abi.RegisteredSealProof_StackedDrg2KiBV1_1,
	abi.RegisteredSealProof_StackedDrg8MiBV1_1,
	abi.RegisteredSealProof_StackedDrg512MiBV1_1,
	abi.RegisteredSealProof_StackedDrg32GiBV1_1,
	abi.RegisteredSealProof_StackedDrg64GiBV1_1,
}

// Sector sizes for which a seal proof is registered, ascending.
var SupportedSectorSizes []abi.SectorSize

func init() {
	seen := map[abi.SectorSize]struct{}{}
	for _, proof := range registeredSealProofs {
		size, err := proof.SectorSize()
		if err != nil {
			panic(fmt.Sprintf("no sector size for seal proof %d: %s", proof, err))
		}
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		SupportedSectorSizes = append(SupportedSectorSizes, size)
	}
	sort.Slice(SupportedSectorSizes, func(i, j int) bool {
		return SupportedSectorSizes[i] < SupportedSectorSizes[j]
	})
}

// Checks that size is one of the supported sector sizes.
func ValidateSectorSize(size abi.SectorSize) error {
	for _, s := range SupportedSectorSizes {
		if s == size {
			return nil
		}
	}
	return exitcode.ErrIllegalArgument.Wrapf("unsupported sector size %d", size)
}

// Parses a sector size given either in bytes ("34359738368") or in abbreviated form ("32GiB").
// The result is always a supported size.
func ParseSectorSize(s string) (abi.SectorSize, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		size := abi.SectorSize(n)
		if err := ValidateSectorSize(size); err != nil {
			return 0, err
		}
		return size, nil
	}
	for _, size := range SupportedSectorSizes {
		if strings.EqualFold(size.ShortString(), s) {
			return size, nil
		}
	}
	return 0, exitcode.ErrIllegalArgument.Wrapf("unsupported sector size %q", s)
}

// DealWeight and VerifiedDealWeight are spacetime occupied by regular deals and verified deals in a sector.
// Sum of DealWeight and VerifiedDealWeight should be less than or equal to total SpaceTime of a sector.
// Sectors full of VerifiedDeals will have a SectorQuality of VerifiedDealWeightMultiplier/QualityBaseMultiplier.
// Sectors full of Deals will have a SectorQuality of DealWeightMultiplier/QualityBaseMultiplier.
// Sectors with neither will have a SectorQuality of QualityBaseMultiplier/QualityBaseMultiplier.
// SectorQuality of a sector is a weighted average of multipliers based on their proportions.
// The result is in Q.20 (SectorQualityPrecision) format.
// A sector with no space-time (zero size or non-positive duration) has no quality, and aborts.
func QualityForWeight(size abi.SectorSize, duration abi.ChainEpoch, dealWeight, verifiedWeight abi.DealWeight) abi.SectorQuality {
	sectorSpaceTime := big.Mul(big.NewIntUnsigned(uint64(size)), big.NewInt(int64(duration)))
	util.AssertMsg(sectorSpaceTime.GreaterThan(big.Zero()), "sector space-time %v must be positive (size %d, duration %d)",
		sectorSpaceTime, size, duration)
	totalDealSpaceTime := big.Add(dealWeight, verifiedWeight)

	weightedBaseSpaceTime := big.Mul(big.Sub(sectorSpaceTime, totalDealSpaceTime), QualityBaseMultiplier)
	weightedDealSpaceTime := big.Mul(dealWeight, DealWeightMultiplier)
	weightedVerifiedSpaceTime := big.Mul(verifiedWeight, VerifiedDealWeightMultiplier)
	weightedSumSpaceTime := big.Sum(weightedBaseSpaceTime, weightedDealSpaceTime, weightedVerifiedSpaceTime)
	scaledUpWeightedSumSpaceTime := big.Lsh(weightedSumSpaceTime, SectorQualityPrecision)

	return math.DivFloor(math.DivFloor(scaledUpWeightedSumSpaceTime, sectorSpaceTime), QualityBaseMultiplier)
}

// The power for a sector size, committed duration, and weight.
func QAPowerForWeight(size abi.SectorSize, duration abi.ChainEpoch, dealWeight, verifiedWeight abi.DealWeight) abi.StoragePower {
	quality := QualityForWeight(size, duration, dealWeight, verifiedWeight)
	return big.Rsh(big.Mul(big.NewIntUnsigned(uint64(size)), quality), SectorQualityPrecision)
}

// The quality-adjusted power for a sector.
// Power is computed over the sector's remaining life since its power was last re-based, which may be
// later than activation if the sector was updated or extended.
func QAPowerForSector(size abi.SectorSize, sector *SectorOnChainInfo) abi.StoragePower {
	duration := sector.Expiration - sector.PowerBaseEpoch
	return QAPowerForWeight(size, duration, sector.DealWeight, sector.VerifiedDealWeight)
}

// The maximum quality-adjusted power a sector of some size can have, when it is full of verified deals.
func QAPowerMax(size abi.SectorSize) abi.StoragePower {
	return math.DivFloor(
		big.Mul(big.NewIntUnsigned(uint64(size)), VerifiedDealWeightMultiplier),
		QualityBaseMultiplier)
}
