package miner_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/golden"

	"github.com/filecoin-project/sector-penalty/actors/builtin"
	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
	"github.com/filecoin-project/sector-penalty/actors/util/smoothing"
)

type terminationVector struct {
	name   string
	epoch  abi.ChainEpoch
	size   abi.SectorSize
	power  smoothing.FilterEstimate
	reward smoothing.FilterEstimate
	sector miner.SectorOnChainInfo
	fee    string
}

var terminationVectors = []terminationVector{
	{
		name:   "flat-estimates-no-rewards",
		epoch:  100000,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("8507059173023461586584365185794205286400000000000000000000"), VelocityEstimate: big.Zero()},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6805647338418769269267492148635364229120000000000000000000"), VelocityEstimate: big.Zero()},
		sector: miner.SectorOnChainInfo{
			Activation:            0,
			Expiration:            1051897,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.Zero(),
			ExpectedStoragePledge: big.Zero(),
			PowerBaseEpoch:        0,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "277076930199552",
	},
	{
		name:   "committed-capacity-mid-life",
		epoch:  1129617,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.NewInt(115162087239486),
			ExpectedStoragePledge: big.NewInt(2304831715248163),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "4896318566241297",
	},
	{
		name:   "verified-deals-growing-network",
		epoch:  1034560,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755318501632177"), VelocityEstimate: big.MustFromString("4673211172380888231563677942062950103995733333333333")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.NewInt(17812088369971200),
			ExpectedDayReward:     big.NewInt(460115436826671),
			ExpectedStoragePledge: big.NewInt(9011833296637223),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "11772525917597249",
	},
	{
		name:   "mixed-deals-64GiB",
		epoch:  1008641,
		size:   abi.SectorSize(64 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.NewInt(26718132554956800),
			VerifiedDealWeight:    big.NewInt(21374506043965440),
			ExpectedDayReward:     big.NewInt(644907512817723),
			ExpectedStoragePledge: big.NewInt(12907054088495617),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "13874527320832065",
	},
	{
		name:   "replaced-sector",
		epoch:  1259200,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2324800,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.NewInt(39582418599936000),
			ExpectedDayReward:     big.NewInt(1151620872394863),
			ExpectedStoragePledge: big.NewInt(23048317152481632),
			PowerBaseEpoch:        1172800,
			ReplacedDayReward:     big.NewInt(115162087239486),
		},
		fee: "43777492855589157",
	},
	{
		name:   "age-beyond-lifetime-cap",
		epoch:  1864000,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.NewInt(115162087239486),
			ExpectedStoragePledge: big.NewInt(2304831715248163),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "10366177822012183",
	},
	{
		name:   "replaced-age-beyond-cap",
		epoch:  1604800,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2324800,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.NewInt(115162087239486),
			ExpectedStoragePledge: big.NewInt(2304831715248163),
			PowerBaseEpoch:        1172800,
			ReplacedDayReward:     big.NewInt(345486261718458),
		},
		fee: "10366177822012183",
	},
	{
		name:   "zero-network-power",
		epoch:  1028800,
		size:   abi.SectorSize(32 << 30),
		power:  smoothing.FilterEstimate{PositionEstimate: big.Zero(), VelocityEstimate: big.Zero()},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.NewInt(115162087239486),
			ExpectedStoragePledge: big.NewInt(2304831715248163),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "20510223119532811264",
	},
	{
		name:   "terminated-at-activation",
		epoch:  1000000,
		size:   abi.SectorSize(2 << 10),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            1518400,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.NewInt(1),
			ExpectedStoragePledge: big.NewInt(20),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "24026863",
	},
	{
		name:   "lower-bound-dominates",
		epoch:  1002880,
		size:   abi.SectorSize(512 << 20),
		power:  smoothing.FilterEstimate{PositionEstimate: big.MustFromString("5997336295215740334061660150353340500137566755317637434645"), VelocityEstimate: big.MustFromString("-152106218013659493168128449522000390520831999999901")},
		reward: smoothing.FilterEstimate{PositionEstimate: big.MustFromString("6979267269191179196538899693888740027945356065764890695939"), VelocityEstimate: big.MustFromString("-1090467785000875746254045479694613514432584147854")},
		sector: miner.SectorOnChainInfo{
			Activation:            1000000,
			Expiration:            2555200,
			DealWeight:            big.Zero(),
			VerifiedDealWeight:    big.Zero(),
			ExpectedDayReward:     big.Zero(),
			ExpectedStoragePledge: big.Zero(),
			PowerBaseEpoch:        1000000,
			ReplacedDayReward:     big.Zero(),
		},
		fee: "6298498235537",
	},
}

func TestTerminationPenaltyForSector(t *testing.T) {
	for _, v := range terminationVectors {
		v := v
		t.Run(v.name, func(t *testing.T) {
			fee, err := miner.TerminationPenaltyForSector(v.epoch, v.size, &v.sector, v.power, v.reward)
			require.NoError(t, err)
			assert.Equal(t, big.MustFromString(v.fee), fee)
		})
	}

	t.Run("flat estimates with no rewards pay exactly the lower bound", func(t *testing.T) {
		size := abi.SectorSize(32 << 30)
		sector := miner.NewSectorOnChainInfo(0, builtin.EpochsInYear, big.Zero(), big.Zero())
		power := smoothing.TestingConstantEstimate(big.Mul(big.NewInt(25), big.NewInt(1e18)))
		reward := smoothing.TestingConstantEstimate(big.Mul(big.NewInt(20), big.NewInt(1e18)))

		fee, err := miner.TerminationPenaltyForSector(100000, size, sector, power, reward)
		require.NoError(t, err)

		lowerBound := miner.PledgePenaltyForTerminationLowerBound(reward, power, big.NewIntUnsigned(uint64(size)))
		assert.Equal(t, lowerBound, fee)
		// 32GiB * 20/25 * 10080 epochs
		assert.Equal(t, big.NewInt(277076930199552), fee)
	})

	t.Run("rejects malformed records", func(t *testing.T) {
		v := terminationVectors[1]
		valid := func() *miner.SectorOnChainInfo {
			s := v.sector
			return &s
		}

		for name, tc := range map[string]struct {
			epoch  abi.ChainEpoch
			size   abi.SectorSize
			sector func() *miner.SectorOnChainInfo
		}{
			"unsupported size": {v.epoch, abi.SectorSize(16 << 30), valid},
			"zero size":        {v.epoch, 0, valid},
			"nil sector": {v.epoch, v.size, func() *miner.SectorOnChainInfo {
				return nil
			}},
			"unset amount": {v.epoch, v.size, func() *miner.SectorOnChainInfo {
				s := valid()
				s.ReplacedDayReward = big.Int{}
				return s
			}},
			"terminated before power base": {v.sector.PowerBaseEpoch - 1, v.size, valid},
			"power base before activation": {v.epoch, v.size, func() *miner.SectorOnChainInfo {
				s := valid()
				s.PowerBaseEpoch = s.Activation - 1
				return s
			}},
			"expired at power base": {v.epoch, v.size, func() *miner.SectorOnChainInfo {
				s := valid()
				s.Expiration = s.PowerBaseEpoch
				return s
			}},
		} {
			t.Run(name, func(t *testing.T) {
				_, err := miner.TerminationPenaltyForSector(tc.epoch, tc.size, tc.sector(), v.power, v.reward)
				require.Error(t, err)
				assert.Equal(t, exitcode.ErrIllegalArgument, exitcode.Unwrap(err, exitcode.Ok))
			})
		}
	})

	t.Run("termination at power base epoch is allowed", func(t *testing.T) {
		v := terminationVectors[1]
		fee, err := miner.TerminationPenaltyForSector(v.sector.PowerBaseEpoch, v.size, &v.sector, v.power, v.reward)
		require.NoError(t, err)
		assert.True(t, fee.GreaterThanEqual(v.sector.ExpectedStoragePledge))
	})
}

func TestTerminationPenaltyProperties(t *testing.T) {
	v := terminationVectors[1]
	lifetimeCap := int64(miner.TerminationLifetimeCap * builtin.EpochsInDay)
	qaPower := miner.QAPowerForSector(v.size, &v.sector)
	lowerBound := miner.PledgePenaltyForTerminationLowerBound(v.reward, v.power, qaPower)

	feeAt := func(age int64, replacedDayReward abi.TokenAmount, replacedAge int64) abi.TokenAmount {
		return miner.PledgePenaltyForTermination(v.sector.ExpectedDayReward, abi.ChainEpoch(age), v.sector.ExpectedStoragePledge,
			v.power, qaPower, v.reward, replacedDayReward, abi.ChainEpoch(replacedAge))
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fee never decreases with age", prop.ForAll(
		func(a, b int64) bool {
			if a > b {
				a, b = b, a
			}
			return feeAt(a, big.Zero(), 0).LessThanEqual(feeAt(b, big.Zero(), 0))
		},
		gen.Int64Range(0, 2*lifetimeCap),
		gen.Int64Range(0, 2*lifetimeCap),
	))

	properties.Property("fee is flat beyond the lifetime cap", prop.ForAll(
		func(age int64) bool {
			return feeAt(age, big.Zero(), 0).Equals(feeAt(lifetimeCap, big.Zero(), 0))
		},
		gen.Int64Range(lifetimeCap, 10*lifetimeCap),
	))

	properties.Property("fee is at least the lower bound and the storage pledge", prop.ForAll(
		func(age int64) bool {
			fee := feeAt(age, big.Zero(), 0)
			return fee.GreaterThanEqual(lowerBound) && fee.GreaterThanEqual(v.sector.ExpectedStoragePledge)
		},
		gen.Int64Range(0, 2*lifetimeCap),
	))

	properties.Property("replaced age adds nothing at the cap", prop.ForAll(
		func(replacedAge int64, replacedDayReward int64) bool {
			return feeAt(lifetimeCap, big.NewInt(replacedDayReward), replacedAge).Equals(feeAt(lifetimeCap, big.Zero(), 0))
		},
		gen.Int64Range(0, 2*lifetimeCap),
		gen.Int64Range(0, 1<<50),
	))

	properties.Property("fee is deterministic", prop.ForAll(
		func(offset int64) bool {
			epoch := v.sector.PowerBaseEpoch + abi.ChainEpoch(offset)
			first, err := miner.TerminationPenaltyForSector(epoch, v.size, &v.sector, v.power, v.reward)
			if err != nil {
				return false
			}
			second, err := miner.TerminationPenaltyForSector(epoch, v.size, &v.sector, v.power, v.reward)
			return err == nil && first.Equals(second)
		},
		gen.Int64Range(0, 2*lifetimeCap),
	))

	properties.Property("zero network power falls back to the reward estimate", prop.ForAll(
		func(duration int64, power int64) bool {
			zero := smoothing.NewEstimate(big.Zero(), big.Zero())
			br := miner.ExpectedRewardForPower(v.reward, zero, big.NewInt(power), abi.ChainEpoch(duration))
			return br.Equals(v.reward.Estimate())
		},
		gen.Int64Range(0, 1e6),
		gen.Int64Range(0, 1<<40),
	))

	properties.TestingRun(t)
}

// Fee as a sector ages while the share of its life attributed to a replaced sector at twice the day rate shrinks.
func TestTerminationPenaltyCurve(t *testing.T) {
	v := terminationVectors[1]
	qaPower := miner.QAPowerForSector(v.size, &v.sector)
	replacedDayReward := big.Mul(v.sector.ExpectedDayReward, big.NewInt(2))

	b := &bytes.Buffer{}
	b.WriteString("age,replaced_age,fee\n")
	for i := int64(0); i <= 40; i++ {
		age := abi.ChainEpoch(i*5*builtin.EpochsInDay + i*7)
		replacedAge := abi.ChainEpoch((40 - i) * 3 * builtin.EpochsInDay)
		fee := miner.PledgePenaltyForTermination(v.sector.ExpectedDayReward, age, v.sector.ExpectedStoragePledge,
			v.power, qaPower, v.reward, replacedDayReward, replacedAge)
		fmt.Fprintf(b, "%d,%d,%s\n", age, replacedAge, fee)
	}

	golden.Assert(t, b.Bytes())
}
