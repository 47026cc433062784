package main

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
	"github.com/filecoin-project/sector-penalty/actors/util/smoothing"
)

// Decimal places between attoFIL and FIL.
const filPrecision = 18

var filFlag = &cli.BoolFlag{
	Name:  "fil",
	Usage: "print amounts in FIL rather than attoFIL",
}

var checkFlag = &cli.BoolFlag{
	Name:  "check",
	Usage: "report sector record invariant violations as warnings",
}

var computeCmd = &cli.Command{
	Name:        "compute",
	Usage:       "compute the termination penalty of one sector",
	Description: "Estimates are Q.128 fixed-point integers, amounts are attoFIL",
	Flags: []cli.Flag{
		&cli.Int64Flag{Name: "epoch", Usage: "epoch of termination", Required: true},
		&cli.StringFlag{Name: "sector-size", Usage: "sector size, e.g. 32GiB", Value: "32GiB"},
		&cli.Int64Flag{Name: "activation", Usage: "sector activation epoch", Required: true},
		&cli.Int64Flag{Name: "expiration", Usage: "sector expiration epoch", Required: true},
		&cli.Int64Flag{Name: "power-base-epoch", Usage: "epoch the sector's power was last based (default activation)"},
		&cli.StringFlag{Name: "deal-weight", Value: "0"},
		&cli.StringFlag{Name: "verified-deal-weight", Value: "0"},
		&cli.StringFlag{Name: "day-reward", Usage: "expected one-day reward", Value: "0"},
		&cli.StringFlag{Name: "storage-pledge", Usage: "expected twenty-day reward", Value: "0"},
		&cli.StringFlag{Name: "replaced-day-reward", Usage: "day reward of the replaced sector", Value: "0"},
		&cli.StringFlag{Name: "power-position", Usage: "network QA power position estimate", Required: true},
		&cli.StringFlag{Name: "power-velocity", Usage: "network QA power velocity estimate", Value: "0"},
		&cli.StringFlag{Name: "reward-position", Usage: "epoch reward position estimate", Required: true},
		&cli.StringFlag{Name: "reward-velocity", Usage: "epoch reward velocity estimate", Value: "0"},
		&cli.Int64Flag{Name: "estimate-epoch", Usage: "epoch the estimates were computed at (default epoch)"},
		&cli.StringFlag{Name: "power-observation", Usage: "network QA power observed at epoch, rolled into the power estimate"},
		&cli.StringFlag{Name: "reward-observation", Usage: "epoch reward observed at epoch, rolled into the reward estimate"},
		filFlag,
		checkFlag,
	},
	Action: runComputeCmd,
}

func runComputeCmd(cctx *cli.Context) error {
	size, err := miner.ParseSectorSize(cctx.String("sector-size"))
	if err != nil {
		return err
	}

	amounts := map[string]big.Int{}
	for _, name := range []string{
		"deal-weight", "verified-deal-weight", "day-reward", "storage-pledge", "replaced-day-reward",
		"power-position", "power-velocity", "reward-position", "reward-velocity",
	} {
		v, err := big.FromString(cctx.String(name))
		if err != nil {
			return xerrors.Errorf("invalid --%s: %w", name, err)
		}
		amounts[name] = v
	}

	activation := abi.ChainEpoch(cctx.Int64("activation"))
	powerBase := activation
	if cctx.IsSet("power-base-epoch") {
		powerBase = abi.ChainEpoch(cctx.Int64("power-base-epoch"))
	}
	sector := &miner.SectorOnChainInfo{
		Activation:            activation,
		Expiration:            abi.ChainEpoch(cctx.Int64("expiration")),
		DealWeight:            amounts["deal-weight"],
		VerifiedDealWeight:    amounts["verified-deal-weight"],
		ExpectedDayReward:     amounts["day-reward"],
		ExpectedStoragePledge: amounts["storage-pledge"],
		PowerBaseEpoch:        powerBase,
		ReplacedDayReward:     amounts["replaced-day-reward"],
	}
	powerEstimate := smoothing.FilterEstimate{
		PositionEstimate: amounts["power-position"],
		VelocityEstimate: amounts["power-velocity"],
	}
	rewardEstimate := smoothing.FilterEstimate{
		PositionEstimate: amounts["reward-position"],
		VelocityEstimate: amounts["reward-velocity"],
	}

	epoch := abi.ChainEpoch(cctx.Int64("epoch"))
	estimateEpoch := epoch
	if cctx.IsSet("estimate-epoch") {
		estimateEpoch = abi.ChainEpoch(cctx.Int64("estimate-epoch"))
	}
	if powerEstimate, err = rollEstimate(cctx, "power-observation", powerEstimate, epoch-estimateEpoch); err != nil {
		return err
	}
	if rewardEstimate, err = rollEstimate(cctx, "reward-observation", rewardEstimate, epoch-estimateEpoch); err != nil {
		return err
	}

	if cctx.Bool(checkFlag.Name) {
		checkSector(sector, size, "sector")
	}

	penalty, err := miner.TerminationPenaltyForSector(epoch, size, sector, powerEstimate, rewardEstimate)
	if err != nil {
		return err
	}
	log.Debugw("computed termination penalty", "epoch", epoch, "size", size.ShortString(), "penalty", penalty.String())

	fmt.Fprintln(cctx.App.Writer, formatAmount(penalty, cctx.Bool(filFlag.Name)))
	return nil
}

// Advances an estimate to the termination epoch with the protocol's filter, if an observation was given.
func rollEstimate(cctx *cli.Context, observationFlag string, estimate smoothing.FilterEstimate, delta abi.ChainEpoch) (smoothing.FilterEstimate, error) {
	if !cctx.IsSet(observationFlag) {
		return estimate, nil
	}
	observation, err := big.FromString(cctx.String(observationFlag))
	if err != nil {
		return estimate, xerrors.Errorf("invalid --%s: %w", observationFlag, err)
	}
	if delta <= 0 {
		return estimate, xerrors.Errorf("--%s needs --estimate-epoch before epoch, got %d epochs", observationFlag, delta)
	}
	next := smoothing.LoadFilter(estimate, smoothing.DefaultAlpha, smoothing.DefaultBeta).NextEstimate(observation, delta)
	log.Debugw("rolled estimate forward", "observation", observationFlag, "epochs", delta, "estimate", next.Estimate().String())
	return next, nil
}

func checkSector(sector *miner.SectorOnChainInfo, size abi.SectorSize, name string) {
	_, acc := miner.CheckSectorInvariants(sector, size)
	for _, msg := range acc.Messages() {
		log.Warnf("%s: %s", name, msg)
	}
}

func formatAmount(amount abi.TokenAmount, fil bool) string {
	if !fil {
		return amount.String()
	}
	return decimal.NewFromBigInt(amount.Int, -filPrecision).String() + " FIL"
}
