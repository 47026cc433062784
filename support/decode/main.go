package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/urfave/cli/v2"

	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
	"github.com/filecoin-project/sector-penalty/support/estimator"
)

var bfDecodeCmd = &cli.Command{
	Name:        "bf",
	Description: "decode bitfield from hex bytes",
	Action:      runDecodeBFCmd,
}

var intDecodeCmd = &cli.Command{
	Name:        "int",
	Description: "decode big.Int from hex bytes",
	Action:      runDecodeIntCmd,
}

var sectorDecodeCmd = &cli.Command{
	Name:        "sector",
	Description: "decode sector on-chain info from hex CBOR",
	Action:      runDecodeSectorCmd,
}

var resultsDecodeCmd = &cli.Command{
	Name:        "results",
	Description: "decode a batch of termination penalty results from hex CBOR",
	Action:      runDecodeResultsCmd,
}

var carDecodeCmd = &cli.Command{
	Name:        "car",
	Description: "decode a CAR archive of termination penalty results from a file",
	Action:      runDecodeCARCmd,
}

func main() {
	address.CurrentNetwork = address.Mainnet
	app := &cli.App{
		Name:        "decode",
		Usage:       "Decode a hex encoded data structure",
		Description: "Decode a hex encoded data structure",
		Commands: []*cli.Command{
			bfDecodeCmd,
			intDecodeCmd,
			sectorDecodeCmd,
			resultsDecodeCmd,
			carDecodeCmd,
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	err := app.Run(os.Args)
	if err != nil {
		panic(err)
	}
}

func runDecodeBFCmd(ctx *cli.Context) error {
	b, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return err
	}

	bf, err := bitfield.NewFromBytes(b)
	if err != nil {
		return err
	}

	return bf.ForEach(func(u uint64) error {
		fmt.Fprintln(ctx.App.Writer, u)
		return nil
	})
}

func runDecodeIntCmd(ctx *cli.Context) error {
	b, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return err
	}

	i, err := big.FromBytes(b)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, i)
	return nil
}

func runDecodeSectorCmd(ctx *cli.Context) error {
	b, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return err
	}

	var info miner.SectorOnChainInfo
	if err := info.UnmarshalCBOR(bytes.NewReader(b)); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "activation:              %d\n", info.Activation)
	fmt.Fprintf(ctx.App.Writer, "expiration:              %d\n", info.Expiration)
	fmt.Fprintf(ctx.App.Writer, "deal weight:             %s\n", info.DealWeight)
	fmt.Fprintf(ctx.App.Writer, "verified deal weight:    %s\n", info.VerifiedDealWeight)
	fmt.Fprintf(ctx.App.Writer, "expected day reward:     %s\n", info.ExpectedDayReward)
	fmt.Fprintf(ctx.App.Writer, "expected storage pledge: %s\n", info.ExpectedStoragePledge)
	fmt.Fprintf(ctx.App.Writer, "power base epoch:        %d\n", info.PowerBaseEpoch)
	fmt.Fprintf(ctx.App.Writer, "replaced day reward:     %s\n", info.ReplacedDayReward)
	return nil
}

func runDecodeResultsCmd(ctx *cli.Context) error {
	b, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return err
	}

	results, err := estimator.UnmarshalResults(bytes.NewReader(b))
	if err != nil {
		return err
	}
	printResults(ctx, results)
	return nil
}

func runDecodeCARCmd(ctx *cli.Context) error {
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	root, results, err := estimator.ReadResultsCAR(ctx.Context, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "root: %s\n", root)
	printResults(ctx, results)
	return nil
}

func printResults(ctx *cli.Context, results []estimator.Result) {
	for _, r := range results {
		fmt.Fprintf(ctx.App.Writer, "%s\t%d\t%s\t%s\n", r.Miner, r.Number, r.QAPower, r.Penalty)
	}
}
