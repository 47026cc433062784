package main

import (
	"fmt"
	"os"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/multiformats/go-multibase"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/sector-penalty/support/estimator"
)

var workersFlag = &cli.UintFlag{
	Name:    "workers",
	Usage:   "number of worker goroutines",
	Value:   4,
	EnvVars: []string{"TERMFEE_WORKERS"},
}

var queueFlag = &cli.UintFlag{
	Name:    "queue",
	Usage:   "capacity of the job and result queues",
	Value:   64,
	EnvVars: []string{"TERMFEE_QUEUE"},
}

var progressFlag = &cli.DurationFlag{
	Name:    "progress",
	Usage:   "period between progress logs, zero for none",
	EnvVars: []string{"TERMFEE_PROGRESS"},
}

var batchCmd = &cli.Command{
	Name:        "batch",
	Usage:       "compute termination penalties for every sector in a vector file",
	ArgsUsage:   "<vector file>",
	Description: "Prints one line per sector followed by the total penalty",
	Flags: []cli.Flag{
		workersFlag,
		queueFlag,
		progressFlag,
		&cli.StringFlag{Name: "sectors", Usage: "sectors to include, e.g. 1,3,5-9 (default all)"},
		&cli.StringFlag{Name: "miner", Usage: "only include sectors of this miner"},
		&cli.StringFlag{Name: "car", Usage: "also write the results to a CAR archive at this path"},
		filFlag,
		checkFlag,
	},
	Action: runBatchCmd,
}

var verifyCmd = &cli.Command{
	Name:        "verify",
	Usage:       "check a vector file's expected penalties",
	ArgsUsage:   "<vector file>",
	Description: "Exits non-zero if any computed penalty differs from its expectation",
	Flags: []cli.Flag{
		workersFlag,
		queueFlag,
		progressFlag,
		&cli.StringFlag{Name: "cid-base", Usage: "multibase encoding of the printed results identifier", Value: "base32"},
	},
	Action: runVerifyCmd,
}

func runBatchCmd(cctx *cli.Context) error {
	vf, jobs, err := loadJobs(cctx)
	if err != nil {
		return err
	}

	if cctx.IsSet("sectors") || cctx.IsSet("miner") {
		minerAddr := address.Undef
		if cctx.IsSet("miner") {
			if minerAddr, err = address.NewFromString(cctx.String("miner")); err != nil {
				return xerrors.Errorf("invalid --miner: %w", err)
			}
		}
		var sel estimator.Selection
		if cctx.IsSet("sectors") {
			if sel, err = estimator.ParseSelection(minerAddr, cctx.String("sectors")); err != nil {
				return err
			}
		} else {
			sel = allSectors(minerAddr, jobs)
		}
		if jobs, err = estimator.FilterJobs(jobs, sel); err != nil {
			return err
		}
	}

	if cctx.Bool(checkFlag.Name) {
		failed, acc := estimator.CheckJobs(jobs)
		for _, msg := range acc.Messages() {
			log.Warn(msg)
		}
		if failed > 0 {
			log.Warnf("%d of %d sectors violate record invariants", failed, len(jobs))
		}
	}

	results, err := estimator.EstimateTerminationPenalties(cctx.Context, jobs, vf.Conditions, estimatorConfig(cctx), logAdapter{log})
	if err != nil {
		return err
	}

	if cctx.IsSet("car") {
		if err := writeCAR(cctx, cctx.String("car"), results); err != nil {
			return err
		}
	}

	fil := cctx.Bool(filFlag.Name)
	total := big.Zero()
	for _, r := range results {
		fmt.Fprintf(cctx.App.Writer, "%s\t%d\t%s\n", r.Miner, r.Number, formatAmount(r.Penalty, fil))
		total = big.Add(total, r.Penalty)
	}
	fmt.Fprintf(cctx.App.Writer, "total\t%d\t%s\n", len(results), formatAmount(total, fil))
	return nil
}

func writeCAR(cctx *cli.Context, path string, results []estimator.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	root, err := estimator.WriteResultsCAR(cctx.Context, f, results)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infow("wrote results archive", "path", path, "root", root.String())
	return nil
}

func runVerifyCmd(cctx *cli.Context) error {
	base, ok := multibase.Encodings[cctx.String("cid-base")]
	if !ok {
		return xerrors.Errorf("unknown multibase %q", cctx.String("cid-base"))
	}
	vf, jobs, err := loadJobs(cctx)
	if err != nil {
		return err
	}

	results, err := estimator.EstimateTerminationPenalties(cctx.Context, jobs, vf.Conditions, estimatorConfig(cctx), logAdapter{log})
	if err != nil {
		return err
	}
	mismatches, err := vf.Verify(results)
	if err != nil {
		return err
	}
	root, err := estimator.ResultsCID(results)
	if err != nil {
		return err
	}

	rootStr, err := root.StringOfBase(base)
	if err != nil {
		return err
	}

	for _, m := range mismatches {
		fmt.Fprintln(cctx.App.Writer, m)
	}
	p := message.NewPrinter(language.English) // For readable large counts
	p.Fprintf(cctx.App.Writer, "%d sectors, %d mismatched, results %s\n", len(results), len(mismatches), rootStr)
	if len(mismatches) > 0 {
		return cli.Exit(p.Sprintf("%d penalties differ from expectations", len(mismatches)), 2)
	}
	return nil
}

func loadJobs(cctx *cli.Context) (*estimator.VectorFile, []estimator.Job, error) {
	if cctx.Args().Len() != 1 {
		return nil, nil, xerrors.Errorf("expected exactly one argument, the vector file path")
	}
	path := cctx.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	vf, err := estimator.LoadVectorFile(f)
	if err != nil {
		return nil, nil, xerrors.Errorf("%s: %w", path, err)
	}
	jobs, err := vf.Jobs()
	if err != nil {
		return nil, nil, xerrors.Errorf("%s: %w", path, err)
	}
	log.Infof("loaded %d sectors from %s", len(jobs), path)
	return vf, jobs, nil
}

func estimatorConfig(cctx *cli.Context) estimator.Config {
	return estimator.Config{
		MaxWorkers:        cctx.Uint(workersFlag.Name),
		JobQueueSize:      cctx.Uint(queueFlag.Name),
		ResultQueueSize:   cctx.Uint(queueFlag.Name),
		ProgressLogPeriod: cctx.Duration(progressFlag.Name),
	}
}

func allSectors(minerAddr address.Address, jobs []estimator.Job) estimator.Selection {
	nos := make([]uint64, len(jobs))
	for i, job := range jobs {
		nos[i] = uint64(job.Number)
	}
	return estimator.NewSelection(minerAddr, nos...)
}
