package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/go-state-types/rt"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("termfee")

var logLevelFlag = &cli.StringFlag{
	Name:    "log-level",
	Usage:   "log level (debug, info, warn, error)",
	Value:   "warn",
	EnvVars: []string{"TERMFEE_LOG_LEVEL"},
}

var testnetFlag = &cli.BoolFlag{
	Name:    "testnet",
	Usage:   "print miner addresses with the testnet prefix",
	EnvVars: []string{"TERMFEE_TESTNET"},
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		// Invalid inputs exit with their exit code class, anything else with 1.
		os.Exit(int(exitcode.Unwrap(err, exitcode.ExitCode(1))))
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:        "termfee",
		Usage:       "Compute sector termination penalties",
		Description: "Computes the fee a storage miner pays for terminating sectors before their expiration",
		Flags: []cli.Flag{
			logLevelFlag,
			testnetFlag,
		},
		Before: func(cctx *cli.Context) error {
			if err := logging.SetLogLevel("termfee", cctx.String(logLevelFlag.Name)); err != nil {
				return err
			}
			address.CurrentNetwork = address.Mainnet
			if cctx.Bool(testnetFlag.Name) {
				address.CurrentNetwork = address.Testnet
			}
			return nil
		},
		Commands: []*cli.Command{
			computeCmd,
			batchCmd,
			verifyCmd,
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	for _, c := range app.Commands {
		sort.Sort(cli.FlagsByName(c.Flags))
	}
	return app
}

// Adapts the process logger to the estimator's logging interface.
type logAdapter struct {
	log *logging.ZapEventLogger
}

func (l logAdapter) Log(level rt.LogLevel, msg string, args ...interface{}) {
	switch level {
	case rt.DEBUG:
		l.log.Debugf(msg, args...)
	case rt.INFO:
		l.log.Infof(msg, args...)
	case rt.WARN:
		l.log.Warnf(msg, args...)
	default:
		l.log.Errorf(msg, args...)
	}
}
