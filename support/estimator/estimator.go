package estimator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/rt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
	"github.com/filecoin-project/sector-penalty/actors/util"
	"github.com/filecoin-project/sector-penalty/actors/util/smoothing"
)

// Config parameterizes a batch evaluation
type Config struct {
	// Number of worker goroutines to run.
	// More workers enables higher CPU utilization when a batch holds many sectors.
	MaxWorkers uint
	// Capacity of the queue of jobs available to workers (zero for unbuffered).
	JobQueueSize uint
	// Capacity of the queue receiving results from workers (zero for unbuffered).
	ResultQueueSize uint
	// Time between progress logs to emit.
	// Zero (the default) results in no progress logs.
	ProgressLogPeriod time.Duration
}

type Logger interface {
	// This is the same logging interface provided by the Runtime
	Log(level rt.LogLevel, msg string, args ...interface{})
}

// Network conditions at the epoch of termination, shared by every sector in a batch.
type Conditions struct {
	Epoch                  abi.ChainEpoch           `json:"epoch"`
	NetworkQAPowerEstimate smoothing.FilterEstimate `json:"network_qa_power_estimate"`
	RewardEstimate         smoothing.FilterEstimate `json:"reward_estimate"`
}

// A sector to evaluate.
type Job struct {
	Miner      address.Address
	Number     abi.SectorNumber
	SectorSize abi.SectorSize
	Sector     miner.SectorOnChainInfo
}

type Result struct {
	Miner   address.Address
	Number  abi.SectorNumber
	QAPower abi.StoragePower
	Penalty abi.TokenAmount
}

// Computes the termination penalty of every job under the same network conditions.
// Results are returned in job order. The first job to fail aborts the batch, and no results are returned.
func EstimateTerminationPenalties(ctx context.Context, jobs []Job, cond Conditions, cfg Config, log Logger) ([]Result, error) {
	if cfg.MaxWorkers <= 0 {
		return nil, xerrors.Errorf("invalid estimator config with %d workers", cfg.MaxWorkers)
	}
	startTime := time.Now()

	// Setup synchronization
	grp, ctx := errgroup.WithContext(ctx)
	// Input and output queues for workers.
	jobCh := make(chan *indexedJob, cfg.JobQueueSize)
	jobResultCh := make(chan *indexedResult, cfg.ResultQueueSize)
	// Atomically-modified counter for logging progress
	var doneCount uint32

	grp.Go(func() error {
		defer close(jobCh)
		log.Log(rt.INFO, "Queueing %d sectors at epoch %d", len(jobs), cond.Epoch)
		for i := range jobs {
			select {
			case jobCh <- &indexedJob{index: i, Job: &jobs[i]}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Worker threads run jobs.
	var workerWg sync.WaitGroup
	for i := uint(0); i < cfg.MaxWorkers; i++ {
		workerWg.Add(1)
		workerId := i
		grp.Go(func() error {
			defer workerWg.Done()
			for job := range jobCh {
				result, err := job.run(cond)
				if err != nil {
					return err
				}
				select {
				case jobResultCh <- result:
				case <-ctx.Done():
					return ctx.Err()
				}
				atomic.AddUint32(&doneCount, 1)
			}
			log.Log(rt.DEBUG, "Worker %d done", workerId)
			return nil
		})
	}
	log.Log(rt.DEBUG, "Started %d workers", cfg.MaxWorkers)

	// Monitor progress. This non-critical goroutine is outside the errgroup and exits when
	// workersFinished is closed, or the context done.
	workersFinished := make(chan struct{}) // Closed when waitgroup is emptied.
	if cfg.ProgressLogPeriod > 0 {
		go func() {
			defer log.Log(rt.DEBUG, "Progress monitor done")
			for {
				select {
				case <-time.After(cfg.ProgressLogPeriod):
					doneNow := atomic.LoadUint32(&doneCount)
					elapsed := time.Since(startTime)
					rate := float64(doneNow) / elapsed.Seconds()
					log.Log(rt.INFO, "%d of %d sectors done after %v (%.0f/s)", doneNow, len(jobs), elapsed, rate)
				case <-workersFinished:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Close result channel when workers are done sending to it.
	grp.Go(func() error {
		workerWg.Wait()
		close(jobResultCh)
		close(workersFinished)
		return nil
	})

	// Collect results into their job's slot.
	results := make([]Result, len(jobs))
	grp.Go(func() error {
		for result := range jobResultCh {
			results[result.index] = result.Result
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(startTime)
	log.Log(rt.INFO, "All %d sectors done after %v", len(jobs), elapsed)
	return results, nil
}

type indexedJob struct {
	index int
	*Job
}

type indexedResult struct {
	index int
	Result
}

func (job *indexedJob) run(cond Conditions) (result *indexedResult, err error) {
	// Assertion failures in the arithmetic abort this job only.
	defer func() {
		if r := recover(); r != nil {
			err = xerrors.Errorf("sector %d of miner %s: %w", job.Number, job.Miner, util.RecoverAbort(r))
		}
	}()

	penalty, err := miner.TerminationPenaltyForSector(cond.Epoch, job.SectorSize, &job.Sector,
		cond.NetworkQAPowerEstimate, cond.RewardEstimate)
	if err != nil {
		return nil, xerrors.Errorf("sector %d of miner %s: %w", job.Number, job.Miner, err)
	}
	return &indexedResult{
		index: job.index,
		Result: Result{
			Miner:   job.Miner,
			Number:  job.Number,
			QAPower: miner.QAPowerForSector(job.SectorSize, &job.Sector),
			Penalty: penalty,
		},
	}, nil
}
