package estimator

import (
	"github.com/filecoin-project/sector-penalty/actors/builtin"
	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
)

// Checks every job's sector record, prefixing each violation with the sector it concerns.
// Returns the number of sectors with violations.
func CheckJobs(jobs []Job) (int, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}
	failed := 0
	for i := range jobs {
		_, sectorAcc := miner.CheckSectorInvariants(&jobs[i].Sector, jobs[i].SectorSize)
		if sectorAcc.IsEmpty() {
			continue
		}
		failed++
		acc.WithPrefix("sector %d of miner %s: ", jobs[i].Number, jobs[i].Miner).AddAll(sectorAcc)
	}
	return failed, acc
}
