package estimator

import (
	"strconv"
	"strings"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/exitcode"
	"golang.org/x/xerrors"
)

// Bound on the sectors a single range in a textual selection may name.
const MaxSelectionRange = 1 << 20

// A set of sectors to evaluate, in the form a termination declaration carries them.
type Selection struct {
	Miner   address.Address // address.Undef matches any miner
	Sectors bitfield.BitField
}

func NewSelection(miner address.Address, sectorNos ...uint64) Selection {
	return Selection{
		Miner:   miner,
		Sectors: bitfield.NewFromSet(sectorNos),
	}
}

// Parses a comma-separated list of sector numbers and inclusive ranges, e.g. "1,3,5-9".
func ParseSelection(miner address.Address, s string) (Selection, error) {
	sel := Selection{Miner: miner, Sectors: bitfield.New()}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		first, last := part, part
		if i := strings.IndexByte(part, '-'); i >= 0 {
			first, last = part[:i], part[i+1:]
		}
		lo, err := strconv.ParseUint(strings.TrimSpace(first), 10, 63)
		if err != nil {
			return Selection{}, exitcode.ErrIllegalArgument.Wrapf("invalid sector number %q: %s", first, err)
		}
		hi, err := strconv.ParseUint(strings.TrimSpace(last), 10, 63)
		if err != nil {
			return Selection{}, exitcode.ErrIllegalArgument.Wrapf("invalid sector number %q: %s", last, err)
		}
		if hi < lo {
			return Selection{}, exitcode.ErrIllegalArgument.Wrapf("empty sector range %q", part)
		}
		if hi-lo >= MaxSelectionRange {
			return Selection{}, exitcode.ErrIllegalArgument.Wrapf("sector range %q exceeds %d sectors", part, MaxSelectionRange)
		}
		nos := make([]uint64, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			nos = append(nos, n)
		}
		if sel.Sectors, err = bitfield.MergeBitFields(sel.Sectors, bitfield.NewFromSet(nos)); err != nil {
			return Selection{}, xerrors.Errorf("failed to merge sector range %q: %w", part, err)
		}
	}
	return sel, nil
}

// Returns the jobs the selection includes, preserving order.
func FilterJobs(jobs []Job, sel Selection) ([]Job, error) {
	var out []Job
	for _, job := range jobs {
		if sel.Miner != address.Undef && job.Miner != sel.Miner {
			continue
		}
		set, err := sel.Sectors.IsSet(uint64(job.Number))
		if err != nil {
			return nil, xerrors.Errorf("failed to check selection of sector %d: %w", job.Number, err)
		}
		if set {
			out = append(out, job)
		}
	}
	return out, nil
}
