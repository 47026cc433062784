package estimator

import (
	"context"
	"io"

	"github.com/ipfs/go-cid"
	ipldcbor "github.com/ipfs/go-ipld-cbor"
	car "github.com/ipld/go-car"
	carutil "github.com/ipld/go-car/util"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/sector-penalty/support/ipld"
)

// A result list stored as a single IPLD block.
type ResultList []Result

func (rl ResultList) MarshalCBOR(w io.Writer) error {
	return MarshalResults(w, rl)
}

func (rl *ResultList) UnmarshalCBOR(r io.Reader) error {
	results, err := UnmarshalResults(r)
	if err != nil {
		return err
	}
	*rl = results
	return nil
}

// Puts a result list in the store, returning its root.
func StoreResults(ctx context.Context, store ipldcbor.IpldStore, results []Result) (cid.Cid, error) {
	root, err := store.Put(ctx, ResultList(results))
	if err != nil {
		return cid.Undef, xerrors.Errorf("failed to store %d results: %w", len(results), err)
	}
	return root, nil
}

func LoadResults(ctx context.Context, store ipldcbor.IpldStore, root cid.Cid) ([]Result, error) {
	var rl ResultList
	if err := store.Get(ctx, root, &rl); err != nil {
		return nil, xerrors.Errorf("failed to load results %s: %w", root, err)
	}
	return rl, nil
}

// Writes a result list as a CAR archive with a single root.
func WriteResultsCAR(ctx context.Context, w io.Writer, results []Result) (cid.Cid, error) {
	store, bs := ipld.NewStore()
	root, err := StoreResults(ctx, store, results)
	if err != nil {
		return cid.Undef, err
	}
	if err := car.WriteHeader(&car.CarHeader{Roots: []cid.Cid{root}, Version: 1}, w); err != nil {
		return cid.Undef, xerrors.Errorf("failed to write car header: %w", err)
	}
	for _, blk := range bs.Blocks() {
		if err := carutil.LdWrite(w, blk.Cid().Bytes(), blk.RawData()); err != nil {
			return cid.Undef, xerrors.Errorf("failed to write block %s: %w", blk.Cid(), err)
		}
	}
	return root, nil
}

// Reads a result list from a CAR archive written by WriteResultsCAR.
func ReadResultsCAR(ctx context.Context, r io.Reader) (cid.Cid, []Result, error) {
	bs := ipld.NewBlockStoreInMemory()
	header, err := car.LoadCar(bs, r)
	if err != nil {
		return cid.Undef, nil, xerrors.Errorf("failed to load car: %w", err)
	}
	if len(header.Roots) != 1 {
		return cid.Undef, nil, xerrors.Errorf("expected one root, found %d", len(header.Roots))
	}
	root := header.Roots[0]
	results, err := LoadResults(ctx, ipldcbor.NewCborStore(bs), root)
	if err != nil {
		return cid.Undef, nil, err
	}
	return root, results, nil
}
