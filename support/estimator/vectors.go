package estimator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
)

// A file of sectors to evaluate under one set of network conditions,
// optionally with the penalty each is expected to incur.
type VectorFile struct {
	Conditions Conditions `json:"conditions"`
	Vectors    []Vector   `json:"vectors"`
}

type Vector struct {
	Miner      address.Address         `json:"miner"`
	Number     abi.SectorNumber        `json:"number"`
	SectorSize string                  `json:"sector_size"` // bytes or abbreviated, e.g. "32GiB"
	Sector     miner.SectorOnChainInfo `json:"sector"`
	Expected   *abi.TokenAmount        `json:"expected,omitempty"`
}

// A result that differs from its vector's expectation.
type Mismatch struct {
	Miner    address.Address
	Number   abi.SectorNumber
	Expected abi.TokenAmount
	Actual   abi.TokenAmount
}

func (m Mismatch) String() string {
	return fmt.Sprintf("sector %d of miner %s: expected %v, got %v", m.Number, m.Miner, m.Expected, m.Actual)
}

func LoadVectorFile(r io.Reader) (*VectorFile, error) {
	var vf VectorFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&vf); err != nil {
		return nil, xerrors.Errorf("failed to decode vector file: %w", err)
	}
	return &vf, nil
}

func (vf *VectorFile) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(vf)
}

// Jobs for every vector in the file, in file order.
func (vf *VectorFile) Jobs() ([]Job, error) {
	jobs := make([]Job, len(vf.Vectors))
	for i, v := range vf.Vectors {
		size, err := miner.ParseSectorSize(v.SectorSize)
		if err != nil {
			return nil, xerrors.Errorf("vector %d (sector %d): %w", i, v.Number, err)
		}
		jobs[i] = Job{
			Miner:      v.Miner,
			Number:     v.Number,
			SectorSize: size,
			Sector:     v.Sector,
		}
	}
	return jobs, nil
}

// Compares results, in vector order, with the vectors' expectations.
// Vectors without an expectation are not compared.
func (vf *VectorFile) Verify(results []Result) ([]Mismatch, error) {
	if len(results) != len(vf.Vectors) {
		return nil, xerrors.Errorf("%d results for %d vectors", len(results), len(vf.Vectors))
	}
	var mismatches []Mismatch
	for i, v := range vf.Vectors {
		r := results[i]
		if r.Miner != v.Miner || r.Number != v.Number {
			return nil, xerrors.Errorf("result %d is for sector %d of miner %s, vector is sector %d of miner %s",
				i, r.Number, r.Miner, v.Number, v.Miner)
		}
		if v.Expected == nil {
			continue
		}
		if !v.Expected.Equals(r.Penalty) {
			mismatches = append(mismatches, Mismatch{
				Miner:    v.Miner,
				Number:   v.Number,
				Expected: *v.Expected,
				Actual:   r.Penalty,
			})
		}
	}
	return mismatches, nil
}

// Bound on the length of an encoded result list.
const MaxResults = 1 << 24

// Content identifier of the CBOR encoding of a result list.
// Equal identifiers mean bit-identical results.
func ResultsCID(results []Result) (cid.Cid, error) {
	buf := new(bytes.Buffer)
	if err := MarshalResults(buf, results); err != nil {
		return cid.Undef, err
	}
	prefix := cid.Prefix{
		Version:  1,
		Codec:    cid.DagCBOR,
		MhType:   mh.SHA2_256,
		MhLength: -1,
	}
	return prefix.Sum(buf.Bytes())
}

// this is a flat list, so we need to write it by hand
func MarshalResults(w io.Writer, results []Result) error {
	if len(results) > MaxResults {
		return xerrors.Errorf("too many results to encode: %d", len(results))
	}
	scratch := make([]byte, 9)
	if err := cbg.WriteMajorTypeHeaderBuf(scratch, w, cbg.MajArray, uint64(len(results))); err != nil {
		return err
	}
	for i := range results {
		if err := results[i].MarshalCBOR(w); err != nil {
			return xerrors.Errorf("failed to encode result %d: %w", i, err)
		}
	}
	return nil
}

func UnmarshalResults(r io.Reader) ([]Result, error) {
	br := cbg.GetPeeker(r)
	scratch := make([]byte, 8)

	maj, extra, err := cbg.CborReadHeaderBuf(br, scratch)
	if err != nil {
		return nil, err
	}
	if maj != cbg.MajArray {
		return nil, fmt.Errorf("cbor input should be of type array")
	}
	if extra > MaxResults {
		return nil, fmt.Errorf("too many results: %d", extra)
	}

	results := make([]Result, extra)
	for i := range results {
		if err := results[i].UnmarshalCBOR(br); err != nil {
			return nil, xerrors.Errorf("failed to decode result %d: %w", i, err)
		}
	}
	return results, nil
}
