package main

import (
	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/sector-penalty/actors/builtin/miner"
	"github.com/filecoin-project/sector-penalty/support/estimator"
)

func main() {
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/miner/cbor_gen.go", "miner",
		// sector state
		miner.SectorOnChainInfo{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./support/estimator/cbor_gen.go", "estimator",
		// batch output
		estimator.Result{},
	); err != nil {
		panic(err)
	}
}
