package ipld

import (
	"sync"

	block "github.com/ipfs/go-block-format"
	cid "github.com/ipfs/go-cid"
	ipldcbor "github.com/ipfs/go-ipld-cbor"
	format "github.com/ipfs/go-ipld-format"
	"golang.org/x/xerrors"
)

// An in-memory block store, safe for concurrent use.
// Blocks are never evicted.
type BlockStoreInMemory struct {
	lk   sync.RWMutex
	data map[cid.Cid]block.Block
}

var _ ipldcbor.IpldBlockstore = (*BlockStoreInMemory)(nil)

func NewBlockStoreInMemory() *BlockStoreInMemory {
	return &BlockStoreInMemory{data: make(map[cid.Cid]block.Block)}
}

func (mb *BlockStoreInMemory) Get(c cid.Cid) (block.Block, error) {
	mb.lk.RLock()
	defer mb.lk.RUnlock()
	d, ok := mb.data[c]
	if ok {
		return d, nil
	}
	return nil, xerrors.Errorf("block %s: %w", c, format.ErrNotFound)
}

func (mb *BlockStoreInMemory) Put(b block.Block) error {
	mb.lk.Lock()
	defer mb.lk.Unlock()
	mb.data[b.Cid()] = b
	return nil
}

func (mb *BlockStoreInMemory) Has(c cid.Cid) bool {
	mb.lk.RLock()
	defer mb.lk.RUnlock()
	_, ok := mb.data[c]
	return ok
}

// Blocks in the store, in no particular order.
func (mb *BlockStoreInMemory) Blocks() []block.Block {
	mb.lk.RLock()
	defer mb.lk.RUnlock()
	out := make([]block.Block, 0, len(mb.data))
	for _, b := range mb.data {
		out = append(out, b)
	}
	return out
}

// Creates a new, empty IPLD store in memory.
func NewStore() (ipldcbor.IpldStore, *BlockStoreInMemory) {
	bs := NewBlockStoreInMemory()
	return ipldcbor.NewCborStore(bs), bs
}
