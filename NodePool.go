package nodestore

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

//============================================= Node Proxy Pool
//
// Per-kind-family sync.Pool recycling, grounded on the teacher's NodePool.go
// (MariNodePool: one sync.Pool per node type, an atomic size counter, Get/Put/reset).
// Generalized from the teacher's two node types (internal/leaf) to our three proxy
// families (Container/ObjectKey/Value), with each family's counter padded to its own
// cache line so concurrent Get/Put across families never cause false sharing.

// NodeProxyPool recycles proxy instances per family instead of leaving allocation and
// collection to the garbage collector, mirroring the teacher's rationale for
// MariNodePool under concurrent readers/writers.
type NodeProxyPool struct {
	MaxSize int64

	containerPool *sync.Pool
	objectKeyPool *sync.Pool
	valuePool     *sync.Pool

	containerSize paddedCounter
	objectKeySize paddedCounter
	valueSize     paddedCounter
}

// paddedCounter pads an int64 counter out to a full cache line so three counters
// updated by unrelated goroutines never share a cache line (§5 concurrency: multiple
// read-only proxies may bind concurrently).
type paddedCounter struct {
	n   int64
	_   cpu.CacheLinePad
}

// NewNodeProxyPool creates a pool and pre-warms each family to maxSize/2, matching the
// teacher's initializePools split.
func NewNodeProxyPool(maxSize int64) *NodeProxyPool {
	np := &NodeProxyPool{MaxSize: maxSize}

	np.containerPool = &sync.Pool{New: func() interface{} { return &ContainerNode{} }}
	np.objectKeyPool = &sync.Pool{New: func() interface{} { return &ObjectKeyNode{} }}
	np.valuePool = &sync.Pool{New: func() interface{} { return &ValueNode{} }}

	np.initializePools()
	return np
}

func (np *NodeProxyPool) initializePools() {
	half := np.MaxSize / 2
	for i := int64(0); i < half; i++ {
		np.containerPool.Put(&ContainerNode{})
		atomic.AddInt64(&np.containerSize.n, 1)

		np.objectKeyPool.Put(&ObjectKeyNode{})
		atomic.AddInt64(&np.objectKeySize.n, 1)

		np.valuePool.Put(&ValueNode{})
		atomic.AddInt64(&np.valueSize.n, 1)
	}
}

// GetContainer fetches a pre-allocated or fresh ContainerNode from the pool, reset to an
// empty Owned-state shell (kind and nodeKey cleared) ready for Bind or readFrom.
func (np *NodeProxyPool) GetContainer() *ContainerNode {
	n := np.containerPool.Get().(*ContainerNode)
	if atomic.LoadInt64(&np.containerSize.n) > 0 {
		atomic.AddInt64(&np.containerSize.n, -1)
	}
	n.resetCore()
	return n
}

// PutContainer returns node to the pool once its bound page has been released, unless
// the pool is already at capacity.
func (np *NodeProxyPool) PutContainer(n *ContainerNode) {
	if atomic.LoadInt64(&np.containerSize.n) < np.MaxSize {
		n.resetCore()
		np.containerPool.Put(n)
		atomic.AddInt64(&np.containerSize.n, 1)
	}
}

func (np *NodeProxyPool) GetObjectKey() *ObjectKeyNode {
	n := np.objectKeyPool.Get().(*ObjectKeyNode)
	if atomic.LoadInt64(&np.objectKeySize.n) > 0 {
		atomic.AddInt64(&np.objectKeySize.n, -1)
	}
	n.resetCore()
	return n
}

func (np *NodeProxyPool) PutObjectKey(n *ObjectKeyNode) {
	if atomic.LoadInt64(&np.objectKeySize.n) < np.MaxSize {
		n.resetCore()
		np.objectKeyPool.Put(n)
		atomic.AddInt64(&np.objectKeySize.n, 1)
	}
}

func (np *NodeProxyPool) GetValue() *ValueNode {
	n := np.valuePool.Get().(*ValueNode)
	if atomic.LoadInt64(&np.valueSize.n) > 0 {
		atomic.AddInt64(&np.valueSize.n, -1)
	}
	n.resetCore()
	return n
}

func (np *NodeProxyPool) PutValue(n *ValueNode) {
	if atomic.LoadInt64(&np.valueSize.n) < np.MaxSize {
		n.resetCore()
		np.valuePool.Put(n)
		atomic.AddInt64(&np.valueSize.n, 1)
	}
}
