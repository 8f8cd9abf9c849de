package detector

import (
	"sync"
	"sync/atomic"
)

// A sized pool for []Record buffers so repeated detections on the fast path
// do not re-allocate result storage. Acquire/release counts are tracked so
// tests can verify that every produced buffer is released exactly once.

var (
	recordPools sync.Map // key: size class (int), value: *sync.Pool
	poolGets    atomic.Int64
	poolPuts    atomic.Int64
)

// recordSizeClass rounds n up to a small bucket to reduce churn.
func recordSizeClass(n int) int {
	const step = 16
	if n <= step {
		return step
	}
	r := (n + step - 1) / step
	return r * step
}

// getRecords retrieves a []Record buffer of length n from the pool.
// The caller must return it via putRecords when done.
func getRecords(n int) []Record {
	cls := recordSizeClass(n)
	pAny, _ := recordPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]Record, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]Record, n)
	}
	buf, ok := p.Get().([]Record)
	if !ok || cap(buf) < cls {
		buf = make([]Record, cls)
	}
	poolGets.Add(1)
	return buf[:n]
}

// putRecords returns a buffer to the pool. Safe to pass a nil slice.
func putRecords(buf []Record) {
	if buf == nil {
		return
	}
	cls := recordSizeClass(cap(buf))
	pAny, _ := recordPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]Record, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return
	}
	poolPuts.Add(1)
	p.Put(buf[:cap(buf)]) //nolint:staticcheck
}

// PoolStats reports cumulative buffer acquisitions and releases. A balanced
// pair after all results have been released means no leaked buffers.
func PoolStats() (gets, puts int64) {
	return poolGets.Load(), poolPuts.Load()
}
