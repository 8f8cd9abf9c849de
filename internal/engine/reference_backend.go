//go:build reference

package engine

/*
#cgo pkg-config: apriltag
#cgo LDFLAGS: -lm -lpthread
#include <stdlib.h>
#include "apriltag.h"
#include "tag16h5.h"
#include "tag25h9.h"
#include "tag36h11.h"
#include "tagCircle21h7.h"
#include "tagCircle49h12.h"
#include "tagCustom48h12.h"
#include "tagStandard41h12.h"
#include "tagStandard52h13.h"

// zarray_get is variadic-ish through macros; give cgo a plain accessor.
static apriltag_detection_t *detection_at(zarray_t *arr, int i) {
	apriltag_detection_t *det = NULL;
	zarray_get(arr, i, &det);
	return det;
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// familyOps is the capability pair for one tag family: the matching
// create/destroy routines from the reference library.
type familyOps struct {
	create  func() *C.apriltag_family_t
	destroy func(*C.apriltag_family_t)
}

// familyTable keys the reference library's constructor/destructor pairs by
// registry name. Evaluated once; replaces the original bridge's chain of
// string comparisons.
var familyTable = map[string]familyOps{
	"tag16h5": {
		create:  func() *C.apriltag_family_t { return C.tag16h5_create() },
		destroy: func(f *C.apriltag_family_t) { C.tag16h5_destroy(f) },
	},
	"tag25h9": {
		create:  func() *C.apriltag_family_t { return C.tag25h9_create() },
		destroy: func(f *C.apriltag_family_t) { C.tag25h9_destroy(f) },
	},
	"tag36h11": {
		create:  func() *C.apriltag_family_t { return C.tag36h11_create() },
		destroy: func(f *C.apriltag_family_t) { C.tag36h11_destroy(f) },
	},
	"tagCircle21h7": {
		create:  func() *C.apriltag_family_t { return C.tagCircle21h7_create() },
		destroy: func(f *C.apriltag_family_t) { C.tagCircle21h7_destroy(f) },
	},
	"tagCircle49h12": {
		create:  func() *C.apriltag_family_t { return C.tagCircle49h12_create() },
		destroy: func(f *C.apriltag_family_t) { C.tagCircle49h12_destroy(f) },
	},
	"tagCustom48h12": {
		create:  func() *C.apriltag_family_t { return C.tagCustom48h12_create() },
		destroy: func(f *C.apriltag_family_t) { C.tagCustom48h12_destroy(f) },
	},
	"tagStandard41h12": {
		create:  func() *C.apriltag_family_t { return C.tagStandard41h12_create() },
		destroy: func(f *C.apriltag_family_t) { C.tagStandard41h12_destroy(f) },
	},
	"tagStandard52h13": {
		create:  func() *C.apriltag_family_t { return C.tagStandard52h13_create() },
		destroy: func(f *C.apriltag_family_t) { C.tagStandard52h13_destroy(f) },
	},
}

// newDefaultBackend returns the reference C library backend when the
// `reference` build tag is enabled.
func newDefaultBackend() (Backend, error) { return &referenceBackend{}, nil }

type referenceBackend struct{}

func (b *referenceBackend) Name() string { return "reference" }

func (b *referenceBackend) Open(familyName string, cfg Config) (Engine, error) {
	ops, ok := familyTable[familyName]
	if !ok {
		return nil, fmt.Errorf("reference backend has no capability for family %q", familyName)
	}

	fam := ops.create()
	if fam == nil {
		return nil, fmt.Errorf("reference backend failed to create family %q", familyName)
	}

	td := C.apriltag_detector_create()
	C.apriltag_detector_add_family(td, fam)
	td.quad_decimate = C.float(cfg.QuadDecimate)
	td.nthreads = C.int(cfg.Threads)

	return &referenceEngine{td: td, fam: fam, destroyFam: ops.destroy}, nil
}

// referenceEngine owns exactly one detector instance and one family
// capability. Detection calls are serialized by the caller per the Engine
// contract; the mutex only guards Detect against a concurrent Close.
type referenceEngine struct {
	mu         sync.Mutex
	td         *C.apriltag_detector_t
	fam        *C.apriltag_family_t
	destroyFam func(*C.apriltag_family_t)
}

func (e *referenceEngine) Detect(img *Image) ([]Detection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.td == nil {
		return nil, fmt.Errorf("detect on closed reference engine")
	}

	// Non-owning view over the caller's buffer. The library does not
	// mutate the image, and the pointer does not escape the call.
	im := C.image_u8_t{
		width:  C.int32_t(img.Width),
		height: C.int32_t(img.Height),
		stride: C.int32_t(img.Stride),
		buf:    (*C.uint8_t)(unsafe.Pointer(&img.Pix[0])),
	}

	dets := C.apriltag_detector_detect(e.td, &im)
	defer C.apriltag_detections_destroy(dets)

	n := int(C.zarray_size(dets))
	if n == 0 {
		return nil, nil
	}

	out := make([]Detection, n)
	for i := range n {
		det := C.detection_at(dets, C.int(i))
		d := Detection{
			ID:             int(det.id),
			Hamming:        int(det.hamming),
			DecisionMargin: float32(det.decision_margin),
			Center:         Point{X: float64(det.c[0]), Y: float64(det.c[1])},
		}
		for j := range 4 {
			d.Corners[j] = Point{X: float64(det.p[j][0]), Y: float64(det.p[j][1])}
		}
		out[i] = d
	}
	return out, nil
}

func (e *referenceEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.td == nil {
		return nil
	}
	// Detector first: it may hold references into the family's decoding
	// tables.
	C.apriltag_detector_destroy(e.td)
	e.td = nil
	e.destroyFam(e.fam)
	e.fam = nil
	return nil
}
