package detector

import (
	"encoding/json"
	"fmt"

	"github.com/tagscan/tagscan/internal/engine"
)

// Record is one detected tag in fixed layout.
//
// Corners are ordered {top-left, top-right, bottom-right, bottom-left}
// relative to the tag's encoded orientation; the engine, not this package,
// defines "top-left". An ID is unique within a family's code space but the
// same ID may legitimately appear twice in one image.
type Record struct {
	ID             int             `json:"id"              yaml:"id"`
	Hamming        int             `json:"hamming"         yaml:"hamming"`
	DecisionMargin float32         `json:"decision_margin" yaml:"decision_margin"`
	Corners        [4]engine.Point `json:"corners"         yaml:"corners"`
	Center         engine.Point    `json:"center"          yaml:"center"`
}

// Results is a transfer buffer of detection records produced by one
// detection call. Ownership transfers to the caller on return: the records
// stay valid until Release, which must be called exactly once per produced
// buffer. Release on the empty result set is a no-op, so the contract stays
// symmetric in the zero-detections case.
type Results struct {
	records []Record
	pooled  bool
}

// emptyResults is the shared zero-detections result. It owns no buffer, so
// releasing it never touches the pool.
var emptyResults = &Results{}

// Empty returns the shared empty result set.
func Empty() *Results { return emptyResults }

// newResults marshals engine detections into a pooled transfer buffer.
// Zero detections produce the shared empty set without allocating.
func newResults(dets []engine.Detection) *Results {
	if len(dets) == 0 {
		return emptyResults
	}
	records := getRecords(len(dets))
	for i, d := range dets {
		records[i] = Record{
			ID:             d.ID,
			Hamming:        d.Hamming,
			DecisionMargin: d.DecisionMargin,
			Corners:        d.Corners,
			Center:         d.Center,
		}
	}
	return &Results{records: records, pooled: true}
}

// Count returns the number of records in the buffer. Count is the value to
// branch on; an empty buffer is a valid "no detections" outcome, not an
// error.
func (r *Results) Count() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Records returns the backing record slice. It is valid until Release and
// must not be retained past it.
func (r *Results) Records() []Record {
	if r == nil {
		return nil
	}
	return r.records
}

// At returns the record at index i.
func (r *Results) At(i int) Record {
	return r.records[i]
}

// Release returns the buffer's backing memory to the pool. A second Release
// on the same buffer, or a Release of the empty set, is a no-op.
func (r *Results) Release() {
	if r == nil || !r.pooled {
		return
	}
	putRecords(r.records)
	r.records = nil
	r.pooled = false
}

// resultsJSON is the serializable form of a result set.
type resultsJSON struct {
	Family string   `json:"family"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Count  int      `json:"count"`
	Tags   []Record `json:"tags"`
}

// ResultsToJSON renders a result set with the image dimensions it was
// produced from.
func ResultsToJSON(r *Results, familyName string, width, height int) ([]byte, error) {
	out := resultsJSON{
		Family: familyName,
		Width:  width,
		Height: height,
		Count:  r.Count(),
		Tags:   make([]Record, 0, r.Count()),
	}
	out.Tags = append(out.Tags, r.Records()...)
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return b, nil
}
