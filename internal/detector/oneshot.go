package detector

import (
	"log/slog"

	"github.com/tagscan/tagscan/internal/engine"
)

// DetectOnce performs construct, detect, destroy as one self-contained call:
// a transient handle is built for the named family, detection runs over the
// image view, and the handle is torn down before the results are returned.
// No state survives the call, so repeated calls re-pay full setup cost;
// reuse a Detector for the fast path.
//
// An unrecognized family name yields the empty result set and
// family.ErrUnknownFamily without allocating anything. The returned buffer
// follows the usual ownership contract: the caller must Release it.
func DetectOnce(img *engine.Image, familyName string, opts Options) (*Results, error) {
	d, err := New(familyName, opts)
	if err != nil {
		return Empty(), err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil {
			slog.Warn("one-shot detector close failed", "family", familyName, "error", cerr)
		}
	}()

	return d.Detect(img)
}
