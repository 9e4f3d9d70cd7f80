package matcher

import (
	"context"
	"log/slog"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/orbmatch/catalog"
	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/hupe1980/orbmatch/distance"
)

// Result is one ranked template.
type Result struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
	// Keypoints holds the sorted indices of the query descriptors that
	// passed the ratio test. Only set when Options.Keypoints is true.
	Keypoints []uint32 `json:"keypoints,omitempty"`
}

// ReferenceProvider supplies the loaded reference set of a category.
// *catalog.Cache implements it.
type ReferenceProvider interface {
	EnsureLoaded(ctx context.Context, category string) (*catalog.ReferenceSet, error)
}

// Matcher matches queries against lazily loaded categories.
type Matcher struct {
	refs   ReferenceProvider
	logger *slog.Logger
}

// New creates a Matcher. A nil logger discards output.
func New(refs ReferenceProvider, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Matcher{refs: refs, logger: logger}
}

// Match ranks the category's templates against query.
//
// An empty query returns an empty list without loading the category. A
// category whose artifact is missing or malformed yields an empty list and
// a warning. Other load failures are returned as errors.
func (m *Matcher) Match(ctx context.Context, query descriptor.Collection, category string, opts Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(query) == 0 {
		return []Result{}, nil
	}

	set, err := m.refs.EnsureLoaded(ctx, category)
	if err != nil {
		if catalog.IsTerminal(err) {
			m.logger.WarnContext(ctx, "no reference set for category",
				slog.String("category", category),
				slog.Any("error", err),
			)
			return []Result{}, nil
		}
		return nil, err
	}

	return Rank(ctx, query, set.Entries(), opts)
}

// Rank scores every entry against query in enumeration order and returns
// the filtered, sorted and truncated list. Entries without descriptors are
// skipped regardless of threshold. The context is checked between templates.
func Rank(ctx context.Context, query descriptor.Collection, entries []catalog.Entry, opts Options) ([]Result, error) {
	results := make([]Result, 0)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(e.Descriptors) == 0 {
			continue
		}

		var conf int
		var kp []uint32
		if opts.Keypoints {
			bm := ScoreBitmap(query, e.Descriptors, opts.Ratio)
			conf, kp = int(bm.GetCardinality()), bm.ToArray()
		} else {
			conf = Score(query, e.Descriptors, opts.Ratio)
		}

		if conf < opts.Threshold {
			continue
		}

		results = append(results, Result{Name: e.Name, Confidence: conf, Keypoints: kp})
		if opts.EarlyExit {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	if opts.TopN > 0 && len(results) > opts.TopN {
		results = results[:opts.TopN]
	}
	return results, nil
}

// Score returns the number of query descriptors whose two nearest
// neighbors in ref pass the ratio test. A reference with fewer than two
// descriptors has no second neighbor and scores 0.
func Score(query, ref descriptor.Collection, ratio float64) int {
	if len(ref) < 2 {
		return 0
	}

	n := 0
	for i := range query {
		if goodMatch(&query[i], ref, ratio) {
			n++
		}
	}
	return n
}

// ScoreBitmap is Score, reporting which query descriptors matched.
func ScoreBitmap(query, ref descriptor.Collection, ratio float64) *roaring.Bitmap {
	bm := roaring.New()
	if len(ref) < 2 {
		return bm
	}

	for i := range query {
		if goodMatch(&query[i], ref, ratio) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

func goodMatch(q *descriptor.Descriptor, ref descriptor.Collection, ratio float64) bool {
	d1, d2 := distance.MaxHamming+1, distance.MaxHamming+1
	for j := range ref {
		d := distance.Hamming(q, &ref[j])
		if d < d1 {
			d1, d2 = d, d1
		} else if d < d2 {
			d2 = d
		}
	}
	return float64(d1) < ratio*float64(d2)
}
