// Package orbmatch identifies game images by matching their ORB feature
// descriptors against pre-computed reference templates.
//
// Templates are grouped into categories (such as "weapon/main" or "chara").
// Each category's references live in one cache artifact and are loaded on
// first use, exactly once, then kept in memory for the engine's lifetime.
//
// # Quick Start
//
// Local mode:
//
//	ctx := context.Background()
//	eng, _ := orbmatch.Open(ctx, orbmatch.Local("./cache"))
//	defer eng.Close()
//
//	results, _ := eng.Match(ctx, query, "weapon/main")
//	for _, r := range results {
//	    fmt.Println(r.Name, r.Confidence)
//	}
//
// Cloud mode:
//
//	store, _ := s3.New(ctx, "my-bucket", "orbmatch/")
//	eng, _ := orbmatch.Open(ctx, orbmatch.Remote(store))
//
// DynamoDB:
//
//	src, _ := dynamo.New(ctx, "orbmatch-artifacts")
//	eng, _ := orbmatch.Open(ctx, orbmatch.FromSource(src))
//
// # Matching
//
// For every query descriptor the two nearest reference descriptors of a
// template are found by Hamming distance. The query descriptor counts as a
// good match when the nearest distance is strictly below ratio times the
// second-nearest. A template's confidence is its number of good matches.
//
// Templates with confidence below the threshold are dropped, the rest are
// sorted by descending confidence (ties keep template order) and truncated:
//
//	results, _ := eng.Match(ctx, query, "chara",
//	    orbmatch.WithThreshold(15),
//	    orbmatch.WithTopN(5),
//	)
//
// WithEarlyExit stops at the first template reaching the threshold, which
// is useful when any sufficiently strong match is good enough.
//
// # Batches
//
// MatchEncoded accepts base64 encoded descriptor blobs as they arrive over
// the wire and returns one result (or error) per blob:
//
//	batch, _ := eng.MatchEncoded(ctx, "weapon/normal", blobs)
//	for i, r := range batch {
//	    if r.Err != nil {
//	        log.Printf("blob %d: %v", i, r.Err)
//	        continue
//	    }
//	    fmt.Println(r.Matches)
//	}
//
// # Loading
//
// A missing or malformed artifact marks its category load-failed for good;
// matches against it return an empty list. Storage I/O failures, load
// timeouts and memory budget rejections are transient and retried by the
// next caller. Warmup loads every category up front.
package orbmatch
