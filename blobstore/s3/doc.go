// Package s3 provides a blobstore implementation backed by Amazon S3.
//
// Artifacts are opened with a HeadObject call and read with ranged
// GetObject requests. Writes go through the SDK upload manager so large
// artifacts are sent as multipart uploads.
//
//	store, err := s3.New(ctx, "catalog-bucket", "orb/")
//	src := artifact.NewBlobSource(store)
package s3
