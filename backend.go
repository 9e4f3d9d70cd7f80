package orbmatch

import (
	"context"
	"io"

	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/hupe1980/orbmatch/blobstore/sqlite"
	"github.com/hupe1980/orbmatch/resource"
)

// Backend tells Open where the cache artifacts live.
//
// Use Local, Remote, SQLite or FromSource to create one.
type Backend interface {
	source(ctx context.Context, o *options, rc *resource.Controller) (artifact.Source, io.Closer, error)
}

type localBackend struct {
	dir string
}

// Local serves artifacts from a directory, one file per category
// (e.g. "<dir>/weapon/main.json").
func Local(dir string) Backend {
	return localBackend{dir: dir}
}

func (b localBackend) source(_ context.Context, o *options, rc *resource.Controller) (artifact.Source, io.Closer, error) {
	return newBlobSource(blobstore.NewLocalStore(b.dir), o, rc), nil, nil
}

type remoteBackend struct {
	store blobstore.BlobStore
}

// Remote serves artifacts from any BlobStore (S3, MinIO, ...).
// The caller keeps ownership of the store.
//
// Example:
//
//	store, _ := s3.New(ctx, "my-bucket", "orbmatch/")
//	eng, _ := orbmatch.Open(ctx, orbmatch.Remote(store))
func Remote(store blobstore.BlobStore) Backend {
	return remoteBackend{store: store}
}

func (b remoteBackend) source(_ context.Context, o *options, rc *resource.Controller) (artifact.Source, io.Closer, error) {
	return newBlobSource(b.store, o, rc), nil, nil
}

type sqliteBackend struct {
	path string
}

// SQLite serves artifacts stored as rows of a SQLite database file.
// The engine opens the database and closes it on Close.
func SQLite(path string) Backend {
	return sqliteBackend{path: path}
}

func (b sqliteBackend) source(_ context.Context, o *options, rc *resource.Controller) (artifact.Source, io.Closer, error) {
	store, err := sqlite.Open(b.path)
	if err != nil {
		return nil, nil, err
	}
	return newBlobSource(store, o, rc), store, nil
}

type sourceBackend struct {
	src artifact.Source
}

// FromSource serves artifacts from an arbitrary artifact.Source, such as
// the DynamoDB source in artifact/dynamo.
func FromSource(src artifact.Source) Backend {
	return sourceBackend{src: src}
}

func (b sourceBackend) source(context.Context, *options, *resource.Controller) (artifact.Source, io.Closer, error) {
	return b.src, nil, nil
}

func newBlobSource(store blobstore.BlobStore, o *options, rc *resource.Controller) *artifact.BlobSource {
	return artifact.NewBlobSource(store,
		artifact.WithCodec(o.codec),
		artifact.WithSuffix(o.suffix),
		artifact.WithController(rc),
	)
}
