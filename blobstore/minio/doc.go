// Package minio provides a blobstore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible object stores such as Ceph,
// SeaweedFS and Garage, and needs no AWS SDK configuration.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "catalog", "orb/")
//	eng, err := orbmatch.Open(ctx, orbmatch.Remote(store))
package minio
