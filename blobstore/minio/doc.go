// Package minio provides a blobstore.Store implementation using the MinIO
// client, for sharing sequence and profile databases through S3-compatible
// object storage.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "databases/")
//	data, err := blobstore.Fetch(ctx, store, "pfam.hgp", controller)
//
// Works with any S3-compatible storage (MinIO, Ceph, Garage, SeaweedFS).
package minio
