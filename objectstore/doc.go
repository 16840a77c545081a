// Package objectstore provides postbox.Presigner backends for the object
// stores that receive image uploads.
//
// # Backends
//
//   - s3: AWS S3 or any S3-compatible store (MinIO, R2, Stowry's S3 mode)
//     through the AWS SDK presign client
//   - stowry: a Stowry server using its native query-string signing
//
// Presigning is computed locally from credentials. No backend makes a
// network call to produce a URL, and none checks that an uploaded object
// exists.
//
// # Usage
//
//	presigner, err := objectstore.New(ctx, objectstore.Config{
//	    Backend: "s3",
//	    Region:  "us-east-1",
//	    Bucket:  "blog-images",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	uploads, err := postbox.NewUploadManager(presigner, postbox.UploadConfig{Prefix: "uploads/"})
package objectstore
