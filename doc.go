// Package postbox provides the core of a small blogging backend: posts,
// credential checks with signed bearer tokens, and direct-to-object-storage
// image uploads through presigned URLs.
//
// Postbox never handles image bytes. Clients ask for a presigned PUT URL,
// upload straight to the object store, and reference the returned key from a
// post's image_key.
//
// # Key Components
//
//   - PostService: CRUD over posts backed by a PostRepo (PostgreSQL, SQLite)
//   - TokenIssuer: HS256 JWT issue and verify with an injectable clock
//   - Authenticator: email/password login and bearer token identification
//   - UploadManager: namespaced object keys and presigned URL delegation
//   - Presigner: interface for object store backends (S3, Stowry)
//
// # Example Usage
//
//	posts := postbox.NewPostService(db.PostRepo(), postbox.PostServiceConfig{})
//
//	post, err := posts.Create(ctx, postbox.PostInput{Title: "Hello", Content: "World"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tokens, _ := postbox.NewTokenIssuer([]byte(secret), time.Hour)
//	auth, err := postbox.NewAuthenticator(db.UserRepo(), tokens)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := auth.Authenticate(ctx, "ana@example.com", "s3cret")
//
// See the http package for the REST API and the database package for the
// persistence backends.
package postbox
