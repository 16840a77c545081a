// Package clientcli provides a client library for the postbox blog API.
//
// It covers login, post CRUD and image uploads. Uploads go in two steps:
// the server hands out a presigned PUT URL and the client sends the file
// bytes straight to the object store. The package includes profile-based
// configuration so a token obtained by login can be reused.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://localhost:8000/api",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := client.Login(ctx, "admin@example.com", password); err != nil {
//		log.Fatal(err)
//	}
//
//	upload, err := client.Upload(ctx, clientcli.UploadOptions{LocalPath: "./cover.png"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	post, err := client.CreatePost(ctx, clientcli.CreatePostOptions{
//		Title:    "Hello",
//		Content:  "<p>First post</p>",
//		ImageKey: &upload.Key,
//	})
//
// # Profile Configuration
//
// Profiles live in ~/.postbox/config.yaml:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatPosts(os.Stdout, posts)
package clientcli
