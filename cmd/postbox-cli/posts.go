package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sagarc03/postbox/clientcli"
	"github.com/spf13/cobra"
)

var (
	listSkip  int
	listLimit int

	postTitle       string
	postContent     string
	postContentFile string
	postImageKey    string
	postImage       string

	deleteYes bool
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"post"},
	Short:   "Read and manage blog posts",
}

var postsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List posts, newest first",
	Long: `List posts, newest first.

Examples:
  postbox-cli posts list
  postbox-cli posts list --limit 5 --skip 10
  postbox-cli posts list --json`,
	Args: cobra.NoArgs,
	RunE: runPostsList,
}

var postsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostsGet,
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Long: `Create a post.

Content may be given inline or read from a file ("-" reads stdin). With
--image the file is uploaded first and its key attached to the post.

Examples:
  postbox-cli posts create --title "Hello" --content "<p>First post</p>"
  postbox-cli posts create --title "Trip" --content-file trip.html --image ./cover.jpg
  postbox-cli posts create --title "Reuse" --content "..." --image-key uploads/abc.png`,
	Args: cobra.NoArgs,
	RunE: runPostsCreate,
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a post",
	Long: `Update fields of a post. Only the flags given are changed.

Examples:
  postbox-cli posts update 3 --title "New title"
  postbox-cli posts update 3 --content-file body.html
  postbox-cli posts update 3 --image ./new-cover.png`,
	Args: cobra.ExactArgs(1),
	RunE: runPostsUpdate,
}

var postsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a post",
	Args:    cobra.ExactArgs(1),
	RunE:    runPostsDelete,
}

func init() {
	postsListCmd.Flags().IntVar(&listSkip, "skip", 0, "number of posts to skip")
	postsListCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "max posts to return (server default when 0)")

	for _, c := range []*cobra.Command{postsCreateCmd, postsUpdateCmd} {
		c.Flags().StringVar(&postTitle, "title", "", "post title")
		c.Flags().StringVar(&postContent, "content", "", "post content (HTML)")
		c.Flags().StringVar(&postContentFile, "content-file", "", "read content from file, - for stdin")
		c.Flags().StringVar(&postImageKey, "image-key", "", "key of an already uploaded image")
		c.Flags().StringVar(&postImage, "image", "", "upload this image and attach it")
		c.MarkFlagsMutuallyExclusive("content", "content-file")
		c.MarkFlagsMutuallyExclusive("image", "image-key")
	}
	_ = postsCreateCmd.MarkFlagRequired("title")

	postsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsGetCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsUpdateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
}

func runPostsList(cmd *cobra.Command, _ []string) error {
	if listSkip < 0 {
		return errors.New("--skip must not be negative")
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	posts, err := client.ListPosts(cmd.Context(), clientcli.ListOptions{Skip: listSkip, Limit: listLimit})
	if err != nil {
		return err
	}

	return getFormatter().FormatPosts(os.Stdout, posts)
}

func runPostsGet(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	post, err := client.GetPost(cmd.Context(), id)
	if err != nil {
		return err
	}

	return getFormatter().FormatPost(os.Stdout, post)
}

func runPostsCreate(cmd *cobra.Command, _ []string) error {
	content, hasContent, err := readContent(cmd)
	if err != nil {
		return err
	}
	if !hasContent {
		return errors.New("one of --content or --content-file is required")
	}

	client, err := getAuthedClient()
	if err != nil {
		return err
	}

	imageKey, err := resolveImageKey(cmd, client)
	if err != nil {
		return err
	}

	post, err := client.CreatePost(cmd.Context(), clientcli.CreatePostOptions{
		Title:    postTitle,
		Content:  content,
		ImageKey: imageKey,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatPost(os.Stdout, post)
}

func runPostsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}

	var opts clientcli.UpdatePostOptions
	if cmd.Flags().Changed("title") {
		opts.Title = &postTitle
	}

	content, hasContent, err := readContent(cmd)
	if err != nil {
		return err
	}
	if hasContent {
		opts.Content = &content
	}

	client, err := getAuthedClient()
	if err != nil {
		return err
	}

	if opts.ImageKey, err = resolveImageKey(cmd, client); err != nil {
		return err
	}

	if opts.IsEmpty() {
		return errors.New("nothing to update: pass --title, --content, --content-file, --image or --image-key")
	}

	post, err := client.UpdatePost(cmd.Context(), id, opts)
	if err != nil {
		return err
	}

	return getFormatter().FormatPost(os.Stdout, post)
}

func runPostsDelete(cmd *cobra.Command, args []string) error {
	id, err := parsePostID(args[0])
	if err != nil {
		return err
	}

	if !deleteYes && !confirm(fmt.Sprintf("Delete post %d", id)) {
		fmt.Println("Cancelled.")
		return nil
	}

	client, err := getAuthedClient()
	if err != nil {
		return err
	}

	if err := client.DeletePost(cmd.Context(), id); err != nil {
		return err
	}

	return getFormatter().FormatDeleted(os.Stdout, id)
}

func parsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", raw)
	}
	return id, nil
}

// readContent returns the content from --content or --content-file and
// whether either was given.
func readContent(cmd *cobra.Command) (string, bool, error) {
	if cmd.Flags().Changed("content") {
		return postContent, true, nil
	}
	if postContentFile == "" {
		return "", false, nil
	}

	var (
		data []byte
		err  error
	)
	if postContentFile == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(postContentFile) //#nosec G304 -- path is user-provided input
	}
	if err != nil {
		return "", false, fmt.Errorf("read content: %w", err)
	}
	return string(data), true, nil
}

// resolveImageKey uploads --image when given, or passes --image-key through.
func resolveImageKey(cmd *cobra.Command, client *clientcli.Client) (*string, error) {
	if postImage != "" {
		result, err := client.Upload(cmd.Context(), clientcli.UploadOptions{LocalPath: postImage})
		if err != nil {
			return nil, err
		}
		if !quiet && !jsonOutput {
			_, _ = fmt.Fprintf(os.Stderr, "Uploaded %s as %s\n", postImage, result.Key)
		}
		return &result.Key, nil
	}
	if cmd.Flags().Changed("image-key") {
		return &postImageKey, nil
	}
	return nil, nil
}
