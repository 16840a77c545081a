package main

import (
	"os"

	"github.com/sagarc03/postbox/clientcli"
	"github.com/spf13/cobra"
)

var uploadContentType string

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload an image to the object store",
	Long: `Upload an image to the object store.

The server presigns a PUT URL and the file bytes go straight to the store.
The printed key can be attached to a post with --image-key.

Examples:
  postbox-cli upload ./cover.png
  postbox-cli upload --content-type image/webp ./cover
  KEY=$(postbox-cli upload -q ./cover.png)`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "override content-type")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := getAuthedClient()
	if err != nil {
		return err
	}

	result, err := client.Upload(cmd.Context(), clientcli.UploadOptions{
		LocalPath:   args[0],
		ContentType: uploadContentType,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}
