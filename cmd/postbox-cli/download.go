package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <key> [local-path]",
	Short: "Download an uploaded image",
	Long: `Download an uploaded image through a presigned GET URL.

Examples:
  postbox-cli download uploads/abc.png
  postbox-cli download uploads/abc.png ./cover.png
  postbox-cli download --stdout uploads/abc.png > cover.png`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

var urlCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Print a presigned GET URL for an uploaded image",
	Args:  cobra.ExactArgs(1),
	RunE:  runURL,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(cmd *cobra.Command, args []string) error {
	key := args[0]

	localPath := filepath.Base(key)
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	if downloadStdout {
		_, err := client.Download(cmd.Context(), key, os.Stdout)
		return err
	}

	file, err := os.OpenFile(filepath.Clean(localPath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //#nosec G304 -- path is user-provided input
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	n, err := client.Download(cmd.Context(), key, file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close file: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(localPath)
		return err
	}

	return getFormatter().FormatDownload(os.Stdout, key, localPath, n)
}

func runURL(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	presigned, err := client.PresignGet(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return getFormatter().FormatURL(os.Stdout, presigned)
}
