package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sagarc03/postbox/clientcli"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	token       string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "postbox-cli",
	Version: version,
	Short:   "Client for the postbox blog API",
	Long: `Postbox CLI - Client for the postbox blog API

Log in once with 'postbox-cli login'; the access token is stored on the
selected profile and reused by later commands until it expires.

Images are uploaded straight to the object store through a presigned URL
handed out by the server. Attach the returned key to a post with
--image-key.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.postbox/config.yaml, env: POSTBOX_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: POSTBOX_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "API base URL (default: "+clientcli.DefaultEndpoint+", env: POSTBOX_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "access token (env: POSTBOX_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(urlCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// getConfigPath resolves the config file from flag, env, then default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// getProfileName resolves the selected profile from flag then env.
// Empty means the default profile.
func getProfileName() string {
	if profileName != "" {
		return profileName
	}
	return clientcli.ProfileFromEnv()
}

// loadConfigFile loads the config file, treating a missing file as empty.
func loadConfigFile() (*clientcli.ConfigFile, error) {
	cfg, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &clientcli.ConfigFile{}, nil
		}
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	return resolveConfig(false)
}

// resolveConfig is buildConfig with an option to tolerate a selected
// profile that does not exist yet.
func resolveConfig(allowMissingProfile bool) (*clientcli.Config, error) {
	var configs []*clientcli.Config

	file, err := loadConfigFile()
	if err != nil {
		return nil, err
	}

	name := getProfileName()
	profile, err := file.GetProfile(name)
	switch {
	case err == nil:
		configs = append(configs, clientcli.ConfigFromProfile(profile))
	case errors.Is(err, clientcli.ErrNoProfiles) && name == "":
		// Nothing configured yet; env and flags may still be enough.
	case allowMissingProfile && (errors.Is(err, clientcli.ErrNoProfiles) || errors.Is(err, clientcli.ErrProfileNotFound)):
	default:
		return nil, err
	}

	configs = append(configs, clientcli.ConfigFromEnv())
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		Token:    token,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}

// getAuthedClient is getClient for commands that need a token.
func getAuthedClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}
