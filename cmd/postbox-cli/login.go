package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/postbox/clientcli"
	"github.com/spf13/cobra"
)

const fallbackProfile = "default"

var (
	loginEmail         string
	loginPassword      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store an access token",
	Long: `Log in with an email and password and store the access token on the
selected profile. The profile is created when it does not exist yet.

Examples:
  postbox-cli login
  postbox-cli login --email admin@example.com
  echo "$PASSWORD" | postbox-cli login --email admin@example.com --password-stdin
  postbox-cli -p prod -e https://blog.example.com/api login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the token belongs to",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prefer the prompt or --password-stdin)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(true)
	if err != nil {
		return err
	}

	email := loginEmail
	if email == "" {
		prompt := promptui.Prompt{
			Label: "Email",
			Validate: func(input string) error {
				if !strings.Contains(input, "@") {
					return errors.New("enter an email address")
				}
				return nil
			},
		}
		if email, err = prompt.Run(); err != nil {
			return handlePromptError(err)
		}
	}

	password, err := readLoginPassword()
	if err != nil {
		return err
	}

	// A stale token must not ride along on the login request.
	cfg.Token = ""
	client, err := clientcli.New(cfg)
	if err != nil {
		return err
	}

	accessToken, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	file, err := loadConfigFile()
	if err != nil {
		return err
	}

	name := resolveProfileForWrite(file)
	file.SetToken(name, client.Endpoint(), email, accessToken)

	if err := file.Save(getConfigPath()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	return getFormatter().FormatLogin(os.Stdout, name, email)
}

func readLoginPassword() (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}

	if loginPasswordStdin {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	password, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return password, nil
}

// resolveProfileForWrite picks the profile a login is stored on: the one
// selected by flag or env, else the default, else "default".
func resolveProfileForWrite(file *clientcli.ConfigFile) string {
	if name := getProfileName(); name != "" {
		return name
	}
	if p, err := file.GetDefaultProfile(); err == nil {
		return p.Name
	}
	return fallbackProfile
}

func runLogout(_ *cobra.Command, _ []string) error {
	file, err := loadConfigFile()
	if err != nil {
		return err
	}

	p, err := file.GetProfile(getProfileName())
	if err != nil {
		return err
	}

	p.Token = ""
	if err := file.Save(getConfigPath()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if !quiet && !jsonOutput {
		fmt.Printf("Logged out of profile '%s'.\n", p.Name)
	}
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	client, err := getAuthedClient()
	if err != nil {
		return err
	}

	user, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatUser(os.Stdout, user)
}
