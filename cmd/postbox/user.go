package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/config"
	"github.com/sagarc03/postbox/provision"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long: `Add, import, and remove user accounts. There is no registration
endpoint; this is the only way to create users.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Add a user",
	Long: `Add a user with the given email. The password is read from an
interactive masked prompt unless --password is given.

Examples:
  # Prompt for the password
  postbox user add editor@example.com

  # Non-interactive
  postbox user add editor@example.com --password 'correct horse'`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userImportCmd = &cobra.Command{
	Use:   "import --file <path>",
	Short: "Add users from a JSON or YAML file",
	Long: `Add every user listed in a JSON or YAML file. The file holds a list
of {email, password} entries. Entries with an empty field are ignored.

Examples:
  postbox user import --file users.yaml
  postbox user import --file users.json --skip-existing`,
	Args: cobra.NoArgs,
	RunE: runUserImport,
}

var userRemoveCmd = &cobra.Command{
	Use:     "remove <email>",
	Aliases: []string{"rm"},
	Short:   "Remove a user",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserRemove,
}

var (
	userPassword     string
	userImportFile   string
	userSkipExisting bool
	userYes          bool
)

func init() {
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "password (prompted when omitted)")

	userImportCmd.Flags().StringVarP(&userImportFile, "file", "f", "", "path to a JSON or YAML credentials file")
	userImportCmd.Flags().BoolVar(&userSkipExisting, "skip-existing", false, "skip emails that already exist instead of failing")
	_ = userImportCmd.MarkFlagRequired("file")

	userRemoveCmd.Flags().BoolVarP(&userYes, "yes", "y", false, "do not ask for confirmation")

	userCmd.AddCommand(userAddCmd, userImportCmd, userRemoveCmd)
	rootCmd.AddCommand(userCmd)
}

func newProvisioner(cmd *cobra.Command) (*provision.Provisioner, func(), error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	db, err := openDatabase(cmd.Context(), cfg.Database, cfg.Database.AutoMigrate)
	if err != nil {
		return nil, nil, err
	}

	return provision.New(db.UserRepo()), func() { _ = db.Close() }, nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	email := args[0]

	password := userPassword
	if password == "" {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(input string) error {
				if input == "" {
					return errors.New("password is required")
				}
				return nil
			},
		}

		var err error
		password, err = prompt.Run()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	p, closeDB, err := newProvisioner(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := p.Add(cmd.Context(), email, password)
	if err != nil {
		if errors.Is(err, postbox.ErrConflict) {
			return fmt.Errorf("user %s already exists", email)
		}
		return err
	}

	slog.Info("user added", "id", user.ID, "email", user.Email)
	return nil
}

func runUserImport(cmd *cobra.Command, args []string) error {
	creds, err := provision.LoadCredentialsFromFile(userImportFile)
	if err != nil {
		return err
	}

	p, closeDB, err := newProvisioner(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	result, err := p.Import(cmd.Context(), creds, userSkipExisting)
	for _, email := range result.Created {
		slog.Info("user added", "email", email)
	}
	for _, email := range result.Skipped {
		slog.Info("user exists, skipped", "email", email)
	}
	if err != nil {
		return err
	}

	slog.Info("import complete", "created", len(result.Created), "skipped", len(result.Skipped))
	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	email := args[0]

	if !userYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove user %s", email),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			cmd.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	p, closeDB, err := newProvisioner(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := p.Remove(cmd.Context(), email); err != nil {
		if errors.Is(err, postbox.ErrNotFound) {
			return fmt.Errorf("user %s not found", email)
		}
		return err
	}

	slog.Info("user removed", "email", email)
	return nil
}
