package provision_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/postbox/provision"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentialsFromFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "users.json", `[
		{"email": "a@example.com", "password": "pw-a"},
		{"email": "b@example.com", "password": "pw-b"}
	]`)

	creds, err := provision.LoadCredentialsFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []provision.Credential{
		{Email: "a@example.com", Password: "pw-a"},
		{Email: "b@example.com", Password: "pw-b"},
	}, creds)
}

func TestLoadCredentialsFromFile_YAML(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"users.yaml", "users.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeTestFile(t, name, `
- email: a@example.com
  password: pw-a
- email: b@example.com
  password: pw-b
`)

			creds, err := provision.LoadCredentialsFromFile(path)
			require.NoError(t, err)

			require.Len(t, creds, 2)
			assert.Equal(t, "a@example.com", creds[0].Email)
			assert.Equal(t, "pw-b", creds[1].Password)
		})
	}
}

func TestLoadCredentialsFromFile_SkipsIncomplete(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "users.json", `[
		{"email": "", "password": "pw"},
		{"email": "a@example.com", "password": ""},
		{"email": "ok@example.com", "password": "pw"}
	]`)

	creds, err := provision.LoadCredentialsFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []provision.Credential{{Email: "ok@example.com", Password: "pw"}}, creds)
}

func TestLoadCredentialsFromFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		_, err := provision.LoadCredentialsFromFile("/nonexistent/users.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read credentials file")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := provision.LoadCredentialsFromFile(writeTestFile(t, "users.json", "not json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse credentials file")
	})

	t.Run("object instead of list", func(t *testing.T) {
		_, err := provision.LoadCredentialsFromFile(writeTestFile(t, "users.yaml", "email: a@example.com\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse credentials file")
	})
}
