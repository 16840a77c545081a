package provision

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Credential is an email and plaintext password pair to provision.
type Credential struct {
	Email    string `json:"email" yaml:"email"`
	Password string `json:"password" yaml:"password"`
}

// LoadCredentialsFromFile loads credentials from a JSON or YAML file. The
// format follows the extension (.yaml/.yml for YAML, anything else JSON).
// The file should contain a list:
//
//	[
//	  {"email": "editor@example.com", "password": "correct horse"},
//	  {"email": "writer@example.com", "password": "battery staple"}
//	]
//
// Entries missing either field are skipped.
func LoadCredentialsFromFile(path string) ([]Credential, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds []Credential
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &creds)
	default:
		err = json.Unmarshal(data, &creds)
	}
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	out := make([]Credential, 0, len(creds))
	for _, c := range creds {
		if c.Email != "" && c.Password != "" {
			out = append(out, c)
		}
	}

	return out, nil
}
