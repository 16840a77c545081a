package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const timeLayout = "2006-01-02 15:04:05"

// Formatter formats results for output.
type Formatter interface {
	FormatPosts(w io.Writer, posts []Post) error
	FormatPost(w io.Writer, post *Post) error
	FormatDeleted(w io.Writer, id int64) error
	FormatUpload(w io.Writer, result *UploadResult) error
	FormatDownload(w io.Writer, key, localPath string, size int64) error
	FormatURL(w io.Writer, url string) error
	FormatUser(w io.Writer, user *User) error
	FormatLogin(w io.Writer, profile, email string) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatPosts prints posts as a table.
func (f *HumanFormatter) FormatPosts(w io.Writer, posts []Post) error {
	if len(posts) == 0 {
		_, _ = fmt.Fprintln(w, "No posts found")
		return nil
	}

	maxTitleLen := 5 // "TITLE"
	for i := range posts {
		if n := utf8.RuneCountInString(posts[i].Title); n > maxTitleLen {
			maxTitleLen = n
		}
	}
	if maxTitleLen > 50 {
		maxTitleLen = 50
	}

	_, _ = fmt.Fprintf(w, "%6s  %-*s  %s\n", "ID", maxTitleLen, "TITLE", "UPDATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", 6), strings.Repeat("-", maxTitleLen), strings.Repeat("-", 19))

	for i := range posts {
		p := &posts[i]
		_, _ = fmt.Fprintf(w, "%6d  %-*s  %s\n",
			p.ID,
			maxTitleLen,
			truncate(p.Title, maxTitleLen),
			p.UpdatedAt.Format(timeLayout),
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d post(s)\n", len(posts))
	}
	return nil
}

// FormatPost prints a single post.
func (f *HumanFormatter) FormatPost(w io.Writer, post *Post) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, post.ID)
		return nil
	}

	_, _ = fmt.Fprintf(w, "ID:      %d\n", post.ID)
	_, _ = fmt.Fprintf(w, "Title:   %s\n", post.Title)
	if post.ImageKey != nil {
		_, _ = fmt.Fprintf(w, "Image:   %s\n", *post.ImageKey)
	}
	_, _ = fmt.Fprintf(w, "Created: %s\n", post.CreatedAt.Format(timeLayout))
	_, _ = fmt.Fprintf(w, "Updated: %s\n", post.UpdatedAt.Format(timeLayout))
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, post.Content)
	return nil
}

// FormatDeleted confirms a deletion.
func (f *HumanFormatter) FormatDeleted(w io.Writer, id int64) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Deleted: post %d\n", id)
	}
	return nil
}

// FormatUpload formats an upload result as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, result.Key)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Uploaded: %s (%s)\n", result.LocalPath, formatSize(result.Size))
	_, _ = fmt.Fprintf(w, "  Key: %s\n", result.Key)
	_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
	return nil
}

// FormatDownload formats a download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, key, localPath string, size int64) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", key, localPath, formatSize(size))
	}
	return nil
}

// FormatURL prints a presigned URL.
func (f *HumanFormatter) FormatURL(w io.Writer, url string) error {
	_, _ = fmt.Fprintln(w, url)
	return nil
}

// FormatUser prints the authenticated account.
func (f *HumanFormatter) FormatUser(w io.Writer, user *User) error {
	_, _ = fmt.Fprintf(w, "ID:      %d\n", user.ID)
	_, _ = fmt.Fprintf(w, "Email:   %s\n", user.Email)
	_, _ = fmt.Fprintf(w, "Created: %s\n", user.CreatedAt.Format(timeLayout))
	return nil
}

// FormatLogin confirms a login.
func (f *HumanFormatter) FormatLogin(w io.Writer, profile, email string) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "Logged in as %s (profile %q)\n", email, profile)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatPosts formats posts as a JSON array.
func (f *JSONFormatter) FormatPosts(w io.Writer, posts []Post) error {
	if posts == nil {
		posts = []Post{}
	}
	return writeJSON(w, posts)
}

// FormatPost formats a post as JSON.
func (f *JSONFormatter) FormatPost(w io.Writer, post *Post) error {
	return writeJSON(w, post)
}

// FormatDeleted formats a deletion as JSON.
func (f *JSONFormatter) FormatDeleted(w io.Writer, id int64) error {
	output := struct {
		ID      int64 `json:"id"`
		Deleted bool  `json:"deleted"`
	}{
		ID:      id,
		Deleted: true,
	}
	return writeJSON(w, output)
}

// FormatUpload formats an upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *UploadResult) error {
	return writeJSON(w, result)
}

// FormatDownload formats a download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, key, localPath string, size int64) error {
	output := struct {
		Key       string `json:"key"`
		LocalPath string `json:"local_path"`
		Size      int64  `json:"size_bytes"`
	}{
		Key:       key,
		LocalPath: localPath,
		Size:      size,
	}
	return writeJSON(w, output)
}

// FormatURL formats a presigned URL as JSON.
func (f *JSONFormatter) FormatURL(w io.Writer, url string) error {
	output := struct {
		URL string `json:"url"`
	}{
		URL: url,
	}
	return writeJSON(w, output)
}

// FormatUser formats the authenticated account as JSON.
func (f *JSONFormatter) FormatUser(w io.Writer, user *User) error {
	return writeJSON(w, user)
}

// FormatLogin formats a login confirmation as JSON.
func (f *JSONFormatter) FormatLogin(w io.Writer, profile, email string) error {
	output := struct {
		Profile string `json:"profile"`
		Email   string `json:"email"`
	}{
		Profile: profile,
		Email:   email,
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		if len(profiles[i].Name) > maxNameLen {
			maxNameLen = len(profiles[i].Name)
		}
		if len(profiles[i].Endpoint) > maxEndpointLen {
			maxEndpointLen = len(profiles[i].Endpoint)
		}
	}
	if maxNameLen > 20 {
		maxNameLen = 20
	}
	if maxEndpointLen > 50 {
		maxEndpointLen = 50
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-20s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "EMAIL", "TOKEN")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 20), strings.Repeat("-", 15))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		email := p.Email
		if email == "" {
			email = "-"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-20s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			truncate(email, 20),
			maskSecret(p.Token, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Email:    %s\n", profile.Email)
	_, _ = fmt.Fprintf(w, "Token:    %s\n", maskSecret(profile.Token, showSecrets))
	return nil
}

type jsonProfile struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Email    string `json:"email,omitempty"`
	Token    string `json:"token"`
	Default  bool   `json:"default"`
}

func newJSONProfile(p *Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:     p.Name,
		Endpoint: p.Endpoint,
		Email:    p.Email,
		Token:    maskSecret(p.Token, showSecrets),
		Default:  isDefault,
	}
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = newJSONProfile(&profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(&profile, isDefault, showSecrets))
}

// maskSecret masks a secret string, showing only first 4 and last 4 characters.
// If showSecrets is true, returns the original value.
// If the secret is too short, returns all asterisks.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
