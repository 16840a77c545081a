// Package provision creates and removes postbox users out of band.
//
// There is no registration endpoint; accounts are added by an operator with
// the "postbox user" commands, which use this package:
//
//	p := provision.New(db.UserRepo())
//	user, err := p.Add(ctx, "editor@example.com", "correct horse")
//
// Bulk imports read a JSON or YAML list of credentials:
//
//	creds, err := provision.LoadCredentialsFromFile("users.yaml")
//	result, err := p.Import(ctx, creds, true)
package provision
