// Package domain holds the Instancer connection settings stored by the plugin.
package domain

// SingletonID is the fixed identity of the only configuration record.
const SingletonID = 1

// Config is the Instancer connection configuration. Empty fields are unset.
type Config struct {
	DeployerURL string
	JWTSecret   string
}

// HasSecret reports whether a signing secret is configured.
func (c *Config) HasSecret() bool {
	return c != nil && c.JWTSecret != ""
}

// HasDeployerURL reports whether an Instancer URL is configured.
func (c *Config) HasDeployerURL() bool {
	return c != nil && c.DeployerURL != ""
}

// Update is a partial configuration. Nil fields are left as stored.
type Update struct {
	DeployerURL *string
	JWTSecret   *string
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u.DeployerURL == nil && u.JWTSecret == nil
}

// Merge returns stored with every non-nil field of u applied. stored may be nil.
func Merge(stored *Config, u Update) Config {
	var out Config
	if stored != nil {
		out = *stored
	}
	if u.DeployerURL != nil {
		out.DeployerURL = *u.DeployerURL
	}
	if u.JWTSecret != nil {
		out.JWTSecret = *u.JWTSecret
	}
	return out
}
