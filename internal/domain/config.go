package domain

import "time"

const (
	DefaultRoot    = "/etc/graphql"
	DefaultPattern = `\w*.graphql`

	// MissingBaseURL stands in for an unset base URL. The resulting target
	// is not a usable URL and fails at the transport layer.
	MissingBaseURL = "None"

	SchemaPath = "/admin/schema"
)

type Config struct {
	Root    string
	Pattern string
	BaseURL string
	Timeout time.Duration
}

// TargetURL joins the base URL and the schema path verbatim.
func (c Config) TargetURL() string {
	base := c.BaseURL
	if base == "" {
		base = MissingBaseURL
	}
	return base + SchemaPath
}
