package synth

import (
	"regexp"
	"strings"

	"github.com/bobmcallan/anvil/internal/models"
)

const (
	defaultServerName = "mcp-server"
	defaultEnvPrefix  = "API"
	defaultAuthHeader = "Authorization"
	bearerScheme      = "Bearer"
)

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
	nonPrefix = regexp.MustCompile(`[^A-Z0-9]+`)
)

// ServerName returns override, or the title lowercased with non-alphanumeric
// runs collapsed to a hyphen.
func ServerName(title, override string) string {
	if override != "" {
		return override
	}
	return slug(title)
}

func slug(s string) string {
	if name := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-"); name != "" {
		return name
	}
	return defaultServerName
}

// EnvPrefix returns the title uppercased with non-[A-Z0-9] runs collapsed
// to an underscore.
func EnvPrefix(title string) string {
	if p := strings.Trim(nonPrefix.ReplaceAllString(strings.ToUpper(title), "_"), "_"); p != "" {
		return p
	}
	return defaultEnvPrefix
}

// Auth is the credential header the generated server sends.
// An empty Scheme sends the raw key.
type Auth struct {
	Header string `json:"header"`
	Scheme string `json:"scheme"`
}

// InferAuth picks the header and scheme from the first recognized scheme.
func InferAuth(schemes []models.AuthScheme) Auth {
	for _, s := range schemes {
		switch s.SchemeType {
		case "http", "oauth2":
			return Auth{Header: defaultAuthHeader, Scheme: bearerScheme}
		case "apiKey":
			header := s.HeaderName
			if header == "" {
				header = defaultAuthHeader
			}
			return Auth{Header: header}
		}
	}
	return Auth{Header: defaultAuthHeader, Scheme: bearerScheme}
}
