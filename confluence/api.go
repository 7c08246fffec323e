package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Credentials identify one Confluence instance and how to authenticate against it.
type Credentials struct {
	// Either an Atlassian org name (ORG in ORG.atlassian.net) or a full base URL.
	Instance string
	Username string
	Token    string
}

func NewAPI(instance string, username string, token string) (*API, error) {
	if instance == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence instance name or URL")
	}
	if username == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence username for %s", instance)
	}
	if token == "" {
		return &API{}, fmt.Errorf("confluence: auth token for %s is empty, please check your token command", instance)
	}

	base := instance
	if !strings.Contains(instance, "://") {
		base = fmt.Sprintf("https://%s.atlassian.net/wiki", instance)
	}

	u, err := url.ParseRequestURI(base)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:  u,
		token:    token,
		username: username,
	}
	a.Client = &http.Client{}

	return a, nil
}

// NewAPIFromCredentials is NewAPI for a Credentials value.
func NewAPIFromCredentials(c Credentials) (*API, error) {
	return NewAPI(c.Instance, c.Username, c.Token)
}

type API struct {
	// Where the Confluence instance lives, e.g. https://INSTANCE.atlassian.net/wiki
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Auth info
	username, token string
}

// Host returns the instance's hostname, handy for log lines.
func (a *API) Host() string {
	if a.BaseURI == nil {
		return ""
	}
	return a.BaseURI.Host
}
