package forescout

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Variant captures everything that differs between the Admin API and the
// Web API. Session logic is shared; only these values change.
type Variant struct {
	// Name is used in logs and messages ("admin", "web")
	Name string

	// BasePath is appended to the configured appliance URL
	BasePath string

	// LoginPath is the token endpoint, relative to BasePath
	LoginPath string

	// ResourcePath is the configuration resource, relative to BasePath
	ResourcePath string

	// LoginForm builds the form-encoded login payload
	LoginForm func(Credentials) url.Values

	// ExtractToken reads the bearer credential from a successful login body
	ExtractToken func(body []byte) (string, error)

	// AuthHeader formats the Authorization header value for a token
	AuthHeader func(token string) string
}

// AdminClientID is the OAuth client id expected by the Admin API token endpoint
const AdminClientID = "fs-oauth-client"

// AdminVariant is the Admin API: OAuth password grant, JSON token,
// "Bearer" authorization.
var AdminVariant = Variant{
	Name:         "admin",
	BasePath:     "",
	LoginPath:    "/fsum/oauth2.0/token",
	ResourcePath: "/adminapi/segments",
	LoginForm: func(c Credentials) url.Values {
		return formValues(
			"username", c.Username,
			"password", c.Password,
			"grant_type", "password",
			"client_id", AdminClientID,
		)
	},
	ExtractToken: func(body []byte) (string, error) {
		var payload struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", fmt.Errorf("invalid token response: %w", err)
		}
		return payload.AccessToken, nil
	},
	AuthHeader: func(token string) string {
		return "Bearer " + token
	},
}

// WebVariant is the Web API: plain form login, the token is the raw body
// and is sent back without a scheme.
var WebVariant = Variant{
	Name:         "web",
	BasePath:     "/api",
	LoginPath:    "/login",
	ResourcePath: "/hosts",
	LoginForm: func(c Credentials) url.Values {
		return formValues(
			"username", c.Username,
			"password", c.Password,
		)
	},
	ExtractToken: func(body []byte) (string, error) {
		return strings.TrimSpace(string(body)), nil
	},
	AuthHeader: func(token string) string {
		return token
	},
}
