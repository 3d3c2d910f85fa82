package play

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"

	"play-price/internal/errors"
)

// publisherScope is the OAuth scope required for subscription pricing calls.
const publisherScope = "https://www.googleapis.com/auth/androidpublisher"

// NewAuthenticatedClient builds an HTTP client whose requests carry tokens
// minted from a service account key file. Credential resolution failures are
// auth-class: fatal, never retried.
func NewAuthenticatedClient(ctx context.Context, serviceAccountPath string) (*http.Client, error) {
	data, err := os.ReadFile(serviceAccountPath)
	if err != nil {
		return nil, errors.Auth(
			fmt.Sprintf("cannot read service account key %s", serviceAccountPath), err)
	}

	conf, err := google.JWTConfigFromJSON(data, publisherScope)
	if err != nil {
		return nil, errors.Auth("invalid service account key", err)
	}

	return conf.Client(ctx), nil
}
