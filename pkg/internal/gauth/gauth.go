// Package gauth mints Google OAuth2 access tokens for services, such as
// Vertex AI, that authenticate with a bearer token rather than an API key.
package gauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth2 scope Vertex AI's REST API requires.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// AccessToken mints an access token for the given scopes.
//
// If credentialsJSON is non-empty it is parsed as a service account or
// authorized-user JSON key; otherwise Application Default Credentials are
// used (GOOGLE_APPLICATION_CREDENTIALS, gcloud's user credentials, or the
// metadata server when running on GCP).
func AccessToken(ctx context.Context, credentialsJSON []byte, scopes ...string) (string, error) {
	var creds *google.Credentials
	var err error

	if len(credentialsJSON) > 0 {
		creds, err = google.CredentialsFromJSON(ctx, credentialsJSON, scopes...)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, scopes...)
	}
	if err != nil {
		return "", fmt.Errorf("gauth: resolve credentials: %w", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("gauth: mint access token: %w", err)
	}

	return token.AccessToken, nil
}
