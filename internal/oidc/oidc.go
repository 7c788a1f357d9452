// Package oidc discovers the JWKS URI from an OIDC issuer's well-known
// configuration document.
package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
)

// WellKnownEndpoints holds the OIDC discovery fields the JWKS client
// cares about.
type WellKnownEndpoints struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

// GetWellKnownEndpoints fetches .well-known/openid-configuration from
// the issuer and returns the advertised endpoints. The JWKS URI must be
// present and absolute.
func GetWellKnownEndpoints(ctx context.Context, client *http.Client, issuerURL url.URL) (*WellKnownEndpoints, error) {
	issuerURL.Path = path.Join(issuerURL.Path, ".well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not build request for well known endpoints: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get well known endpoints from %q: %w", issuerURL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("well known endpoint %q returned status %d", issuerURL.String(), resp.StatusCode)
	}

	var endpoints WellKnownEndpoints
	if err := json.NewDecoder(resp.Body).Decode(&endpoints); err != nil {
		return nil, fmt.Errorf("could not decode well known endpoints: %w", err)
	}

	jwksURI, err := url.Parse(endpoints.JWKSURI)
	if err != nil || !jwksURI.IsAbs() {
		return nil, fmt.Errorf("well known endpoints advertised an invalid jwks_uri %q", endpoints.JWKSURI)
	}

	return &endpoints, nil
}
