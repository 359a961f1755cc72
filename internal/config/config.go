// Package config manages tagctl settings: viper-backed flag/env lookups and
// the saved session file holding the API base URL and bearer token.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// DefaultBase is the API root used when no base URL is configured.
// Most modern Plone 6.x sites expose their REST API at siteroot/++api++.
const DefaultBase = "https://demo.plone.org/++api++/"

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// BaseURL resolves the API base URL from the provided flag value, the saved
// session, or the default, in that order.
func BaseURL(provided string) string {
	if provided != "" {
		return provided
	}
	if session, err := LoadSession(); err == nil && session != nil && session.Base != "" {
		return session.Base
	}
	return DefaultBase
}
