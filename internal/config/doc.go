// Package config loads webscout settings from defaults, an optional .env file
// (via godotenv) and WEBSCOUT_* environment variables. Out-of-range values are
// errors; nothing is silently clamped.
package config
