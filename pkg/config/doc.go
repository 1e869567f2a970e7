// Package config loads client configuration from environment variables, with
// optional YAML file layering for tooling that wants a config file.
//
// Environment keys:
//
//	REBILL_API_KEY       provider API key (required)
//	REBILL_BASE_URL      API endpoint (default: provider production v2)
//	REBILL_TIMEOUT       per-request timeout (default 30s)
//	REBILL_LOG_LEVEL     debug|info|warn|error (default info)
//	REBILL_OTEL_ENABLED  instrument the HTTP transport with OpenTelemetry
//
// A file loaded with LoadFile provides defaults; the environment always wins.
package config
