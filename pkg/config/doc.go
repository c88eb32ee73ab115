// Package config provides configuration management for the Parallax
// explanation service.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// An empty path skips the file and yields defaults plus environment
// overrides, so the service runs with no config file at all.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PARALLAX_SECTION_FIELD.
// For example:
//
//   - PARALLAX_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - PARALLAX_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key
//   - PARALLAX_LIMITS_MONTHLY_ENFORCE overrides limits.monthly.enforce
//
// The unprefixed names MAX_COST_PER_REQUEST and MONTHLY_BUDGET are also
// honoured; a PARALLAX_ variable wins when both are set. Provider keys in
// OPENAI_API_KEY and ANTHROPIC_API_KEY are resolved by the secrets manager,
// not here.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//	providers:
//	  timeout: 10s
//	  max_retries: 0
//	  openai:
//	    model: gpt-4
//	  anthropic:
//	    model: claude-3-sonnet-20240229
//	limits:
//	  max_cost_per_request: 0.5
//	  monthly:
//	    budget: 10
//	    enforce: false
//	    reset_schedule: "0 0 1 * *"
//	    storage:
//	      backend: sqlite
//	      sqlite_path: data/spend.db
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
