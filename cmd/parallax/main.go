// Parallax explains source code with GPT-4 and Claude side by side while
// keeping spend under a per-request ceiling and a monthly budget.
//
// Every request is estimated before any provider is called. Requests whose
// estimated cost or input size exceed the configured limits are rejected
// without spending anything.
//
// Usage:
//
//	# Start the HTTP API with defaults and environment overrides
//	parallax serve
//
//	# Start with a configuration file
//	parallax serve --config /etc/parallax/config.yaml
//
//	# Estimate tokens and cost offline
//	parallax estimate main.go
//
//	# Explain code read from stdin
//	cat main.go | parallax explain -
//
//	# Check a configuration file
//	parallax config validate --config config.yaml
package main

import "os"

func main() {
	os.Exit(Execute())
}
