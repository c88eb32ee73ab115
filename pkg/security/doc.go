// Package security groups credential and transport security for parallax.
//
//   - secrets: resolves provider API keys from the environment or mounted files
//   - tls: optional TLS termination with certificate reloading
//
// Callers of the HTTP API are not authenticated; parallax is meant to run
// behind a trusted boundary.
package security
