package tls

import (
	"crypto/tls"

	"parallax-hq/explainer/pkg/config"
)

// NewServerConfig builds the server TLS configuration. Certificates are
// served by reloader.
func NewServerConfig(cfg *config.TLSConfig, reloader *CertificateReloader) *tls.Config {
	return &tls.Config{
		MinVersion:     parseTLSVersion(cfg.MinVersion),
		GetCertificate: reloader.GetCertificate,
	}
}

// parseTLSVersion maps "1.2" to TLS 1.2 and everything else to TLS 1.3.
func parseTLSVersion(v string) uint16 {
	if v == "1.2" {
		return tls.VersionTLS12
	}
	return tls.VersionTLS13
}
