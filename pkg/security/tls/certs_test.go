package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallax-hq/explainer/pkg/config"
)

// writePair writes a self-signed certificate for cn into dir and returns the
// cert and key paths.
func writePair(t *testing.T, dir, cn string, notBefore, notAfter time.Time) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		DNSNames:     []string{"localhost"},
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPath := filepath.Join(dir, "server.crt")
	keyPath := filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certPath, keyPath
}

func TestValidateCertificate(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		certPath, keyPath := writePair(t, dir, "valid", now.Add(-time.Hour), now.Add(90*24*time.Hour))
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		require.NoError(t, err)

		leaf, err := ValidateCertificate(&cert, now)
		require.NoError(t, err)
		assert.Equal(t, "valid", leaf.Subject.CommonName)
		assert.False(t, ExpiresSoon(leaf, now))
	})

	t.Run("expired", func(t *testing.T) {
		certPath, keyPath := writePair(t, dir, "old", now.Add(-48*time.Hour), now.Add(-time.Hour))
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		require.NoError(t, err)

		_, err = ValidateCertificate(&cert, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("not yet valid", func(t *testing.T) {
		certPath, keyPath := writePair(t, dir, "future", now.Add(time.Hour), now.Add(48*time.Hour))
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		require.NoError(t, err)

		_, err = ValidateCertificate(&cert, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not yet valid")
	})

	t.Run("nil and empty", func(t *testing.T) {
		_, err := ValidateCertificate(nil, now)
		assert.Error(t, err)
		_, err = ValidateCertificate(&tls.Certificate{}, now)
		assert.Error(t, err)
	})
}

func TestExpiresSoon(t *testing.T) {
	now := time.Now()
	assert.True(t, ExpiresSoon(&x509.Certificate{NotAfter: now.Add(24 * time.Hour)}, now))
	assert.False(t, ExpiresSoon(&x509.Certificate{NotAfter: now.Add(60 * 24 * time.Hour)}, now))
}

func TestNewServerConfig(t *testing.T) {
	now := time.Now()
	certPath, keyPath := writePair(t, t.TempDir(), "parallax", now.Add(-time.Hour), now.Add(time.Hour))
	reloader, err := NewCertificateReloader(certPath, keyPath)
	require.NoError(t, err)

	tests := map[string]uint16{
		"1.2": tls.VersionTLS12,
		"1.3": tls.VersionTLS13,
		"":    tls.VersionTLS13,
	}
	for version, want := range tests {
		cfg := NewServerConfig(&config.TLSConfig{MinVersion: version}, reloader)
		assert.Equal(t, want, cfg.MinVersion, version)

		cert, err := cfg.GetCertificate(&tls.ClientHelloInfo{})
		require.NoError(t, err)
		assert.Equal(t, "parallax", cert.Leaf.Subject.CommonName)
	}
}
