package tls

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subject(t *testing.T, r *CertificateReloader) string {
	t.Helper()
	cert, err := r.GetCertificate(&tls.ClientHelloInfo{})
	require.NoError(t, err)
	require.NotNil(t, cert)
	return cert.Leaf.Subject.CommonName
}

func TestNewCertificateReloader(t *testing.T) {
	now := time.Now()

	t.Run("loads pair", func(t *testing.T) {
		certPath, keyPath := writePair(t, t.TempDir(), "first", now.Add(-time.Hour), now.Add(time.Hour))
		r, err := NewCertificateReloader(certPath, keyPath)
		require.NoError(t, err)
		assert.Equal(t, "first", subject(t, r))
	})

	t.Run("missing files", func(t *testing.T) {
		dir := t.TempDir()
		_, err := NewCertificateReloader(filepath.Join(dir, "nope.crt"), filepath.Join(dir, "nope.key"))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		certPath, keyPath := writePair(t, t.TempDir(), "old", now.Add(-2*time.Hour), now.Add(-time.Hour))
		_, err := NewCertificateReloader(certPath, keyPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestCertificateReloader_ReloadKeepsOldOnError(t *testing.T) {
	now := time.Now()
	certPath, keyPath := writePair(t, t.TempDir(), "first", now.Add(-time.Hour), now.Add(time.Hour))
	r, err := NewCertificateReloader(certPath, keyPath)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(certPath, []byte("garbage"), 0o600))
	assert.Error(t, r.Reload())
	assert.Equal(t, "first", subject(t, r))
}

func TestCertificateReloader_Watch(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()
	certPath, keyPath := writePair(t, dir, "first", now.Add(-time.Hour), now.Add(time.Hour))

	r, err := NewCertificateReloader(certPath, keyPath)
	require.NoError(t, err)
	require.NoError(t, r.Watch())
	defer r.Close()

	assert.Error(t, r.Watch())

	writePair(t, dir, "second", now.Add(-time.Hour), now.Add(time.Hour))

	assert.Eventually(t, func() bool {
		cert, _ := r.GetCertificate(&tls.ClientHelloInfo{})
		return cert.Leaf.Subject.CommonName == "second"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
}
