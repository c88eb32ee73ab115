package tls

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// CertificateReloader serves a certificate pair and reloads it when the
// files change.
type CertificateReloader struct {
	certFile string
	keyFile  string

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewCertificateReloader loads the pair once. It fails if the files are
// missing, do not match, or hold a certificate outside its validity period.
func NewCertificateReloader(certFile, keyFile string) (*CertificateReloader, error) {
	r := &CertificateReloader{
		certFile: filepath.Clean(certFile),
		keyFile:  filepath.Clean(keyFile),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the pair from disk and swaps it in. On error the current
// certificate stays in use.
func (r *CertificateReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}

	now := time.Now()
	leaf, err := ValidateCertificate(&cert, now)
	if err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()

	attrs := []any{
		"subject", leaf.Subject.CommonName,
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	if ExpiresSoon(leaf, now) {
		slog.Warn("certificate expiring soon", attrs...)
	} else {
		slog.Info("certificate loaded", attrs...)
	}
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// Watch starts reloading on file changes. It may be called once.
func (r *CertificateReloader) Watch() error {
	if r.watcher != nil {
		return fmt.Errorf("certificate watch already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dirs := map[string]bool{filepath.Dir(r.certFile): true, filepath.Dir(r.keyFile): true}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	r.watcher = watcher
	r.done = make(chan struct{})
	go r.watchLoop()
	return nil
}

// Close stops watching. It is safe to call more than once.
func (r *CertificateReloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	var err error
	r.once.Do(func() {
		err = r.watcher.Close()
		<-r.done
	})
	return err
}

func (r *CertificateReloader) watchLoop() {
	defer close(r.done)

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(event) {
				continue
			}
			if err := r.Reload(); err != nil {
				slog.Error("failed to reload certificate",
					"error", err,
					"cert_file", r.certFile,
					"key_file", r.keyFile,
				)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("certificate watcher error", "error", err)
		}
	}
}

// relevant matches writes to the pair and symlink swaps of mounted secrets.
func (r *CertificateReloader) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == r.certFile || name == r.keyFile || strings.HasPrefix(filepath.Base(name), "..")
}
