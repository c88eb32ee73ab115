package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider loads secrets from individual files in a directory.
//
// Each secret is stored as a separate file named after the secret. File
// permissions must be 0600 or 0400.
//
// With watching enabled, writes to the directory drop cached values and
// the change callback is invoked with the file name.
type FileProvider struct {
	BasePath string
	Watch    bool

	onChange func(name string)

	mu      sync.RWMutex
	cache   map[string]string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// FileOption customizes a FileProvider.
type FileOption func(*FileProvider)

// WithChangeHandler registers fn to be called from the watcher goroutine
// after a secret file changes.
func WithChangeHandler(fn func(name string)) FileOption {
	return func(p *FileProvider) {
		p.onChange = fn
	}
}

// NewFileProvider creates a new file-based secret provider.
func NewFileProvider(basePath string, watch bool, opts ...FileOption) (*FileProvider, error) {
	p := &FileProvider{
		BasePath: basePath,
		Watch:    watch,
		cache:    make(map[string]string),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	if !watch {
		close(p.done)
		slog.Info("file-based secret provider started without watching", "path", basePath)
		return p, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	p.watcher = watcher
	go p.watchLoop()

	slog.Info("file-based secret provider started with watching", "path", basePath)
	return p, nil
}

// GetSecret retrieves a secret from a file.
//
// The secret name is used as the filename within the base path. Surrounding
// whitespace is trimmed.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	if value, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	path := filepath.Join(p.BasePath, name)

	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret name %q: directory traversal detected", name)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no file for %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}

	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path is confined to BasePath above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: file for %s is empty", ErrNotFound, name)
	}

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()

	return value, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

// Refresh clears the cache, forcing secrets to be re-read from files.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cache = make(map[string]string)
	return nil
}

// Close stops the file watcher and waits for it to exit.
func (p *FileProvider) Close() error {
	var err error
	p.once.Do(func() {
		if p.watcher == nil {
			return
		}
		close(p.stopCh)
		err = p.watcher.Close()
		<-p.done
	})
	return err
}

func (p *FileProvider) watchLoop() {
	defer close(p.done)

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			name := filepath.Base(event.Name)
			p.mu.Lock()
			delete(p.cache, name)
			p.mu.Unlock()

			slog.Warn("secret file changed; restart to apply the new value",
				"secret", name,
				"op", event.Op.String(),
			)
			if p.onChange != nil {
				p.onChange(name)
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("secret file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}
