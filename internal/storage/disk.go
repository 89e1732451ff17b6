// Package storage keeps uploaded documents on local disk. Uploads are
// written to a staging area first and only moved into the upload
// directory once the caller commits them.
package storage

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxSize = 10 * 1024 * 1024 // 10 MiB
	stagingDirName = ".staging"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedMediaTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

type Disk struct {
	dir        string
	stagingDir string
	maxSize    int64
	sniff      bool
	now        func() time.Time

	mu   sync.Mutex
	last int64
}

// NewDisk creates dir and its staging area. A non-positive maxSize means
// DefaultMaxSize. With sniff set, staged bodies must really be pdf, jpeg
// or png regardless of what the client declared.
func NewDisk(dir string, maxSize int64, sniff bool) (*Disk, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	staging := filepath.Join(abs, stagingDirName)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{
		dir:        abs,
		stagingDir: staging,
		maxSize:    maxSize,
		sniff:      sniff,
		now:        time.Now,
	}, nil
}

func (d *Disk) Dir() string { return d.dir }

// Check applies the type and size gate to a file before any byte of it
// is stored. Both the extension and the declared media type must be
// allowed.
func (d *Disk) Check(name, mediaType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return reject(name, ErrUnsupportedType)
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil || !allowedMediaTypes[strings.ToLower(mt)] {
		return reject(name, ErrUnsupportedType)
	}
	if size > d.maxSize {
		return reject(name, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, size, d.maxSize))
	}
	return nil
}

// Begin opens a batch with its own staging directory.
func (d *Disk) Begin() (*Batch, error) {
	dir, err := os.MkdirTemp(d.stagingDir, "batch-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Batch{disk: d, dir: dir}, nil
}

// Path resolves a stored name inside the upload directory. Names with
// path separators or a leading dot are refused.
func (d *Disk) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.dir, name), nil
}

// Open returns a stored file for reading along with its detected content
// type.
func (d *Disk) Open(name string) (*os.File, string, error) {
	path, err := d.Path(name)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.IsDir() {
		return nil, "", os.ErrNotExist
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, mt.String(), nil
}

// Remove deletes a stored file. Missing files are not an error.
func (d *Disk) Remove(name string) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// storedName prefixes the sanitized original name with a millisecond
// stamp that is strictly increasing within the process.
func (d *Disk) storedName(original string) string {
	d.mu.Lock()
	stamp := d.now().UnixMilli()
	if stamp <= d.last {
		stamp = d.last + 1
	}
	d.last = stamp
	d.mu.Unlock()

	return fmt.Sprintf("%d-%s", stamp, sanitize(original))
}

func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}

func sniffAllowed(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, err
	}
	return mt.Is("application/pdf") || mt.Is("image/jpeg") || mt.Is("image/png"), nil
}
