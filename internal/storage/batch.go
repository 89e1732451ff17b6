package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StoredFile describes one file written by a batch.
type StoredFile struct {
	Name string
	Size int64
}

// Batch groups the files of one upload. Files are staged, then promoted
// by Commit, and survive Close only if Keep was called. Callers defer
// Close right after Begin.
type Batch struct {
	disk      *Disk
	dir       string
	staged    []StoredFile
	committed []string
	kept      bool
	closed    bool
}

// Stage copies r into the batch's staging directory, enforcing the size
// limit on the bytes actually read.
func (b *Batch) Stage(originalName string, r io.Reader) (StoredFile, error) {
	if b.closed || b.committed != nil {
		return StoredFile{}, ErrBatchClosed
	}

	name := b.disk.storedName(originalName)
	path := filepath.Join(b.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create staged file: %w", err)
	}
	n, err := io.Copy(f, io.LimitReader(r, b.disk.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("write staged file: %w", err)
	}
	if n > b.disk.maxSize {
		_ = os.Remove(path)
		return StoredFile{}, reject(originalName, fmt.Errorf("%w: exceeds limit of %d bytes", ErrTooLarge, b.disk.maxSize))
	}

	if b.disk.sniff {
		ok, err := sniffAllowed(path)
		if err != nil {
			_ = os.Remove(path)
			return StoredFile{}, fmt.Errorf("detect content type: %w", err)
		}
		if !ok {
			_ = os.Remove(path)
			return StoredFile{}, reject(originalName, ErrUnsupportedType)
		}
	}

	sf := StoredFile{Name: name, Size: n}
	b.staged = append(b.staged, sf)
	return sf, nil
}

// Commit moves every staged file into the upload directory. Files
// promoted before a failure are still removed by Close.
func (b *Batch) Commit() error {
	if b.closed {
		return ErrBatchClosed
	}
	b.committed = make([]string, 0, len(b.staged))
	for _, sf := range b.staged {
		dst := filepath.Join(b.disk.dir, sf.Name)
		if err := os.Rename(filepath.Join(b.dir, sf.Name), dst); err != nil {
			return fmt.Errorf("promote %s: %w", sf.Name, err)
		}
		b.committed = append(b.committed, sf.Name)
	}
	return nil
}

// Keep marks committed files as owned by the caller.
func (b *Batch) Keep() { b.kept = true }

// Close removes the staging directory and, unless Keep was called, every
// file the batch promoted.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if !b.kept {
		for _, name := range b.committed {
			if err := b.disk.Remove(name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := os.RemoveAll(b.dir); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
