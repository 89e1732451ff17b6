package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is a stored file as found on disk.
type Entry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Stored lists the files in the upload directory. The staging area and
// other dotfiles are skipped.
func (d *Disk) Stored() ([]Entry, error) {
	dirEntries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	var out []Entry
	for _, e := range dirEntries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return out, nil
}

// PruneStaging removes staging batches not modified since cutoff. A batch
// outlives its request only when the process died before Close.
func (d *Disk) PruneStaging(cutoff time.Time) (int, error) {
	dirEntries, err := os.ReadDir(d.stagingDir)
	if err != nil {
		return 0, fmt.Errorf("read staging dir: %w", err)
	}
	var (
		removed int
		errs    []error
	)
	for _, e := range dirEntries {
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(d.stagingDir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// RemoveUnreferenced deletes stored files that no record references and
// that are older than cutoff, returning the names removed.
func (d *Disk) RemoveUnreferenced(referenced map[string]bool, cutoff time.Time) ([]string, error) {
	entries, err := d.Stored()
	if err != nil {
		return nil, err
	}
	var (
		removed []string
		errs    []error
	)
	for _, e := range entries {
		if referenced[e.Name] || !e.ModTime.Before(cutoff) {
			continue
		}
		if err := d.Remove(e.Name); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", e.Name, err))
			continue
		}
		removed = append(removed, e.Name)
	}
	return removed, errors.Join(errs...)
}
