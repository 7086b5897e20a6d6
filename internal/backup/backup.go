// Package backup copies the database file into a backup directory,
// either on demand or when the newest copy has grown too old.
package backup

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mzaikin/daytrack/internal/logger"
)

const stampLayout = "20060102-150405"

// Service produces timestamped copies of a single source file.
type Service struct {
	Dir string // backup directory, created on first use
}

// New returns a backup service targeting dir.
func New(dir string) *Service {
	return &Service{Dir: dir}
}

// Run copies src into the backup directory as
// daytrack-<timestamp>.db and verifies the copy byte-for-byte via a
// SHA-256 digest. The destination path is returned.
func (s *Service) Run(src string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	stamp := time.Now().Format(stampLayout)
	dst := filepath.Join(s.Dir, fmt.Sprintf("daytrack-%s.db", stamp))

	srcSum, err := copyFile(src, dst)
	if err != nil {
		return "", err
	}

	dstSum, err := digest(dst)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(srcSum, dstSum) {
		os.Remove(dst)
		return "", fmt.Errorf("backup verification failed for %s", dst)
	}

	logger.Info("Backup written", logger.F("dst", dst))
	return dst, nil
}

// DueSince reports whether the newest backup is older than maxAgeDays
// (or no backup exists at all).
func (s *Service) DueSince(maxAgeDays int) (bool, error) {
	newest, err := s.newest()
	if err != nil {
		return false, err
	}
	if newest.IsZero() {
		return true, nil
	}
	return time.Since(newest) > time.Duration(maxAgeDays)*24*time.Hour, nil
}

// newest returns the timestamp of the most recent backup, or the zero
// time when the directory is empty or missing.
func (s *Service) newest() (time.Time, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read backup directory: %w", err)
	}

	var stamps []time.Time
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "daytrack-") || !strings.HasSuffix(name, ".db") {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, "daytrack-"), ".db")
		t, err := time.ParseInLocation(stampLayout, raw, time.Local)
		if err != nil {
			continue
		}
		stamps = append(stamps, t)
	}
	if len(stamps) == 0 {
		return time.Time{}, nil
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].After(stamps[j]) })
	return stamps[0], nil
}

// copyFile streams src to dst and returns the SHA-256 of what was read.
func copyFile(src, dst string) ([]byte, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		os.Remove(dst)
		return nil, fmt.Errorf("copy backup: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("close backup: %w", err)
	}
	return h.Sum(nil), nil
}

func digest(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum(nil), nil
}
