package normalize

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCacheMiss is returned by Load when no entry exists for a fingerprint.
// Corrupt entries are removed and reported as a miss, never as a hit.
var ErrCacheMiss = errors.New("snapshot cache miss")

// entryHeader precedes the snapshot payload on disk. Size and checksum
// let Load detect truncation and partial writes.
type entryHeader struct {
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Store is an explicit keyed snapshot store: fingerprint -> snapshot blob
// in a single directory. Writes are atomic (temp file + rename) and
// cross-process builds for the same fingerprint are serialized through an
// exclusive lock file; in-process callers share builds via singleflight.
type Store struct {
	dir    string
	logger *zap.Logger
	sf     singleflight.Group
}

// NewStore opens (creating if needed) a snapshot store rooted at dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// LoadOrBuild returns the cached snapshot for fingerprint, or runs build,
// persists its result and returns it. The second return value reports
// whether the snapshot came from the cache. A failed build leaves no
// entry behind.
func (s *Store) LoadOrBuild(ctx context.Context, fingerprint string, build func() (*Snapshot, error)) (*Snapshot, bool, error) {
	type outcome struct {
		snap *Snapshot
		hit  bool
	}

	v, err, _ := s.sf.Do(fingerprint, func() (any, error) {
		if snap, err := s.Load(fingerprint); err == nil {
			return outcome{snap: snap, hit: true}, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			return nil, err
		}

		release, err := s.acquireLock(ctx, fingerprint)
		if err != nil {
			return nil, err
		}
		defer release()

		// Another process may have finished the build while this one
		// waited on the lock.
		if snap, err := s.Load(fingerprint); err == nil {
			return outcome{snap: snap, hit: true}, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			return nil, err
		}

		snap, err := build()
		if err != nil {
			return nil, err
		}
		snap.Fingerprint = fingerprint
		if err := s.save(fingerprint, snap); err != nil {
			return nil, err
		}
		return outcome{snap: snap, hit: false}, nil
	})
	if err != nil {
		return nil, false, err
	}

	out := v.(outcome)
	if err := s.markLatest(fingerprint); err != nil {
		s.logger.Warn("failed to update latest snapshot marker", zap.Error(err))
	}
	return out.snap, out.hit, nil
}

// Load reads and verifies the entry for fingerprint. Any corruption
// (bad header, size mismatch, checksum mismatch) removes the entry and
// returns ErrCacheMiss.
func (s *Store) Load(fingerprint string) (*Snapshot, error) {
	path := s.entryPath(fingerprint)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	payload, ok := verifyEntry(raw)
	if !ok {
		s.logger.Warn("corrupt snapshot cache entry, treating as miss",
			zap.String("fingerprint", fingerprint))
		_ = os.Remove(path)
		return nil, ErrCacheMiss
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.logger.Warn("undecodable snapshot cache entry, treating as miss",
			zap.String("fingerprint", fingerprint), zap.Error(err))
		_ = os.Remove(path)
		return nil, ErrCacheMiss
	}
	return &snap, nil
}

// LoadLatest loads the most recently built or served snapshot, if any.
func (s *Store) LoadLatest() (*Snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, "latest"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading latest marker: %w", err)
	}
	return s.Load(strings.TrimSpace(string(raw)))
}

func (s *Store) save(fingerprint string, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := sha256.Sum256(payload)
	header, err := json.Marshal(entryHeader{Size: int64(len(payload)), SHA256: hex.EncodeToString(sum[:])})
	if err != nil {
		return fmt.Errorf("encoding cache header: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, fingerprint+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(append(header, '\n')); err == nil {
		_, err = w.Write(payload)
	}
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.entryPath(fingerprint)); err != nil {
		return fmt.Errorf("publishing cache entry: %w", err)
	}
	return nil
}

// acquireLock takes the per-fingerprint exclusive lock, waiting for a
// concurrent holder rather than failing. The returned release function is
// safe on every exit path.
func (s *Store) acquireLock(ctx context.Context, fingerprint string) (func(), error) {
	path := s.entryPath(fingerprint) + ".lock"
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquiring cache lock: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Store) markLatest(fingerprint string) error {
	tmp, err := os.CreateTemp(s.dir, "latest.tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(fingerprint + "\n"); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, "latest"))
}

func (s *Store) entryPath(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".snapshot.json")
}

func verifyEntry(raw []byte) ([]byte, bool) {
	idx := bytes.IndexByte(raw, '\n')
	if idx < 0 {
		return nil, false
	}
	var header entryHeader
	if err := json.Unmarshal(raw[:idx], &header); err != nil {
		return nil, false
	}
	payload := raw[idx+1:]
	if int64(len(payload)) != header.Size {
		return nil, false
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != header.SHA256 {
		return nil, false
	}
	return payload, true
}
