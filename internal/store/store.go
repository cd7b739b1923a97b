package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"BitcoinClicker/internal/model"
)

// Compressed reports whether path is written as a zstd frame.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Load reads a snapshot and decodes it on top of defaults, so fields missing
// from older snapshots keep their default values. found is false when the file
// does not exist, in which case defaults is returned unchanged.
func Load(path string, defaults *model.EconomyState) (st *model.EconomyState, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, false, nil
		}
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	if Compressed(path) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, false, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, false, fmt.Errorf("decompress snapshot: %w", err)
		}
	}
	if err := json.Unmarshal(data, defaults); err != nil {
		return nil, false, fmt.Errorf("parse snapshot: %w", err)
	}
	return defaults, true, nil
}

// Save writes the snapshot atomically: a temp file in the same directory is
// renamed over path.
func Save(path string, st *model.EconomyState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if Compressed(path) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
