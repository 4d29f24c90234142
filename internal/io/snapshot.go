package ioutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/vocaloid-birthday/internal/model"
)

// SaveSnapshot writes the mapping with its metadata block to dir/name and
// returns the path written.
//
// The directory is created if missing. An existing file is overwritten
// without backup. The document is UTF-8 JSON indented by two spaces, with
// non-ASCII text and HTML characters left unescaped.
//
// Example:
//
//	path, err := SaveSnapshot(ctx, "data", "vocaloid_birthday_songs.json", mapping, time.Now(), model.DefaultDescription)
//	// path = "data/vocaloid_birthday_songs.json"
func SaveSnapshot(ctx context.Context, dir, name string, data model.ResultMapping, collectedAt time.Time, description string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	encoded, err := EncodeSnapshot(model.NewSnapshot(data, collectedAt, description))
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, SanitizeFileName(name))
	if err := WriteFile(ctx, path, encoded); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// EncodeSnapshot renders a snapshot as indented JSON.
//
// Day keys are emitted in calendar order.
func EncodeSnapshot(snap *model.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if snap.Data == nil {
		snap.Data = model.ResultMapping{}
	}

	return &snap, nil
}
