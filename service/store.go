package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ast3wart/clutchcam-api/model"
	"ast3wart/clutchcam-api/validators"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sidecarSuffix = "_metadata.json"

// Store owns the on-disk representation of uploaded assets: one media file
// plus one metadata sidecar per asset, co-located in a single directory and
// sharing the asset id as filename prefix. Ids are fixed-width UUIDs so no id
// can ever be a prefix of another.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed and returns a store
// rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the storage directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Create persists the source stream under a freshly generated id and writes
// the metadata sidecar next to it. The original extension is kept so browsers
// get a sensible container hint on download.
func (s *Store) Create(src io.Reader, originalName, mimeType string) (*model.Asset, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !validators.AllowedContainer(ext, mimeType) {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, ext)
	}

	id := uuid.NewString()
	savedAs := id + ext
	mediaPath := filepath.Join(s.dir, savedAs)

	f, err := os.Create(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file, %w", err)
	}

	size, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(mediaPath)
		return nil, fmt.Errorf("failed to persist media file, %w", err)
	}

	asset := &model.Asset{
		ID:         id,
		Filename:   originalName,
		SavedAs:    savedAs,
		Size:       size,
		MimeType:   mimeType,
		Status:     model.AssetUploaded,
		Highlights: []model.Highlight{},
		UploadedAt: time.Now().UTC(),
	}

	if err := s.writeSidecar(asset); err != nil {
		os.Remove(mediaPath)
		return nil, err
	}

	zap.L().Debug("Asset created",
		zap.String("id", id),
		zap.String("file", savedAs),
		zap.Int64("size", size))

	return asset, nil
}

// Get reads the metadata sidecar for an asset.
func (s *Store) Get(id string) (*model.Asset, error) {
	data, err := os.ReadFile(s.sidecarPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: asset %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read metadata, %w", err)
	}

	var asset model.Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("failed to parse metadata for %s, %w", id, err)
	}

	return &asset, nil
}

// ResolveMediaPath locates the stored media file by scanning the storage
// directory for a filename with the asset id as prefix, skipping sidecars.
// Ids are unique and fixed-width so at most one match can exist; the first
// one is taken.
func (s *Store) ResolveMediaPath(id string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan storage directory, %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, id) && !strings.HasSuffix(name, sidecarSuffix) {
			return filepath.Join(s.dir, name), nil
		}
	}

	return "", fmt.Errorf("%w: media file for asset %s", ErrNotFound, id)
}

// Update applies a read-modify-write to the sidecar. Not transactional:
// concurrent updates to the same asset race and the last write wins. In the
// supported workflow only the analysis job mutates a given asset.
func (s *Store) Update(id string, mutate func(*model.Asset)) (*model.Asset, error) {
	asset, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	mutate(asset)

	if err := s.writeSidecar(asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// Delete removes every file prefixed by the asset id, media and sidecar
// alike. Deleting an unknown id is not an error, so the operation stays
// idempotent.
func (s *Store) Delete(id string) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to scan storage directory, %w", err)
	}

	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), id) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to delete %s, %w", e.Name(), err)
		}

		zap.L().Debug("Deleted asset file", zap.String("file", e.Name()))
	}

	return nil
}

func (s *Store) sidecarPath(id string) string {
	return filepath.Join(s.dir, id+sidecarSuffix)
}

func (s *Store) writeSidecar(asset *model.Asset) error {
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata, %w", err)
	}

	if err := os.WriteFile(s.sidecarPath(asset.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata, %w", err)
	}

	return nil
}
