package service

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"ast3wart/clutchcam-api/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestStore_CreateAndResolve(t *testing.T) {
	s := newTestStore(t)
	data := bytes.Repeat([]byte("frame"), 1000)

	asset, err := s.Create(bytes.NewReader(data), "match.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if asset.ID == "" {
		t.Fatal("Create() returned empty id")
	}
	if asset.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", asset.Size, len(data))
	}
	if asset.Status != model.AssetUploaded {
		t.Errorf("Status = %s, want uploaded", asset.Status)
	}
	if asset.SavedAs != asset.ID+".mp4" {
		t.Errorf("SavedAs = %s, want %s.mp4", asset.SavedAs, asset.ID)
	}

	path, err := s.ResolveMediaPath(asset.ID)
	if err != nil {
		t.Fatalf("ResolveMediaPath() error: %v", err)
	}
	if strings.HasSuffix(path, sidecarSuffix) {
		t.Errorf("ResolveMediaPath() returned the sidecar: %s", path)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat resolved path: %v", err)
	}
	if stat.Size() != int64(len(data)) {
		t.Errorf("media file size = %d, want %d", stat.Size(), len(data))
	}

	got, err := s.Get(asset.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.ID != asset.ID || got.Filename != "match.mp4" || got.MimeType != "video/mp4" {
		t.Errorf("Get() = %+v, want round-tripped asset", got)
	}
}

func TestStore_CreateRejectsUnsupportedType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(strings.NewReader("hello"), "notes.txt", "text/plain")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Create() error = %v, want ErrInvalidInput", err)
	}
}

func TestStore_CreateAllowsExtensionOrMime(t *testing.T) {
	s := newTestStore(t)

	// Extension on the allow-list, unknown mime
	if _, err := s.Create(strings.NewReader("x"), "clip.mov", "application/octet-stream"); err != nil {
		t.Errorf("Create(.mov) error: %v", err)
	}

	// Mime on the allow-list, no extension
	if _, err := s.Create(strings.NewReader("x"), "clip", "video/mp4"); err != nil {
		t.Errorf("Create(video/mp4) error: %v", err)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := s.ResolveMediaPath("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveMediaPath() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)

	asset, err := s.Create(strings.NewReader("data"), "clip.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	updated, err := s.Update(asset.ID, func(a *model.Asset) {
		a.Status = model.AssetAnalyzed
		a.Highlights = []model.Highlight{{Timestamp: 12.5, Tags: []string{"kill"}, Confidence: 0.9}}
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Status != model.AssetAnalyzed {
		t.Errorf("Status = %s, want analyzed", updated.Status)
	}

	got, err := s.Get(asset.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != model.AssetAnalyzed || len(got.Highlights) != 1 {
		t.Errorf("Get() after update = %+v, want analyzed with 1 highlight", got)
	}
	if got.Highlights[0].Timestamp != 12.5 {
		t.Errorf("Highlight timestamp = %f, want 12.5", got.Highlights[0].Timestamp)
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	asset, err := s.Create(strings.NewReader("data"), "clip.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := s.Delete(asset.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, err := s.Get(asset.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if _, err := s.ResolveMediaPath(asset.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveMediaPath() after delete = %v, want ErrNotFound", err)
	}

	// Media file and sidecar both removed
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("read storage dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("storage dir has %d leftover files", len(entries))
	}

	// Deleting again isn't an error
	if err := s.Delete(asset.ID); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}
