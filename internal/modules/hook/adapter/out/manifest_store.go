package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"yogavrita/internal/modules/hook/domain"
	hookout "yogavrita/internal/modules/hook/port/out"
)

type FileManifestStore struct {
	path string
}

// NewFileManifestStore reads manifests from path. Relative binaries resolve
// against the directory holding the manifest file; checksums and event names
// are compared lowercase, so they are normalized on load.
func NewFileManifestStore(path string) hookout.ManifestStore {
	return &FileManifestStore{path: path}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read hook manifests: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode hook manifests: %w", err)
	}
	base := filepath.Dir(s.path)
	for i := range manifests {
		m := &manifests[i]
		m.SHA256 = strings.ToLower(strings.TrimSpace(m.SHA256))
		for j, event := range m.Events {
			m.Events[j] = domain.Event(strings.ToLower(strings.TrimSpace(string(event))))
		}
		if len(m.Events) == 0 {
			return nil, fmt.Errorf("%s: entry %d (%q) subscribes to no events", s.path, i, m.Name)
		}
		if m.Binary != "" && !filepath.IsAbs(m.Binary) {
			m.Binary = filepath.Clean(filepath.Join(base, m.Binary))
		}
	}
	return manifests, nil
}
