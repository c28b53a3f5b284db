// Package production provides production integrations: snapshot persistence,
// versioned registries, transition observers and visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/comalice/staterouter/internal/core"
)

// filePersister stores one snapshot file per router ID.
type filePersister struct {
	dir       string
	ext       string
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func newFilePersister(dir, ext string, marshal func(any) ([]byte, error), unmarshal func([]byte, any) error) (filePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filePersister{}, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return filePersister{dir: dir, ext: ext, marshal: marshal, unmarshal: unmarshal}, nil
}

func (p filePersister) path(routerID string) string {
	return filepath.Join(p.dir, routerID+p.ext)
}

func (p filePersister) save(snapshot core.Snapshot) error {
	if snapshot.RouterID == "" {
		return errors.New("snapshot has no router ID")
	}
	data, err := p.marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", p.ext[1:], err)
	}

	fn := p.path(snapshot.RouterID)
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return fmt.Errorf("rename %s: %w", fn, err)
	}
	return nil
}

func (p filePersister) load(routerID string) (core.Snapshot, error) {
	fn := p.path(routerID)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Snapshot{}, fmt.Errorf("router %q: %w", routerID, os.ErrNotExist)
		}
		return core.Snapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot core.Snapshot
	if err := p.unmarshal(data, &snapshot); err != nil {
		return core.Snapshot{}, fmt.Errorf("%s unmarshal: %w", p.ext[1:], err)
	}
	snapshot.RouterID = routerID
	return snapshot, nil
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	files filePersister
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	files, err := newFilePersister(dir, ".json", func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}, json.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &JSONPersister{files: files}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	return p.files.save(snapshot)
}

func (p *JSONPersister) Load(ctx context.Context, routerID string) (core.Snapshot, error) {
	return p.files.load(routerID)
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	files filePersister
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	files, err := newFilePersister(dir, ".yaml", yaml.Marshal, yaml.Unmarshal)
	if err != nil {
		return nil, err
	}
	return &YAMLPersister{files: files}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	return p.files.save(snapshot)
}

func (p *YAMLPersister) Load(ctx context.Context, routerID string) (core.Snapshot, error) {
	return p.files.load(routerID)
}
