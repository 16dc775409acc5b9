package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// Catalog provides read access to a set of definitions keyed by id.
type Catalog[T Definition] interface {
	Get(string) T
	GetAll() map[string]T
}

// FileCatalog holds definitions built from compiled-in defaults plus any
// JSON asset files found under a directory. Files with an id matching a
// default replace it. The catalog is immutable once built, so reads need
// no locking.
type FileCatalog[T Definition] struct {
	path    string
	records map[string]T
}

func NewFileCatalog[T Definition](path string, defaults map[string]T) (*FileCatalog[T], error) {
	c := &FileCatalog[T]{
		path:    path,
		records: map[string]T{},
	}

	for id, def := range defaults {
		if !identifierPattern.MatchString(id) {
			return nil, fmt.Errorf("default %q: id must be alphanumeric", id)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating default %q: %w", id, err)
		}
		c.records[id] = def
	}

	if path != "" {
		if err := c.load(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *FileCatalog[T]) load() error {
	// Track which ids came from files so two files can't claim the same id,
	// while a file is still free to replace a default.
	fromFile := map[string]bool{}

	return filepath.Walk(c.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := c.loadAsset(path)
		if err != nil {
			return err
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		id := asset.Id().String()
		if fromFile[id] {
			return fmt.Errorf("duplicate key detected: %s", id)
		}
		fromFile[id] = true

		c.records[id] = asset.Spec
		return nil
	})
}

func (c *FileCatalog[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var spec T
	asset := &Asset[T]{
		Spec: spec,
	}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

func (c *FileCatalog[T]) Get(id string) T {
	val, ok := c.records[id]
	if !ok {
		var nilVal T
		return nilVal
	}

	return val
}

func (c *FileCatalog[T]) GetAll() map[string]T {
	vals := map[string]T{}
	for id, v := range c.records {
		vals[id] = v
	}

	return vals
}

// Ids returns every definition id in sorted order.
func (c *FileCatalog[T]) Ids() []string {
	ids := make([]string, 0, len(c.records))
	for id := range c.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}
