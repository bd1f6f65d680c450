package frames

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog owns every frame, one map per kind. A frame id lives in exactly one
// map. Catalog is not safe for concurrent use; archive.State guards it.
type Catalog struct {
	Lights map[string]*LightFrame `json:"lights" yaml:"lights"`
	Darks  map[string]*DarkFrame  `json:"darks" yaml:"darks"`
	Biases map[string]*BiasFrame  `json:"biases" yaml:"biases"`
	Flats  map[string]*FlatFrame  `json:"flats" yaml:"flats"`
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.ensure()
	return c
}

func (c *Catalog) ensure() {
	if c.Lights == nil {
		c.Lights = make(map[string]*LightFrame)
	}
	if c.Darks == nil {
		c.Darks = make(map[string]*DarkFrame)
	}
	if c.Biases == nil {
		c.Biases = make(map[string]*BiasFrame)
	}
	if c.Flats == nil {
		c.Flats = make(map[string]*FlatFrame)
	}
}

// Get returns a copy of the frame with id in the map for kind.
func (c *Catalog) Get(kind Kind, id string) (Frame, bool) {
	var (
		frame Frame
		ok    bool
	)
	switch kind {
	case KindLight:
		var f *LightFrame
		f, ok = c.Lights[id]
		frame = f
	case KindDark:
		var f *DarkFrame
		f, ok = c.Darks[id]
		frame = f
	case KindBias:
		var f *BiasFrame
		f, ok = c.Biases[id]
		frame = f
	case KindFlat:
		var f *FlatFrame
		f, ok = c.Flats[id]
		frame = f
	}
	if !ok {
		return nil, false
	}
	return frame.Clone(), true
}

// Find returns a copy of the frame with id, whatever its kind.
func (c *Catalog) Find(id string) (Frame, bool) {
	for _, kind := range Kinds() {
		if frame, ok := c.Get(kind, id); ok {
			return frame, true
		}
	}
	return nil, false
}

// All returns copies of every frame ordered by kind then id.
func (c *Catalog) All() []Frame {
	out := make([]Frame, 0, c.Len())
	for _, f := range c.Lights {
		out = append(out, f.Clone())
	}
	for _, f := range c.Darks {
		out = append(out, f.Clone())
	}
	for _, f := range c.Biases {
		out = append(out, f.Clone())
	}
	for _, f := range c.Flats {
		out = append(out, f.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind() != out[j].Kind() {
			return out[i].Kind().order() < out[j].Kind().order()
		}
		return out[i].FrameID() < out[j].FrameID()
	})
	return out
}

// ClassifiedBy returns the id of a frame whose classified list contains path.
func (c *Catalog) ClassifiedBy(path string) (string, bool) {
	for _, f := range c.All() {
		if slices.Contains(f.Base().FramesClassified, path) {
			return f.FrameID(), true
		}
	}
	return "", false
}

// Len returns the number of frames across all kinds.
func (c *Catalog) Len() int {
	return len(c.Lights) + len(c.Darks) + len(c.Biases) + len(c.Flats)
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, f := range c.All() {
		f.InsertInto(out)
	}
	return out
}

// Save writes the catalog to path through a temporary file and rename.
func (c *Catalog) Save(path string) error {
	c.ensure()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// LoadCatalog reads the catalog at path. A missing file yields an empty
// catalog and no error. A file that cannot be read or parsed yields an empty
// catalog together with the error so the caller can log it and carry on.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(), nil
		}
		return NewCatalog(), fmt.Errorf("read catalog file: %w", err)
	}
	if len(data) == 0 {
		return NewCatalog(), nil
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return NewCatalog(), fmt.Errorf("parse catalog file: %w", err)
	}
	c.ensure()
	if err := c.validate(); err != nil {
		return NewCatalog(), err
	}
	return &c, nil
}

// validate checks map keys against frame ids and that no id is shared across kinds.
func (c *Catalog) validate() error {
	seen := make(map[string]Kind, c.Len())
	check := func(key string, f Frame) error {
		if f == nil || key != f.FrameID() {
			return fmt.Errorf("catalog entry %q does not match its frame id", key)
		}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("frame %s appears as both %s and %s", key, prev, f.Kind())
		}
		seen[key] = f.Kind()
		return f.Base().Validate()
	}
	for k, f := range c.Lights {
		if f == nil {
			return fmt.Errorf("catalog entry %q is empty", k)
		}
		if err := check(k, f); err != nil {
			return err
		}
	}
	for k, f := range c.Darks {
		if f == nil {
			return fmt.Errorf("catalog entry %q is empty", k)
		}
		if err := check(k, f); err != nil {
			return err
		}
	}
	for k, f := range c.Biases {
		if f == nil {
			return fmt.Errorf("catalog entry %q is empty", k)
		}
		if err := check(k, f); err != nil {
			return err
		}
	}
	for k, f := range c.Flats {
		if f == nil {
			return fmt.Errorf("catalog entry %q is empty", k)
		}
		if err := check(k, f); err != nil {
			return err
		}
	}
	return nil
}

// EncodeYAML renders the catalog for export.
func (c *Catalog) EncodeYAML() ([]byte, error) {
	c.ensure()
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode catalog yaml: %w", err)
	}
	return data, nil
}

// EncodeJSON renders the catalog as indented JSON.
func (c *Catalog) EncodeJSON() ([]byte, error) {
	c.ensure()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog json: %w", err)
	}
	return data, nil
}
