package frames

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
	"astrofiler/internal/faults"
	"astrofiler/internal/pattern"
)

// Frame is implemented by every frame kind. The classification engine drives
// frames only through this interface.
type Frame interface {
	FrameID() string
	Kind() Kind
	// Base grants mutable access to the shared fields, including both path lists.
	Base() *Common
	// ToClassify returns a copy of the pending source paths.
	ToClassify() []string
	// Clone returns a deep copy.
	Clone() Frame
	// InsertInto stores a clone of the frame in c under its own id,
	// replacing any previous entry.
	InsertInto(c *Catalog)
	RemoveFrom(c *Catalog)
	// Lookup resolves naming tokens for this frame.
	Lookup(eq equipment.Resolver) pattern.Lookup
	// Destination builds the archive directory for this frame from the
	// configured naming pattern.
	Destination(root string, patterns config.Patterns, eq equipment.Resolver) string
}

// SessionFrame is implemented by kinds that can be classified into an
// existing imaging-session folder.
type SessionFrame interface {
	Frame
	SessionDestination(session string, patterns config.Patterns, eq equipment.Resolver) string
}

// Common carries the fields shared by every kind.
type Common struct {
	ID               string   `json:"id" yaml:"id"`
	CameraID         string   `json:"camera_id,omitempty" yaml:"camera_id,omitempty"`
	TotalSubs        int      `json:"total_subs" yaml:"total_subs"`
	Gain             int      `json:"gain" yaml:"gain"`
	FramesToClassify []string `json:"frames_to_classify,omitempty" yaml:"frames_to_classify,omitempty"`
	FramesClassified []string `json:"frames_classified,omitempty" yaml:"frames_classified,omitempty"`
}

func newCommon() Common {
	return Common{ID: uuid.NewString()}
}

func (c Common) clone() Common {
	c.FramesToClassify = slices.Clone(c.FramesToClassify)
	c.FramesClassified = slices.Clone(c.FramesClassified)
	return c
}

// Validate reports a path that appears in both lists.
func (c *Common) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return faults.Wrap(faults.ErrValidation, "frames", "validate", "frame id is empty", nil)
	}
	classified := make(map[string]struct{}, len(c.FramesClassified))
	for _, p := range c.FramesClassified {
		classified[p] = struct{}{}
	}
	for _, p := range c.FramesToClassify {
		if _, ok := classified[p]; ok {
			return faults.Wrap(faults.ErrValidation, "frames", "validate",
				fmt.Sprintf("%s is both queued and classified", p), nil)
		}
	}
	return nil
}

// Enqueue appends absolute source paths to the to-classify list. Paths already
// queued or already classified are skipped. It returns the number added.
func (c *Common) Enqueue(paths ...string) (int, error) {
	known := make(map[string]struct{}, len(c.FramesToClassify)+len(c.FramesClassified))
	for _, p := range c.FramesToClassify {
		known[p] = struct{}{}
	}
	for _, p := range c.FramesClassified {
		known[p] = struct{}{}
	}
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			return 0, faults.Wrap(faults.ErrValidation, "frames", "enqueue",
				fmt.Sprintf("source path %q is not absolute", p), nil)
		}
	}
	added := 0
	for _, p := range paths {
		if _, ok := known[p]; ok {
			continue
		}
		known[p] = struct{}{}
		c.FramesToClassify = append(c.FramesToClassify, p)
		added++
	}
	return added, nil
}

// MarkClassified moves source from the to-classify list to the classified list
// as destination. Only the first exact match of source is removed.
func (c *Common) MarkClassified(source, destination string) {
	c.FramesClassified = append(c.FramesClassified, destination)
	if idx := slices.Index(c.FramesToClassify, source); idx >= 0 {
		c.FramesToClassify = slices.Delete(c.FramesToClassify, idx, idx+1)
	}
	if len(c.FramesToClassify) == 0 {
		c.FramesToClassify = nil
	}
}

func resolverOrEmpty(eq equipment.Resolver) equipment.Resolver {
	if eq == nil {
		return (*equipment.Directory)(nil)
	}
	return eq
}

// LightFrame is a science exposure of a target.
type LightFrame struct {
	Common      `yaml:",inline"`
	Date        time.Time `json:"date" yaml:"date"`
	Target      string    `json:"target,omitempty" yaml:"target,omitempty"`
	FilterID    string    `json:"filter_id,omitempty" yaml:"filter_id,omitempty"`
	TelescopeID string    `json:"telescope_id,omitempty" yaml:"telescope_id,omitempty"`
	FlattenerID string    `json:"flattener_id,omitempty" yaml:"flattener_id,omitempty"`
	MountID     string    `json:"mount_id,omitempty" yaml:"mount_id,omitempty"`
	LocationID  string    `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	SubLength   float64   `json:"sub_length" yaml:"sub_length"`
	Seeing      float64   `json:"seeing,omitempty" yaml:"seeing,omitempty"`
	Temperature float64   `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewLightFrame returns a light frame with a fresh id.
func NewLightFrame() *LightFrame { return &LightFrame{Common: newCommon()} }

func (f *LightFrame) FrameID() string      { return f.ID }
func (f *LightFrame) Kind() Kind           { return KindLight }
func (f *LightFrame) Base() *Common        { return &f.Common }
func (f *LightFrame) ToClassify() []string { return slices.Clone(f.FramesToClassify) }

func (f *LightFrame) Clone() Frame {
	out := *f
	out.Common = f.Common.clone()
	return &out
}

func (f *LightFrame) InsertInto(c *Catalog) {
	c.ensure()
	c.Lights[f.ID] = f.Clone().(*LightFrame)
}

func (f *LightFrame) RemoveFrom(c *Catalog) {
	delete(c.Lights, f.ID)
}

func (f *LightFrame) Lookup(eq equipment.Resolver) pattern.Lookup {
	eq = resolverOrEmpty(eq)
	return func(token string) (string, bool) {
		switch token {
		case "CAMERA":
			return eq.Name(equipment.KindCamera, f.CameraID), true
		case "DATE":
			return pattern.FormatDate(f.Date), true
		case "TARGET":
			return pattern.Text(f.Target), true
		case "FILTER":
			return eq.Name(equipment.KindFilter, f.FilterID), true
		case "FILTERTYPE":
			return eq.FilterType(f.FilterID), true
		case "TELESCOPE":
			return eq.Name(equipment.KindTelescope, f.TelescopeID), true
		case "FLATTENER":
			return eq.Name(equipment.KindFlattener, f.FlattenerID), true
		case "MOUNT":
			return eq.Name(equipment.KindMount, f.MountID), true
		case "LOCATION":
			return eq.Name(equipment.KindLocation, f.LocationID), true
		case "SUBLENGTH":
			return pattern.FormatFloat(f.SubLength), true
		case "TOTALSUBS":
			return pattern.FormatInt(f.TotalSubs), true
		case "GAIN":
			return pattern.FormatInt(f.Gain), true
		}
		return "", false
	}
}

func (f *LightFrame) Destination(root string, patterns config.Patterns, eq equipment.Resolver) string {
	return pattern.Resolve(root, patterns.Light, f.Lookup(eq))
}

// SessionDestination places lights under the session folder using the
// light_session pattern.
func (f *LightFrame) SessionDestination(session string, patterns config.Patterns, eq equipment.Resolver) string {
	return pattern.Resolve(session, patterns.LightSession, f.Lookup(eq))
}

// DarkFrame is a shuttered exposure matching a light's temperature and length.
type DarkFrame struct {
	Common     `yaml:",inline"`
	CameraTemp float64 `json:"camera_temp" yaml:"camera_temp"`
	SubLength  float64 `json:"sub_length" yaml:"sub_length"`
}

// NewDarkFrame returns a dark frame with a fresh id.
func NewDarkFrame() *DarkFrame { return &DarkFrame{Common: newCommon()} }

func (f *DarkFrame) FrameID() string      { return f.ID }
func (f *DarkFrame) Kind() Kind           { return KindDark }
func (f *DarkFrame) Base() *Common        { return &f.Common }
func (f *DarkFrame) ToClassify() []string { return slices.Clone(f.FramesToClassify) }

func (f *DarkFrame) Clone() Frame {
	out := *f
	out.Common = f.Common.clone()
	return &out
}

func (f *DarkFrame) InsertInto(c *Catalog) {
	c.ensure()
	c.Darks[f.ID] = f.Clone().(*DarkFrame)
}

func (f *DarkFrame) RemoveFrom(c *Catalog) {
	delete(c.Darks, f.ID)
}

func (f *DarkFrame) Lookup(eq equipment.Resolver) pattern.Lookup {
	eq = resolverOrEmpty(eq)
	return func(token string) (string, bool) {
		switch token {
		case "CAMERA":
			return eq.Name(equipment.KindCamera, f.CameraID), true
		case "CAMERATEMP":
			return pattern.FormatFloat(f.CameraTemp), true
		case "SUBLENGTH":
			return pattern.FormatFloat(f.SubLength), true
		case "TOTALSUBS":
			return pattern.FormatInt(f.TotalSubs), true
		case "GAIN":
			return pattern.FormatInt(f.Gain), true
		}
		return "", false
	}
}

func (f *DarkFrame) Destination(root string, patterns config.Patterns, eq equipment.Resolver) string {
	return pattern.Resolve(root, patterns.Dark, f.Lookup(eq))
}

// SessionDestination places darks in a fixed Dark subfolder.
func (f *DarkFrame) SessionDestination(session string, _ config.Patterns, _ equipment.Resolver) string {
	return filepath.Join(session, "Dark")
}

// BiasFrame is a minimum-length exposure. Bias frames are shared across
// sessions and cannot be classified into one.
type BiasFrame struct {
	Common `yaml:",inline"`
}

// NewBiasFrame returns a bias frame with a fresh id.
func NewBiasFrame() *BiasFrame { return &BiasFrame{Common: newCommon()} }

func (f *BiasFrame) FrameID() string      { return f.ID }
func (f *BiasFrame) Kind() Kind           { return KindBias }
func (f *BiasFrame) Base() *Common        { return &f.Common }
func (f *BiasFrame) ToClassify() []string { return slices.Clone(f.FramesToClassify) }

func (f *BiasFrame) Clone() Frame {
	return &BiasFrame{Common: f.Common.clone()}
}

func (f *BiasFrame) InsertInto(c *Catalog) {
	c.ensure()
	c.Biases[f.ID] = f.Clone().(*BiasFrame)
}

func (f *BiasFrame) RemoveFrom(c *Catalog) {
	delete(c.Biases, f.ID)
}

func (f *BiasFrame) Lookup(eq equipment.Resolver) pattern.Lookup {
	eq = resolverOrEmpty(eq)
	return func(token string) (string, bool) {
		switch token {
		case "CAMERA":
			return eq.Name(equipment.KindCamera, f.CameraID), true
		case "TOTALSUBS":
			return pattern.FormatInt(f.TotalSubs), true
		case "GAIN":
			return pattern.FormatInt(f.Gain), true
		}
		return "", false
	}
}

func (f *BiasFrame) Destination(root string, patterns config.Patterns, eq equipment.Resolver) string {
	return pattern.Resolve(root, patterns.Bias, f.Lookup(eq))
}

// FlatFrame is an evenly illuminated exposure taken through a filter.
type FlatFrame struct {
	Common   `yaml:",inline"`
	Date     time.Time `json:"date" yaml:"date"`
	FilterID string    `json:"filter_id,omitempty" yaml:"filter_id,omitempty"`
}

// NewFlatFrame returns a flat frame with a fresh id.
func NewFlatFrame() *FlatFrame { return &FlatFrame{Common: newCommon()} }

func (f *FlatFrame) FrameID() string      { return f.ID }
func (f *FlatFrame) Kind() Kind           { return KindFlat }
func (f *FlatFrame) Base() *Common        { return &f.Common }
func (f *FlatFrame) ToClassify() []string { return slices.Clone(f.FramesToClassify) }

func (f *FlatFrame) Clone() Frame {
	out := *f
	out.Common = f.Common.clone()
	return &out
}

func (f *FlatFrame) InsertInto(c *Catalog) {
	c.ensure()
	c.Flats[f.ID] = f.Clone().(*FlatFrame)
}

func (f *FlatFrame) RemoveFrom(c *Catalog) {
	delete(c.Flats, f.ID)
}

func (f *FlatFrame) Lookup(eq equipment.Resolver) pattern.Lookup {
	eq = resolverOrEmpty(eq)
	return func(token string) (string, bool) {
		switch token {
		case "CAMERA":
			return eq.Name(equipment.KindCamera, f.CameraID), true
		case "DATE":
			return pattern.FormatDate(f.Date), true
		case "FILTER":
			return eq.Name(equipment.KindFilter, f.FilterID), true
		case "FILTERTYPE":
			return eq.FilterType(f.FilterID), true
		case "TOTALSUBS":
			return pattern.FormatInt(f.TotalSubs), true
		case "GAIN":
			return pattern.FormatInt(f.Gain), true
		}
		return "", false
	}
}

func (f *FlatFrame) Destination(root string, patterns config.Patterns, eq equipment.Resolver) string {
	return pattern.Resolve(root, patterns.Flat, f.Lookup(eq))
}

// SessionDestination places flats in a fixed Flat subfolder.
func (f *FlatFrame) SessionDestination(session string, _ config.Patterns, _ equipment.Resolver) string {
	return filepath.Join(session, "Flat")
}

// New returns an empty frame of the given kind with a fresh id.
func New(kind Kind) (Frame, error) {
	switch kind {
	case KindLight:
		return NewLightFrame(), nil
	case KindDark:
		return NewDarkFrame(), nil
	case KindBias:
		return NewBiasFrame(), nil
	case KindFlat:
		return NewFlatFrame(), nil
	}
	return nil, faults.Wrap(faults.ErrValidation, "frames", "new", fmt.Sprintf("unknown frame kind %q", kind), nil)
}

// ParseDate parses a capture date in pattern.DateLayout as UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.ParseInLocation(pattern.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, faults.Wrap(faults.ErrValidation, "frames", "parse date",
			fmt.Sprintf("date %q must look like %s", value, pattern.DateLayout), nil)
	}
	return parsed, nil
}
