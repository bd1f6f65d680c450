package frames_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrofiler/internal/config"
	"astrofiler/internal/equipment"
	"astrofiler/internal/faults"
	"astrofiler/internal/frames"
	"astrofiler/internal/pattern"
)

func testDirectory() *equipment.Directory {
	return equipment.NewDirectory(
		equipment.Item{ID: "cam", Kind: equipment.KindCamera, Name: "ASI2600MM"},
		equipment.Item{ID: "ha", Kind: equipment.KindFilter, Name: "Antlia Ha", Detail: "Ha"},
		equipment.Item{ID: "scope", Kind: equipment.KindTelescope, Name: "Esprit 100"},
	)
}

func TestLightDestinationUsesPattern(t *testing.T) {
	light := frames.NewLightFrame()
	light.CameraID = "cam"
	light.FilterID = "ha"
	light.Target = "M31"
	light.Date = time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC)
	light.SubLength = 300
	light.Gain = 100

	patterns := config.Default().Patterns
	got := light.Destination("/archive", patterns, testDirectory())
	assert.Equal(t, filepath.Join("/archive", "Lights", "M31", "2024-10-05", "ASI2600MM_Antlia Ha_300s_100g"), got)
}

func TestUnsetCameraResolvesToNone(t *testing.T) {
	light := frames.NewLightFrame()
	light.Target = "NGC 7000"

	patterns := config.Patterns{Light: "{CAMERA}/{TARGET}"}
	got := light.Destination("/root", patterns, testDirectory())
	assert.Equal(t, filepath.Join("/root", "None", "NGC 7000"), got)

	got = light.Destination("/root", patterns, nil)
	assert.Equal(t, filepath.Join("/root", "None", "NGC 7000"), got)
}

func TestLookupPerKind(t *testing.T) {
	eq := testDirectory()

	dark := frames.NewDarkFrame()
	dark.CameraID = "cam"
	dark.CameraTemp = -10
	dark.SubLength = 120.5
	dark.Gain = 0
	value, ok := dark.Lookup(eq)("CAMERATEMP")
	require.True(t, ok)
	assert.Equal(t, "-10", value)
	value, _ = dark.Lookup(eq)("SUBLENGTH")
	assert.Equal(t, "120.5", value)
	_, ok = dark.Lookup(eq)("TARGET")
	assert.False(t, ok, "darks have no target")

	bias := frames.NewBiasFrame()
	bias.TotalSubs = 50
	value, ok = bias.Lookup(eq)("TOTALSUBS")
	require.True(t, ok)
	assert.Equal(t, "50", value)
	_, ok = bias.Lookup(eq)("DATE")
	assert.False(t, ok)

	flat := frames.NewFlatFrame()
	flat.FilterID = "ha"
	value, _ = flat.Lookup(eq)("FILTERTYPE")
	assert.Equal(t, "Ha", value)
	value, _ = flat.Lookup(eq)("DATE")
	assert.Equal(t, pattern.Placeholder, value)
}

func TestUnknownTokenKeptVerbatim(t *testing.T) {
	bias := frames.NewBiasFrame()
	bias.Gain = 120
	got := bias.Destination("/a", config.Patterns{Bias: "Bias/{GAIN}/{TARGET}"}, nil)
	assert.Equal(t, filepath.Join("/a", "Bias", "120", "{TARGET}"), got)
}

func TestSessionCapability(t *testing.T) {
	patterns := config.Default().Patterns
	session := "/archive/2024-10-05 M31"

	light := frames.NewLightFrame()
	light.FilterID = "ha"
	var f frames.Frame = light
	sf, ok := f.(frames.SessionFrame)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(session, "Light", "Antlia Ha"), sf.SessionDestination(session, patterns, testDirectory()))

	f = frames.NewDarkFrame()
	sf, ok = f.(frames.SessionFrame)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(session, "Dark"), sf.SessionDestination(session, patterns, nil))

	f = frames.NewFlatFrame()
	sf, ok = f.(frames.SessionFrame)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(session, "Flat"), sf.SessionDestination(session, patterns, nil))

	f = frames.NewBiasFrame()
	_, ok = f.(frames.SessionFrame)
	assert.False(t, ok, "bias frames cannot join a session")
}

func TestCloneIsDeep(t *testing.T) {
	light := frames.NewLightFrame()
	light.FramesToClassify = []string{"/raw/a.fits"}
	light.FramesClassified = []string{"/arc/b.fits"}

	clone := light.Clone()
	clone.Base().FramesToClassify[0] = "/raw/changed.fits"
	clone.Base().FramesClassified = append(clone.Base().FramesClassified, "/arc/c.fits")

	assert.Equal(t, []string{"/raw/a.fits"}, light.FramesToClassify)
	assert.Equal(t, []string{"/arc/b.fits"}, light.FramesClassified)
}

func TestToClassifyReturnsCopy(t *testing.T) {
	dark := frames.NewDarkFrame()
	dark.FramesToClassify = []string{"/raw/a.fits"}
	list := dark.ToClassify()
	list[0] = "/x"
	assert.Equal(t, "/raw/a.fits", dark.FramesToClassify[0])
}

func TestEnqueueSkipsKnownPaths(t *testing.T) {
	flat := frames.NewFlatFrame()
	flat.FramesClassified = []string{"/arc/done.fits"}

	added, err := flat.Enqueue("/raw/1.fits", "/raw/2.fits", "/raw/1.fits", "/arc/done.fits")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"/raw/1.fits", "/raw/2.fits"}, flat.FramesToClassify)

	added, err = flat.Enqueue("/raw/2.fits")
	require.NoError(t, err)
	assert.Zero(t, added)

	_, err = flat.Enqueue("relative.fits")
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
	assert.Len(t, flat.FramesToClassify, 2)
}

func TestMarkClassifiedMovesExactMatch(t *testing.T) {
	light := frames.NewLightFrame()
	light.FramesToClassify = []string{"/raw/a.fits", "/raw/b.fits"}
	light.MarkClassified("/raw/a.fits", "/arc/a.fits")

	assert.Equal(t, []string{"/raw/b.fits"}, light.FramesToClassify)
	assert.Equal(t, []string{"/arc/a.fits"}, light.FramesClassified)
	require.NoError(t, light.Validate())
}

func TestValidateRejectsOverlap(t *testing.T) {
	dark := frames.NewDarkFrame()
	dark.FramesToClassify = []string{"/same.fits"}
	dark.FramesClassified = []string{"/same.fits"}
	err := dark.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
}

func TestParseKindAndNew(t *testing.T) {
	kind, err := frames.ParseKind("Biases")
	require.NoError(t, err)
	assert.Equal(t, frames.KindBias, kind)
	assert.Equal(t, "Bias", kind.Title())

	frame, err := frames.New(frames.KindFlat)
	require.NoError(t, err)
	assert.Equal(t, frames.KindFlat, frame.Kind())
	assert.NotEmpty(t, frame.FrameID())

	_, err = frames.ParseKind("sky")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := frames.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = frames.ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = frames.ParseDate("29/02/2024")
	require.Error(t, err)
}

func TestUnknownTokens(t *testing.T) {
	patterns := config.Default().Patterns
	assert.Empty(t, frames.UnknownTokens(patterns))

	patterns.Bias = "Bias/{CAMERA}/{TARGET}"
	patterns.LightSession = "Light/{FILTR}"
	problems := frames.UnknownTokens(patterns)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "patterns.bias: {TARGET}")
	assert.Contains(t, problems[1], "patterns.light_session: {FILTR}")
}
