package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"astrofiler/internal/testsupport"
)

func TestEquipmentCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"equipment", "add", "filter", "Antlia Ha", "--detail", "Ha"}, env.configPath)
	if err != nil {
		t.Fatalf("equipment add: %v", err)
	}
	id := lastField(t, out)

	out, _, err = runCLI(t, []string{"equipment", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("equipment list: %v", err)
	}
	requireContains(t, out, "Antlia Ha")
	requireContains(t, out, "Ha")

	out, _, err = runCLI(t, []string{"equipment", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("equipment list --json: %v", err)
	}
	var items []map[string]string
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0]["id"] != id {
		t.Fatalf("unexpected items: %+v", items)
	}

	if _, _, err := runCLI(t, []string{"equipment", "add", "eyepiece", "Nagler"}, env.configPath); err == nil {
		t.Fatal("expected unknown kind to fail")
	}

	if _, _, err := runCLI(t, []string{"equipment", "remove", id}, env.configPath); err != nil {
		t.Fatalf("equipment remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"equipment", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("equipment list: %v", err)
	}
	requireContains(t, out, "No equipment recorded")
}

func TestFrameLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	for _, args := range [][]string{
		{"equipment", "add", "camera", "ASI2600MM"},
		{"equipment", "add", "filter", "Antlia Ha", "--detail", "Ha"},
	} {
		if _, _, err := runCLI(t, args, env.configPath); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, _, err := runCLI(t, []string{
		"frames", "add", "light",
		"--camera", "asi2600mm", "--filter", "Antlia Ha",
		"--target", "M31", "--date", "2024-10-05", "--sub-length", "300", "--gain", "100",
	}, env.configPath)
	if err != nil {
		t.Fatalf("frames add: %v", err)
	}
	id := lastField(t, out)

	card := filepath.Join(env.baseDir, "card")
	raws := testsupport.RawFrames(t, filepath.Join(card, "DCIM"), "Light", 3)
	testsupport.WriteFile(t, filepath.Join(card, "readme.txt"), 10)

	out, _, err = runCLI(t, []string{"frames", "queue", id, "--from", card}, env.configPath)
	if err != nil {
		t.Fatalf("frames queue: %v", err)
	}
	requireContains(t, out, "Queued 3 of 3 files")

	out, _, err = runCLI(t, []string{"frames", "show", id}, env.configPath)
	if err != nil {
		t.Fatalf("frames show: %v", err)
	}
	dest := filepath.Join(env.cfg.Paths.RootDir, "Lights", "M31", "2024-10-05", "ASI2600MM_Antlia Ha_300s_100g")
	requireContains(t, out, dest)
	requireContains(t, out, raws[0])

	out, _, err = runCLI(t, []string{"classify", id, "--progress", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 progress lines, got %d:\n%s", len(lines), out)
	}
	var last struct {
		Step  int  `json:"step"`
		Total int  `json:"total"`
		Modal bool `json:"modal"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if last.Step != 3 || last.Total != 3 {
		t.Fatalf("unexpected final progress: %+v", last)
	}
	for _, raw := range raws {
		if _, err := os.Stat(filepath.Join(dest, filepath.Base(raw))); err != nil {
			t.Fatalf("expected classified copy of %s: %v", raw, err)
		}
	}

	out, _, err = runCLI(t, []string{"frames", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("frames list: %v", err)
	}
	requireContains(t, out, "M31")

	out, _, err = runCLI(t, []string{"export", "--format", "yaml"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var exported struct {
		Lights map[string]struct {
			FramesClassified []string `yaml:"frames_classified"`
		} `yaml:"lights"`
	}
	if err := yaml.Unmarshal([]byte(out), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if got := len(exported.Lights[id].FramesClassified); got != 3 {
		t.Fatalf("expected 3 classified files in export, got %d", got)
	}

	if _, _, err := runCLI(t, []string{"frames", "remove", id}, env.configPath); err != nil {
		t.Fatalf("frames remove: %v", err)
	}
	out, _, err = runCLI(t, []string{"frames", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("frames list: %v", err)
	}
	requireContains(t, out, "No frames catalogued")
}

func TestFramesAddRejectsUnknownEquipment(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"frames", "add", "dark", "--camera", "Nonexistent"}, env.configPath)
	if err == nil {
		t.Fatal("expected unknown camera to fail")
	}
	requireContains(t, err.Error(), "no camera named")
}

func TestClassifyBiasIntoSessionIsUnsupported(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"frames", "add", "bias", "--gain", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("frames add: %v", err)
	}
	id := lastField(t, out)
	raws := testsupport.RawFrames(t, filepath.Join(env.baseDir, "card"), "Bias", 1)
	if _, _, err := runCLI(t, append([]string{"frames", "queue", id}, raws...), env.configPath); err != nil {
		t.Fatalf("frames queue: %v", err)
	}

	session := filepath.Join(env.baseDir, "session")
	if err := os.MkdirAll(session, 0o755); err != nil {
		t.Fatalf("mkdir session: %v", err)
	}
	_, _, err = runCLI(t, []string{"classify", id, "--session", session, "--progress", "none"}, env.configPath)
	if err == nil {
		t.Fatal("expected bias session classification to fail")
	}
	requireContains(t, err.Error(), "unsupported operation")
}

func TestClassifyUnknownFrame(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"classify", "missing", "--progress", "none"}, env.configPath)
	if err == nil {
		t.Fatal("expected classify of unknown frame to fail")
	}
	requireContains(t, err.Error(), "not found")
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Archive space")
	requireContains(t, out, "Patterns: all tokens recognized")
}

func TestClassifyJSONProgressIsCaseInsensitive(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"frames", "add", "dark", "--camera-temp", "-10", "--sub-length", "120"}, env.configPath)
	if err != nil {
		t.Fatalf("frames add: %v", err)
	}
	id := lastField(t, out)
	raws := testsupport.RawFrames(t, filepath.Join(env.baseDir, "card"), "Dark", 2)
	if _, _, err := runCLI(t, append([]string{"frames", "queue", id}, raws...), env.configPath); err != nil {
		t.Fatalf("frames queue: %v", err)
	}

	out, _, err = runCLI(t, []string{"classify", id, "--progress", " JSON "}, env.configPath)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 progress lines, got %d:\n%s", len(lines), out)
	}
	for _, line := range lines {
		var snapshot map[string]any
		if err := json.Unmarshal([]byte(line), &snapshot); err != nil {
			t.Fatalf("non-JSON line in progress stream %q: %v", line, err)
		}
	}
}
