package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPresetsMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadPresetsFromFile(filepath.Join(t.TempDir(), "presets.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(cfg.Presets) == 0 {
		t.Fatalf("Expected built-in presets")
	}
	if _, ok := cfg.Find("outbreak"); !ok {
		t.Errorf("Expected the outbreak preset")
	}
}

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "presets.yaml")

	cfg := &Config{}
	cfg.Add(Preset{Name: "small", Simulation: "Humans vs Zombies", Parameters: map[string]interface{}{"humans": 10}})
	cfg.Add(Preset{Name: "small", Simulation: "Humans vs Zombies", Parameters: map[string]interface{}{"humans": 20}})
	cfg.Add(Preset{Name: "protected", Simulation: "Humans vs Zombies with Vaccination"})

	if err := SavePresetsToFile(cfg, path); err != nil {
		t.Fatalf("Failed to save presets: %v", err)
	}

	loaded, err := LoadPresetsFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}
	if len(loaded.Presets) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(loaded.Presets))
	}

	small, ok := loaded.Find("small")
	if !ok {
		t.Fatalf("Expected preset small")
	}
	if small.Parameters["humans"] != 20 {
		t.Errorf("Expected the replaced preset to win, got %v", small.Parameters["humans"])
	}

	if !loaded.Remove("protected") {
		t.Errorf("Expected protected to be removed")
	}
	if loaded.Remove("protected") {
		t.Errorf("Expected a second remove to report false")
	}
	if _, ok := loaded.Find("protected"); ok {
		t.Errorf("Expected protected to be gone")
	}
}

func TestLoadPresetsRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "presets: [", wantErr: "failed to parse"},
		{name: "missing name", content: "presets:\n  - simulation: x\n", wantErr: "has no name"},
		{name: "missing simulation", content: "presets:\n  - name: a\n", wantErr: "has no simulation"},
		{name: "duplicate", content: "presets:\n  - {name: a, simulation: x}\n  - {name: a, simulation: y}\n", wantErr: "duplicate preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "presets.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadPresetsFromFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `simulation: Humans vs Zombies
parameters:
  humans: 200
  bite_factor: 0.002
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadParams(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rf.Simulation != "Humans vs Zombies" {
		t.Errorf("Expected simulation name, got %q", rf.Simulation)
	}
	if rf.Parameters["humans"] != 200 || rf.Parameters["bite_factor"] != 0.002 {
		t.Errorf("Unexpected parameters %v", rf.Parameters)
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("simulation: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rf, err = LoadParams(empty)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rf.Parameters == nil {
		t.Errorf("Expected an empty parameter map")
	}

	if _, err := LoadParams(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}
