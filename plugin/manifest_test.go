package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/greymalkin-ai/greymalkin/core"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	content := `{
		"name": "calc",
		"tools": [
			{
				"name": "add",
				"description": "add(a, b): adds two numbers",
				"docstring": "Arithmetic helper.",
				"input_schema": {"type": "object"}
			}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "calc" || len(m.Tools) != 1 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Tools[0].Docstring != "Arithmetic helper." {
		t.Fatalf("docstring = %q", m.Tools[0].Docstring)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		manifest Manifest
		wantErr  bool
	}{
		{"valid", Manifest{Name: "p", Tools: []core.ToolDescriptor{{Name: "t", Description: "d"}}}, false},
		{"no tools is valid", Manifest{Name: "p"}, false},
		{"missing plugin name", Manifest{Tools: []core.ToolDescriptor{{Name: "t", Description: "d"}}}, true},
		{"tool missing name", Manifest{Name: "p", Tools: []core.ToolDescriptor{{Description: "d"}}}, true},
		{"tool missing description", Manifest{Name: "p", Tools: []core.ToolDescriptor{{Name: "t"}}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.manifest.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
