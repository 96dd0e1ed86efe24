package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "keyboard", "", "keystroke", "navigate")
	writePlugin(t, dir, "system-control", "", "volume-up", "volume-step")

	// Noise that must be skipped.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "no-manifest"), 0755); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad")
	if err := os.MkdirAll(bad, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bad, "plugin.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(dir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := mgr.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "keyboard" || plugins[1].Manifest.Name != "system-control" {
		t.Errorf("List() not sorted by name: %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}

	kb := plugins[0]
	if kb.Path != filepath.Join(dir, "keyboard") {
		t.Errorf("Path = %q", kb.Path)
	}
	if kb.Executable != filepath.Join(dir, "keyboard", "run.sh") {
		t.Errorf("Executable = %q", kb.Executable)
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "keyboard", "", "keystroke")

	mgr := NewManager(dir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if err := os.RemoveAll(filepath.Join(dir, "keyboard")); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if n := len(mgr.List()); n != 0 {
		t.Errorf("expected removed plugin to disappear, got %d plugins", n)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := mgr.Discover(); err != nil {
		t.Errorf("Discover() on missing dir should not fail: %v", err)
	}
	if n := len(mgr.List()); n != 0 {
		t.Errorf("expected no plugins, got %d", n)
	}
}

func TestManager_Lookup(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "keyboard", "", "keystroke", "navigate")

	mgr := NewManager(dir)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	tests := []struct {
		name    string
		plugin  string
		action  string
		wantErr error
	}{
		{"declared action", "keyboard", "navigate", nil},
		{"undeclared action", "keyboard", "volume-up", ErrUnknownAction},
		{"missing plugin", "nope", "keystroke", ErrPluginNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := mgr.Lookup(tt.plugin, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Lookup() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && p.Manifest.Name != tt.plugin {
				t.Errorf("Lookup() = %s", p.Manifest.Name)
			}
		})
	}
}

func TestManager_PluginDir(t *testing.T) {
	mgr := NewManager("/some/dir")
	if mgr.PluginDir() != "/some/dir" {
		t.Errorf("PluginDir() = %q", mgr.PluginDir())
	}
}
