package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := Path(), "/custom/config/folio/config.yml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := Path(), filepath.Join(home, ".config", "folio", "config.yml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := Default()
	if cfg.Bibliography != def.Bibliography || cfg.License != def.License {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.CachePath != DefaultCachePath() {
		t.Errorf("CachePath = %q, want %q", cfg.CachePath, DefaultCachePath())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `bibliography: https://example.org/publications.bib
owner_name: Mehran Ahmadlou
rate_limit: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_CONTACT_ENDPOINT", "https://forms.example.org/f/abc")
	t.Setenv("FOLIO_OWNER_NAME", "Override Name")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bibliography != "https://example.org/publications.bib" {
		t.Errorf("Bibliography = %q", cfg.Bibliography)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("RateLimit = %v, want 5", cfg.RateLimit)
	}
	if cfg.ContactEndpoint != "https://forms.example.org/f/abc" {
		t.Errorf("ContactEndpoint = %q", cfg.ContactEndpoint)
	}
	if cfg.OwnerName != "Override Name" {
		t.Errorf("OwnerName = %q, env should override file", cfg.OwnerName)
	}
	if cfg.License != "LICENSE" {
		t.Errorf("License = %q, want default", cfg.License)
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("FOLIO_RATE_LIMIT", "fast")
	if _, err := Load(""); err == nil {
		t.Fatal("Load() should reject a non-numeric FOLIO_RATE_LIMIT")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("bibliography: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail on invalid YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")

	cfg := Default()
	if err := cfg.Set("owner_name", "Dr. Y"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("rate-limit", "0.5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.OwnerName != "Dr. Y" || loaded.RateLimit != 0.5 {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if _, err := cfg.Get("pdf-root"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(unknown) error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set("rate-limit", "lots"); err == nil {
		t.Error("Set(rate-limit, lots) should fail")
	}

	got, err := cfg.Get("Listen_Addr")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "127.0.0.1:8080" {
		t.Errorf("Get(listen-addr) = %q", got)
	}

	if n := len(cfg.Values()); n != len(Keys()) {
		t.Errorf("Values() has %d keys, want %d", n, len(Keys()))
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~/cache.db", filepath.Join(home, "cache.db")},
		{"/abs/cache.db", "/abs/cache.db"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("owner_name: From File\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_OWNER_NAME", "From Env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.OwnerName != "From File" {
		t.Errorf("OwnerName = %q, want %q", cfg.OwnerName, "From File")
	}
	if cfg.CachePath != "" {
		t.Errorf("CachePath = %q, want empty (not defaulted)", cfg.CachePath)
	}
}
