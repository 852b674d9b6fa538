package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Notmuch.Binary != "notmuch" {
		t.Errorf("default binary = %q, want %q", cfg.Notmuch.Binary, "notmuch")
	}
	if cfg.UI.InitialQuery != "tag:inbox" {
		t.Errorf("default initial_query = %q, want %q", cfg.UI.InitialQuery, "tag:inbox")
	}
	if cfg.UI.PageSize != 50 {
		t.Errorf("default page_size = %d, want 50", cfg.UI.PageSize)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
contacts = "/home/user/.contacts"

[notmuch]
binary = "/usr/local/bin/notmuch"

[ui]
initial_query = "tag:inbox and not tag:spam"
page_size = 25

[account]
name = "Alice"
email = "alice@example.com"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Notmuch.Binary != "/usr/local/bin/notmuch" {
		t.Errorf("binary = %q, want %q", cfg.Notmuch.Binary, "/usr/local/bin/notmuch")
	}
	if cfg.UI.InitialQuery != "tag:inbox and not tag:spam" {
		t.Errorf("initial_query = %q", cfg.UI.InitialQuery)
	}
	if cfg.Account.Email != "alice@example.com" {
		t.Errorf("account email = %q, want alice@example.com", cfg.Account.Email)
	}
	if cfg.Contacts != "/home/user/.contacts" {
		t.Errorf("contacts = %q, want /home/user/.contacts", cfg.Contacts)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Notmuch.Binary != "notmuch" {
		t.Errorf("binary = %q, want default %q", cfg.Notmuch.Binary, "notmuch")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("not valid [[ toml"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "failed to parse config")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		dir := ConfigDir()
		want := "/custom/config/csup"
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		dir := ConfigDir()
		if !strings.HasSuffix(dir, filepath.Join(".config", "csup")) {
			t.Errorf("ConfigDir() = %q, want suffix %q", dir, filepath.Join(".config", "csup"))
		}
	})
}

func TestLoadContacts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts")
	content := `# friends
Alice Example <alice@example.com>
bob@example.com

# work
"Carol C." <carol@example.com>
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	book, err := LoadContacts(path)
	if err != nil {
		t.Fatalf("LoadContacts() error: %v", err)
	}
	if book.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", book.Len())
	}
	if c, ok := book.Lookup("alice@example.com"); !ok || c.Name != "Alice Example" {
		t.Errorf("Lookup(alice) = %+v, %v", c, ok)
	}
	if c, ok := book.Lookup("carol@example.com"); !ok || c.Name != "Carol C." {
		t.Errorf("Lookup(carol) = %+v, %v", c, ok)
	}
}

func TestLoadContacts_Missing(t *testing.T) {
	book, err := LoadContacts(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadContacts() error for missing file: %v", err)
	}
	if book.Len() != 0 {
		t.Errorf("Len() = %d, want 0", book.Len())
	}
}
