package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "forescout-tools") {
		t.Errorf("GetConfigDir() = %v, should contain 'forescout-tools'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") && os.Getenv("XDG_CONFIG_HOME") == "" {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestResolvePath(t *testing.T) {
	exeDir := t.TempDir()
	original := executableDir
	executableDir = func() (string, error) { return exeDir, nil }
	defer func() { executableDir = original }()

	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "xdg"))
	}

	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	got, err := ResolvePath(explicit)
	if err != nil || got != explicit {
		t.Errorf("ResolvePath(explicit) = %v, %v; want %v", got, err, explicit)
	}

	// No file beside the executable: OS config dir
	got, err = ResolvePath("")
	if err != nil {
		t.Fatalf("ResolvePath() error = %v", err)
	}
	want, _ := GetConfigPath()
	if got != want {
		t.Errorf("ResolvePath() = %v, want %v", got, want)
	}

	// config.yaml beside the executable wins
	local := filepath.Join(exeDir, FileName)
	if err := os.WriteFile(local, []byte("FS_URL: https://10.0.0.5\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err = ResolvePath("")
	if err != nil || got != local {
		t.Errorf("ResolvePath() = %v, %v; want %v", got, err, local)
	}
}

func TestLoad_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("Load(absent) error = %v", err)
	}
	if s.URL != "" || s.Interval() != DefaultRequestInterval {
		t.Errorf("Load(absent) = %+v, want defaults", s)
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("\n"), 0600)
	if _, err := Load(empty); err != nil {
		t.Errorf("Load(empty) error = %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	os.WriteFile(broken, []byte("FS_URL: [unclosed"), 0600)
	if _, err := Load(broken); err == nil {
		t.Error("Load(broken) should fail")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	interval := Duration(1500 * time.Millisecond)

	s := &Settings{
		URL:             "https://10.0.0.5",
		AdminUsername:   "admin",
		AdminPassword:   "p@ss: word",
		WebUsername:     "web",
		WebPassword:     "secret",
		VerifyTLS:       true,
		RequestInterval: &interval,
		BackupRetention: 20,
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "FS_ADMIN_USERNAME: admin") {
		t.Errorf("expected upper-case keys in file:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AdminPassword != s.AdminPassword || loaded.WebPassword != s.WebPassword {
		t.Errorf("credentials changed: %+v", loaded)
	}
	if loaded.Interval() != time.Duration(interval) {
		t.Errorf("Interval() = %v, want %v", loaded.Interval(), interval)
	}
	if !loaded.VerifyTLS || loaded.BackupRetention != 20 {
		t.Errorf("options changed: %+v", loaded)
	}
}

func TestLoad_RequestInterval(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"bare zero disables pacing", "0", 0},
		{"bare seconds", "3", 3 * time.Second},
		{"fractional seconds", "0.5", 500 * time.Millisecond},
		{"duration string", "1500ms", 1500 * time.Millisecond},
		{"zero duration string", "0s", 0},
		{"quoted seconds", `"2"`, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			data := "FS_URL: https://fs\nFS_REQUEST_INTERVAL: " + tt.value + "\n"
			if err := os.WriteFile(path, []byte(data), 0600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if s.RequestInterval == nil {
				t.Fatal("RequestInterval = nil, want set")
			}
			if s.Interval() != tt.want {
				t.Errorf("Interval() = %v, want %v", s.Interval(), tt.want)
			}
		})
	}
}

func TestLoad_InvalidRequestInterval(t *testing.T) {
	for _, value := range []string{"soon", "inf", "[1, 2]"} {
		path := filepath.Join(t.TempDir(), FileName)
		data := "FS_URL: https://fs\nFS_REQUEST_INTERVAL: " + value + "\n"
		if err := os.WriteFile(path, []byte(data), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if _, err := Load(path); err == nil {
			t.Errorf("Load() with FS_REQUEST_INTERVAL %q should fail", value)
		}
	}
}

func TestLoad_NullIntervalUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("FS_URL: https://fs\nFS_REQUEST_INTERVAL:\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Interval() != DefaultRequestInterval {
		t.Errorf("Interval() = %v, want %v", s.Interval(), DefaultRequestInterval)
	}
}

func TestWorkspaceDir(t *testing.T) {
	configPath := filepath.Join("opt", "fs", FileName)

	s := &Settings{}
	if got := s.WorkspaceDir(configPath); got != filepath.Join("opt", "fs") {
		t.Errorf("WorkspaceDir() = %v", got)
	}

	s.Workspace = "data"
	if got := s.WorkspaceDir(configPath); got != filepath.Join("opt", "fs", "data") {
		t.Errorf("WorkspaceDir() relative = %v", got)
	}

	abs := t.TempDir()
	s.Workspace = abs
	if got := s.WorkspaceDir(configPath); got != abs {
		t.Errorf("WorkspaceDir() absolute = %v, want %v", got, abs)
	}
}

func TestWorkspace_Ensure(t *testing.T) {
	root := t.TempDir()
	ws := Workspace{Root: root}

	created, err := ws.Ensure()
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(created) != 3 {
		t.Errorf("Ensure() created %v, want 3 folders", created)
	}
	for _, dir := range []string{ws.Backups(), ws.Segments(), ws.Hosts()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}

	created, err = ws.Ensure()
	if err != nil || len(created) != 0 {
		t.Errorf("second Ensure() = %v, %v; want nothing created", created, err)
	}
}
