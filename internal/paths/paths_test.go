package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewUsesEnvOverrides(t *testing.T) {
	dataDir := t.TempDir()
	os.Setenv(envData, dataDir)
	defer os.Unsetenv(envData)

	r := New()
	if r.DataDir() != dataDir {
		t.Fatalf("expected data dir %q, got %q", dataDir, r.DataDir())
	}
}

func TestNewFallsBackToHomeDefaults(t *testing.T) {
	os.Unsetenv(envData)
	os.Unsetenv(envCache)
	os.Unsetenv(envConfig)
	os.Unsetenv(envLogs)

	r := New()
	if r.DataDir() == "" || r.CacheDir() == "" {
		t.Fatal("expected non-empty default directories")
	}
	if filepath.Base(r.ImageCacheDir()) != "images" {
		t.Fatalf("expected image cache dir to end in images, got %q", r.ImageCacheDir())
	}
}

func TestVenueDataFile(t *testing.T) {
	os.Setenv(envData, "/tmp/skinarb-data")
	defer os.Unsetenv(envData)

	r := New()
	want := filepath.Join("/tmp/skinarb-data", "waxpeer_data.json")
	if got := r.VenueDataFile("waxpeer"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEnsureDirsCreatesTree(t *testing.T) {
	base := t.TempDir()
	os.Setenv(envData, filepath.Join(base, "data"))
	os.Setenv(envCache, filepath.Join(base, "cache"))
	os.Setenv(envConfig, filepath.Join(base, "config"))
	os.Setenv(envLogs, filepath.Join(base, "logs"))
	defer func() {
		os.Unsetenv(envData)
		os.Unsetenv(envCache)
		os.Unsetenv(envConfig)
		os.Unsetenv(envLogs)
	}()

	r := New()
	if err := r.EnsureDirs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dir := range []string{r.DataDir(), r.CacheDir(), r.ConfigDir(), r.LogDir(), r.ImageCacheDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected dir %q to exist, err=%v", dir, err)
		}
	}
}
