package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/orbview/orbview/internal/config"
)

func newTestProvisioner() *Provisioner {
	return NewProvisioner(5*time.Second, zerolog.Nop())
}

func TestEnsureDownloadsMissingAsset(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("console.log('three');"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	asset := Asset{Name: "three.js", URL: srv.URL, Path: filepath.Join(dir, "three.min.js")}

	if err := newTestProvisioner().Ensure(context.Background(), asset); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	data, err := os.ReadFile(asset.Path)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "console.log('three');" {
		t.Errorf("Unexpected file content: %q", data)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Expected 1 fetch, got %d", got)
	}
}

func TestEnsureSkipsExistingAsset(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("remote content"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "three.min.js")
	if err := os.WriteFile(path, []byte("local content"), 0644); err != nil {
		t.Fatalf("Failed to seed local file: %v", err)
	}

	asset := Asset{Name: "three.js", URL: srv.URL, Path: path}
	if err := newTestProvisioner().Ensure(context.Background(), asset); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Errorf("Expected no fetch for existing asset, got %d", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != "local content" {
		t.Errorf("Existing file was overwritten: %q", data)
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("lib"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	asset := Asset{Name: "lib", URL: srv.URL, Path: filepath.Join(dir, "lib.js")}
	p := newTestProvisioner()

	for i := 0; i < 2; i++ {
		if err := p.Ensure(context.Background(), asset); err != nil {
			t.Fatalf("Ensure call %d failed: %v", i+1, err)
		}
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("Expected exactly 1 fetch across two calls, got %d", got)
	}
}

func TestEnsureAllFreshDirectory(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("content of " + r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	assetList := []Asset{
		{Name: "three.js", URL: srv.URL + "/three.min.js", Path: filepath.Join(dir, "three.min.js")},
		{Name: "OrbitControls", URL: srv.URL + "/OrbitControls.js", Path: filepath.Join(dir, "OrbitControls.js")},
	}

	if err := newTestProvisioner().EnsureAll(context.Background(), assetList); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("Expected exactly 2 fetches, got %d", got)
	}
	for _, a := range assetList {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			t.Fatalf("Missing provisioned file %s: %v", a.Path, err)
		}
		if len(data) == 0 {
			t.Errorf("Provisioned file %s is empty", a.Path)
		}
	}
}

func TestEnsureUpstreamErrorWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	asset := Asset{Name: "lib", URL: srv.URL, Path: filepath.Join(dir, "lib.js")}

	err := newTestProvisioner().Ensure(context.Background(), asset)
	if err == nil {
		t.Fatal("Expected error for non-2xx upstream response")
	}
	if _, statErr := os.Stat(asset.Path); !os.IsNotExist(statErr) {
		t.Errorf("Expected no file after failed fetch, stat err: %v", statErr)
	}
}

func TestDefaultAssets(t *testing.T) {
	cfg := &config.Config{
		StaticDir:        "static",
		ThreeJSURL:       config.DefaultThreeJSURL,
		OrbitControlsURL: config.DefaultOrbitControlsURL,
	}

	list := DefaultAssets(cfg)
	if len(list) != 2 {
		t.Fatalf("Expected 2 default assets, got %d", len(list))
	}
	if list[0].Path != filepath.Join("static", "three.min.js") {
		t.Errorf("Unexpected three.js path: %s", list[0].Path)
	}
	if list[1].Path != filepath.Join("static", "OrbitControls.js") {
		t.Errorf("Unexpected OrbitControls path: %s", list[1].Path)
	}
}
