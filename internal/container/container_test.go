package container

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anime-shed/image-enhancer-go/internal/config"

	"github.com/gin-gonic/gin"
)

func testConfig(outDir string) *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     5 * time.Second,
		ImageFetchTimeout:  5 * time.Second,
		EnhanceTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
		Workers:            2,
		Output: config.OutputConfig{
			Backend:     config.BackendLocal,
			Dir:         outDir,
			Suffix:      "_enhanced",
			Format:      "jpg",
			JPEGQuality: 90,
		},
		Normalization:   "full",
		AllowLocalPaths: true,
	}
}

func TestNewContainer_WiresLocalPipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inDir, outDir := t.TempDir(), t.TempDir()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(inDir, "scan.png")
	if err := os.WriteFile(input, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewContainer(testConfig(outDir))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	report, err := c.Service().EnhanceLocation(context.Background(), input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := filepath.Join(outDir, "scan_enhanced.jpg"); report.Output != want {
		t.Errorf("Expected %s, got %s", want, report.Output)
	}
	if got := c.Metrics().GetMetrics()["successful_enhancements"]; got != int64(1) {
		t.Errorf("Expected 1 success counted, got %v", got)
	}

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected healthy handler, got %d", w.Code)
	}
}

func TestNewContainer_UnsupportedBackend(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Output.Backend = "ftp"

	if _, err := NewContainer(cfg); err == nil {
		t.Error("Expected error for unsupported backend")
	}
}

func TestNewContainer_APIRejectsLocalPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	inDir, outDir := t.TempDir(), t.TempDir()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	private := filepath.Join(inDir, "private.png")
	if err := os.WriteFile(private, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(outDir)
	cfg.AllowLocalPaths = false
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, location := range []string{private, filepath.Join(inDir, "absent.png")} {
		body := `{"location":"` + filepath.ToSlash(location) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/enhance", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		c.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d: %s", location, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "Local paths are not allowed") {
			t.Errorf("Expected the same rejection for every local path, got %s", w.Body.String())
		}
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected nothing written to the sink, got %d files", len(entries))
	}
}
