package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anime-shed/image-enhancer-go/internal/report"
	"github.com/anime-shed/image-enhancer-go/pkg/models"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	result := &models.BatchResult{}
	result.Add(models.BatchItem{Input: "a.jpg", Report: &models.EnhancementReport{Input: "a.jpg"}})
	result.Add(models.BatchItem{Input: "b.jpg", Error: "image_load: failed to load image"})

	if err := printResult(&buf, result); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Count(out, report.Separator) != 2 {
		t.Errorf("Expected two blocks, got:\n%s", out)
	}
	if !strings.Contains(out, "Failed: image_load") {
		t.Errorf("Expected failure block, got:\n%s", out)
	}
	if strings.Index(out, "a.jpg") > strings.Index(out, "b.jpg") {
		t.Error("Expected blocks in input order")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	t.Setenv("OUTPUT_DIR", outDir)
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6, 6))); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(inDir, "good.png")
	if err := os.WriteFile(good, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{good}); code != 0 {
		t.Errorf("Expected exit 0, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(outDir, "good_enhanced.jpg")); err != nil {
		t.Errorf("Expected output file: %v", err)
	}

	if code := run([]string{good, filepath.Join(inDir, "missing.png")}); code != 1 {
		t.Errorf("Expected exit 1 when an image fails, got %d", code)
	}

	t.Setenv("INPUT_PATHS", "")
	if code := run(nil); code != 2 {
		t.Errorf("Expected usage exit 2, got %d", code)
	}
}

func TestRun_FlagOverrides(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	t.Setenv("OUTPUT_DIR", filepath.Join(inDir, "absent"))
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6, 6))); err != nil {
		t.Fatal(err)
	}
	input := filepath.Join(inDir, "flagged.png")
	if err := os.WriteFile(input, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run([]string{"-o", outDir, "-w", "2", input}); code != 0 {
		t.Fatalf("Expected exit 0, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(outDir, "flagged_enhanced.jpg")); err != nil {
		t.Errorf("Expected output in the -o directory: %v", err)
	}

	if code := run([]string{"-bogus"}); code != 2 {
		t.Errorf("Expected exit 2 for an unknown flag, got %d", code)
	}
}
