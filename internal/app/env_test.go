package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nSEOSCAN_TEST_A=plain\nSEOSCAN_TEST_B=\"quoted value\"\nmalformed line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("SEOSCAN_TEST_A", "")
	t.Setenv("SEOSCAN_TEST_B", "")

	if err := LoadEnvFiles(path); err != nil {
		t.Fatalf("load error: %v", err)
	}
	if got := os.Getenv("SEOSCAN_TEST_A"); got != "plain" {
		t.Fatalf("unexpected A: %q", got)
	}
	if got := os.Getenv("SEOSCAN_TEST_B"); got != "quoted value" {
		t.Fatalf("unexpected B: %q", got)
	}
}

func TestLoadEnvFiles_MissingFileIgnored(t *testing.T) {
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}
