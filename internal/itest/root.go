//go:build integration

package itest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// mainPkg is the CLI package the integration tests drive with go run.
const mainPkg = "cmd/lyricvid"

// mustRepoRoot walks up from the working directory to the module root, the
// first directory holding both go.mod and the CLI main package.
func mustRepoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("working dir: %v", err)
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		if isModuleRoot(dir) {
			return dir
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	t.Fatalf("repo root: %v", fmt.Errorf("no go.mod with %s above %s", mainPkg, wd))
	return ""
}

func isModuleRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, mainPkg, "main.go"))
	return err == nil
}
