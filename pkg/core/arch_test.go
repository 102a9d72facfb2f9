package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// corePackages are the rendering-agnostic library packages. They must stay
// importable by any host, so they may only depend on stdlib and each other.
var corePackages = []string{
	".",
	"../sequence",
	"../metrics",
	"../helix",
	"../scene",
}

const modulePrefix = "github.com/leapstack-labs/helixlab/"

// forEachImport parses every non-test Go file in dir and calls fn per import.
func forEachImport(t *testing.T, dir string, fn func(file, importPath string)) {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}

		for _, imp := range f.Imports {
			fn(path, strings.Trim(imp.Path.Value, `"`))
		}
	}
}

// TestCoreImportsOnly verifies pkg/core only imports stdlib.
func TestCoreImportsOnly(t *testing.T) {
	forEachImport(t, ".", func(file, importPath string) {
		if strings.Contains(importPath, ".") {
			t.Errorf("%s imports forbidden package: %s", file, importPath)
		}
	})
}

// TestLibraryPackagesStayPure verifies the geometry and editing packages only
// import stdlib and sibling pkg/ packages.
func TestLibraryPackagesStayPure(t *testing.T) {
	for _, dir := range corePackages {
		forEachImport(t, dir, func(file, importPath string) {
			if !strings.Contains(importPath, ".") {
				return
			}
			if !strings.HasPrefix(importPath, modulePrefix+"pkg/") {
				t.Errorf("%s imports non-library package: %s", file, importPath)
			}
		})
	}
}

// TestLibraryPackagesDoNotImportInternal verifies pkg/ never reaches into internal/.
func TestLibraryPackagesDoNotImportInternal(t *testing.T) {
	for _, dir := range corePackages {
		forEachImport(t, dir, func(file, importPath string) {
			if strings.Contains(importPath, "/internal/") {
				t.Errorf("%s imports internal package: %s (library packages must not import internal packages)", file, importPath)
			}
		})
	}
}
