package internalcheck

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"golang.org/x/tools/go/packages"
)

const module = "github.com/hsiuhsiu/cbridge-go"

// secretPackages handle private keys or caller strings.
var secretPackages = []string{
	module + "/pkg/cbridge/secp",
	module + "/pkg/cbridge/cstring",
	module + "/pkg/cbridge/logging",
}

func load(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	return pkgs
}

// parseAll parses every Go file of pkg, including files excluded by build
// constraints for the current configuration.
func parseAll(t *testing.T, pkg *packages.Package, mode parser.Mode) (*token.FileSet, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for _, names := range [][]string{pkg.GoFiles, pkg.IgnoredFiles} {
		for _, name := range names {
			f, err := parser.ParseFile(fset, name, nil, mode)
			if err != nil {
				t.Fatalf("parse %s: %v", name, err)
			}
			files = append(files, f)
		}
	}
	return fset, files
}
