package internalcheck

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestExportsDeferGuardFirst(t *testing.T) {
	pkgs := load(t, packages.NeedName|packages.NeedFiles, module+"/pkg/cbridge/capi")

	var findings []string
	exports := 0
	for _, pkg := range pkgs {
		fset, files := parseAll(t, pkg, parser.ParseComments)
		for _, f := range files {
			for _, decl := range f.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || !isExported(fn) {
					continue
				}
				exports++
				if msg := checkGuard(fn); msg != "" {
					findings = append(findings, fmt.Sprintf("%s: %s: %s", fset.Position(fn.Pos()), fn.Name.Name, msg))
				}
			}
		}
	}

	if exports == 0 {
		t.Skip("no //export functions found")
	}
	if len(findings) > 0 {
		t.Fatalf("export guard policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isExported(fn *ast.FuncDecl) bool {
	if fn.Doc == nil {
		return false
	}
	for _, c := range fn.Doc.List {
		if strings.HasPrefix(c.Text, "//export ") {
			return true
		}
	}
	return false
}

// checkGuard wants the body to open with
// defer guard.Load().Recover("<function name>", ...).
func checkGuard(fn *ast.FuncDecl) string {
	if fn.Body == nil || len(fn.Body.List) == 0 {
		return "empty body"
	}
	d, ok := fn.Body.List[0].(*ast.DeferStmt)
	if !ok {
		return "first statement is not a defer"
	}
	sel, ok := d.Call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Recover" {
		return "first defer is not a guard Recover"
	}
	if len(d.Call.Args) == 0 {
		return "guard Recover without an operation name"
	}
	lit, ok := d.Call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "guard operation name is not a literal"
	}
	if op, err := strconv.Unquote(lit.Value); err != nil || op != fn.Name.Name {
		return fmt.Sprintf("guard operation %s does not name the export", lit.Value)
	}
	return ""
}
