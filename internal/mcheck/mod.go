// Package main provides the custom checks of "go vet" for this module.
//
// The commentLen check verifies that no comment exceeds MaxLen characters. It
// ignores generated files and "//go:generate" directives. The xerrors check
// verifies that errors are created with golang.org/x/xerrors, so that every
// error of the module wraps the same way.
//
//  go build && go vet -vettool=./mcheck ./...
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/unitchecker"
)

// MaxLen is the maximum length of a comment
var MaxLen = 80

var commentAnalyzer = &analysis.Analyzer{
	Name: "commentLen",
	Doc:  "checks the lengths of comments",
	Run:  runComments,
}

var errorsAnalyzer = &analysis.Analyzer{
	Name: "xerrors",
	Doc:  "checks that errors are created with xerrors",
	Run:  runErrors,
}

// replacements maps the standard error constructors to their xerrors
// counterpart.
var replacements = map[string]map[string]string{
	"fmt":    {"Errorf": "xerrors.Errorf"},
	"errors": {"New": "xerrors.New"},
}

func main() {
	unitchecker.Main(
		commentAnalyzer,
		errorsAnalyzer,
	)
}

func runComments(pass *analysis.Pass) (interface{}, error) {
fileLoop:
	for _, file := range pass.Files {
		isFirst := true
		for _, cg := range file.Comments {
			for _, c := range cg.List {
				if isFirst && strings.HasPrefix(c.Text, "// Code generated") {
					continue fileLoop
				}
				// in case of /* */ comment there might be multiple lines
				lines := strings.Split(c.Text, "\n")
				for _, line := range lines {
					if strings.HasPrefix(line, "//go:generate") {
						continue
					}
					if len(line) > MaxLen {
						pass.Reportf(c.Pos(), "Comment too long: %s (%d)",
							line, len(line))
					}
				}
				isFirst = false
			}
		}
	}
	return nil, nil
}

func runErrors(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(node ast.Node) bool {
			call, ok := node.(*ast.CallExpr)
			if !ok {
				return true
			}

			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			ident, ok := sel.X.(*ast.Ident)
			if !ok {
				return true
			}

			pkg, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if !ok {
				return true
			}

			path := pkg.Imported().Path()

			replacement, found := replacements[path][sel.Sel.Name]
			if found {
				pass.Reportf(call.Pos(), "use %s instead of %s.%s",
					replacement, path, sel.Sel.Name)
			}

			return true
		})
	}
	return nil, nil
}
