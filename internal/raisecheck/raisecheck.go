// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raisecheck

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

const doc = `raisecheck reports unwind frames that keep running after a failure

A function that raises must return right after. A caller that catches
must look at the ok result and unwind when it is false.`

// PkgPath is the import path of the checked package.
const PkgPath = "code.hybscloud.com/unwind"

// Analyzer is the raisecheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "raisecheck",
	Doc:      doc,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// okResult lists the calls whose second result tells the caller to unwind.
var okResult = map[string]bool{
	"Catch":    true,
	"Catch1":   true,
	"Catch2":   true,
	"Guarded":  true,
	"Guarded1": true,
	"Guarded2": true,
}

func run(pass *analysis.Pass) (any, error) {
	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	spans := make(map[*ast.File]*funcSpans, len(pass.Files))
	for _, f := range pass.Files {
		spans[f] = newFuncSpans(f)
	}

	nodeFilter := []ast.Node{
		(*ast.ExprStmt)(nil),
		(*ast.AssignStmt)(nil),
	}
	pector.WithStack(nodeFilter, func(node ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		switch n := node.(type) {
		case *ast.ExprStmt:
			checkRaise(pass, n, stack, spans[stack[0].(*ast.File)])
		case *ast.AssignStmt:
			checkDiscardedOK(pass, n)
		}
		return true
	})

	return nil, nil
}

// unwindFunc returns the name of the unwind function call invokes, or "".
func unwindFunc(pass *analysis.Pass, call *ast.CallExpr) string {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != PkgPath {
		return ""
	}
	if sig, ok := fn.Type().(*types.Signature); !ok || sig.Recv() != nil {
		return ""
	}
	return fn.Name()
}

func checkRaise(pass *analysis.Pass, stmt *ast.ExprStmt, stack []ast.Node, fs *funcSpans) {
	call, ok := ast.Unparen(stmt.X).(*ast.CallExpr)
	if !ok {
		return
	}
	switch unwindFunc(pass, call) {
	case "RaiseReturn":
		pass.Reportf(call.Pos(), "result of unwind.RaiseReturn must be returned")
		return
	case "Raise":
	default:
		return
	}

	if len(stack) < 2 {
		return
	}
	var list []ast.Stmt
	switch parent := stack[len(stack)-2].(type) {
	case *ast.BlockStmt:
		list = parent.List
	case *ast.CaseClause:
		list = parent.Body
	case *ast.CommClause:
		list = parent.Body
	default:
		return
	}

	for i, s := range list {
		if s != stmt {
			continue
		}
		if i+1 < len(list) {
			if _, ok := list[i+1].(*ast.ReturnStmt); ok {
				return
			}
			break
		}
		// Last statement: falling off the end is a return only for the body
		// of a function without results.
		fn := fs.enclosing(stmt.Pos())
		if fn != nil && !fn.results && stack[len(stack)-2] == fn.body {
			return
		}
	}
	pass.Reportf(call.Pos(), "unwind.Raise must be followed by a return")
}

func checkDiscardedOK(pass *analysis.Pass, stmt *ast.AssignStmt) {
	if len(stmt.Lhs) != 2 || len(stmt.Rhs) != 1 {
		return
	}
	call, ok := ast.Unparen(stmt.Rhs[0]).(*ast.CallExpr)
	if !ok {
		return
	}
	name := unwindFunc(pass, call)
	if !okResult[name] {
		return
	}
	if id, ok := stmt.Lhs[1].(*ast.Ident); ok && id.Name == "_" {
		pass.Reportf(id.Pos(), "ok result of unwind.%s discarded; the caller must unwind when it is false", name)
	}
}
