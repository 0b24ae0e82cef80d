// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package raisecheck

import (
	"go/ast"
	"go/token"

	"github.com/sirkon/rbtree"
)

// funcSpan is the source range of one function body. Bodies nested in it
// live in children.
type funcSpan struct {
	start token.Pos
	end   token.Pos

	body     *ast.BlockStmt
	results  bool
	children *rbtree.Tree[*funcSpan]
}

// Cmp orders spans that do not overlap. Overlapping spans compare equal;
// function bodies only overlap by containment.
func (s *funcSpan) Cmp(other *funcSpan) int {
	if s.end < other.start {
		return -1
	}
	if s.start > other.end {
		return 1
	}
	return 0
}

func (s *funcSpan) contains(o *funcSpan) bool {
	return s.start <= o.start && s.end >= o.end
}

// funcSpans indexes the function bodies of one file.
type funcSpans struct {
	tree *rbtree.Tree[*funcSpan]
}

func newFuncSpans(file *ast.File) *funcSpans {
	fs := &funcSpans{tree: rbtree.New[*funcSpan]()}
	ast.Inspect(file, func(n ast.Node) bool {
		var (
			typ  *ast.FuncType
			body *ast.BlockStmt
		)
		switch fn := n.(type) {
		case *ast.FuncDecl:
			typ, body = fn.Type, fn.Body
		case *ast.FuncLit:
			typ, body = fn.Type, fn.Body
		default:
			return true
		}
		if body == nil {
			return true
		}
		attach(fs.tree, &funcSpan{
			start:   body.Pos(),
			end:     body.End(),
			body:    body,
			results: typ.Results != nil && len(typ.Results.List) > 0,
		})
		return true
	})
	return fs
}

// attach inserts s into t. Outer bodies are visited first, so an
// overlapping node always contains s.
func attach(t *rbtree.Tree[*funcSpan], s *funcSpan) {
	r := t.InsertReturn(s)
	if r == s {
		return
	}
	if !r.contains(s) {
		panic("raisecheck: function bodies overlap without nesting")
	}
	if r.children == nil {
		r.children = rbtree.New[*funcSpan]()
	}
	attach(r.children, s)
}

// enclosing returns the innermost function body containing pos, or nil.
func (fs *funcSpans) enclosing(pos token.Pos) *funcSpan {
	key := &funcSpan{start: pos, end: pos}
	var found *funcSpan
	for t := fs.tree; t != nil; {
		s := t.Search(key)
		if s == nil {
			break
		}
		found = s
		t = s.children
	}
	return found
}
