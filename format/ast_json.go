package format

import (
	"encoding/json"
	"io"

	"github.com/rill-lang/rill/parser"
)

// ASTJSONEncoder writes a program as indented JSON. Every node becomes
// an object with a "kind" field; absent branches are omitted.
type ASTJSONEncoder struct {
	w    io.Writer
	prog *parser.Program
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(prog *parser.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(programToJSON(e.prog), "", "  ")
}

type jsonNode struct {
	Kind   string      `json:"kind"`
	Line   int         `json:"line,omitempty"`
	File   string      `json:"file,omitempty"`
	Name   string      `json:"name,omitempty"`
	Op     string      `json:"op,omitempty"`
	Value  *int64      `json:"value,omitempty"`
	Cond   *jsonNode   `json:"cond,omitempty"`
	Left   *jsonNode   `json:"left,omitempty"`
	Right  *jsonNode   `json:"right,omitempty"`
	X      *jsonNode   `json:"x,omitempty"`
	Init   []*jsonNode `json:"init,omitempty"`
	Post   *jsonNode   `json:"post,omitempty"`
	Params []*jsonNode `json:"params,omitempty"`
	Dims   []*jsonNode `json:"dims,omitempty"`
	Args   []*jsonNode `json:"args,omitempty"`
	Then   []*jsonNode `json:"then,omitempty"`
	Else   []*jsonNode `json:"else,omitempty"`
	Body   []*jsonNode `json:"body,omitempty"`
	Stmts  []*jsonNode `json:"stmts,omitempty"`
	Decls  []*jsonNode `json:"decls,omitempty"`
	Values []*jsonNode `json:"values,omitempty"`
}

func programToJSON(prog *parser.Program) *jsonNode {
	if prog == nil {
		return nil
	}
	return &jsonNode{
		Kind:  "Program",
		File:  prog.File,
		Stmts: stmtsToJSON(prog.Stmts),
	}
}

func stmtsToJSON(stmts []parser.Stmt) []*jsonNode {
	if len(stmts) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(stmts))
	for i, s := range stmts {
		out[i] = stmtToJSON(s)
	}
	return out
}

func stmtToJSON(s parser.Stmt) *jsonNode {
	switch s := s.(type) {
	case *parser.IfStmt:
		return &jsonNode{
			Kind: "If",
			Line: s.Line(),
			Cond: exprToJSON(s.Cond),
			Then: stmtsToJSON(s.Then),
			Else: stmtsToJSON(s.Else),
		}
	case *parser.RepeatStmt:
		return &jsonNode{
			Kind: "Repeat",
			Line: s.Line(),
			Body: stmtsToJSON(s.Body),
			Cond: exprToJSON(s.Cond),
		}
	case *parser.AssignStmt:
		return &jsonNode{
			Kind: "Assign",
			Line: s.Line(),
			Name: s.Name,
			Dims: dimsToJSON(s.Dims),
			X:    valueToJSON(s.Value),
		}
	case *parser.ReadStmt:
		return &jsonNode{Kind: "Read", Line: s.Line(), Name: s.Name}
	case *parser.WriteStmt:
		return &jsonNode{Kind: "Write", Line: s.Line(), X: exprToJSON(s.Value)}
	case *parser.VarStmt:
		return &jsonNode{Kind: "Var", Line: s.Line(), Decls: declsToJSON(s.Decls)}
	case *parser.WhileStmt:
		return &jsonNode{
			Kind: "While",
			Line: s.Line(),
			Cond: exprToJSON(s.Cond),
			Body: stmtsToJSON(s.Body),
		}
	case *parser.ForStmt:
		return &jsonNode{
			Kind: "For",
			Line: s.Line(),
			Init: declsToJSON(s.Init),
			Cond: exprToJSON(s.Cond),
			Post: stmtToJSON(s.Post),
			Body: stmtsToJSON(s.Body),
		}
	case *parser.ReturnStmt:
		return &jsonNode{Kind: "Return", Line: s.Line(), X: exprToJSON(s.Value)}
	case *parser.FuncStmt:
		return &jsonNode{
			Kind:   "Func",
			Line:   s.Line(),
			Name:   s.Name,
			Params: paramsToJSON(s.Params),
			Body:   stmtsToJSON(s.Body),
		}
	case *parser.CallExpr:
		return exprToJSON(s)
	case nil:
		return nil
	default:
		return &jsonNode{Kind: "Unknown"}
	}
}

func exprToJSON(e parser.Expr) *jsonNode {
	switch e := e.(type) {
	case *parser.BinaryExpr:
		return &jsonNode{
			Kind:  "Op",
			Line:  e.Line(),
			Op:    e.Op.String(),
			Left:  exprToJSON(e.Left),
			Right: exprToJSON(e.Right),
		}
	case *parser.IntLit:
		v := e.Value
		return &jsonNode{Kind: "Const", Line: e.Line(), Value: &v}
	case *parser.Ident:
		return &jsonNode{Kind: "Id", Line: e.Line(), Name: e.Name, Dims: dimsToJSON(e.Dims)}
	case *parser.CallExpr:
		return &jsonNode{Kind: "Call", Line: e.Line(), Name: e.Name, Args: argsToJSON(e.Args)}
	case *parser.ValueExpr:
		return &jsonNode{Kind: "Value", Line: e.Line(), X: exprToJSON(e.X)}
	case *parser.DimExpr:
		return &jsonNode{Kind: "Dim", Line: e.Line(), X: exprToJSON(e.X)}
	case *parser.LambdaExpr:
		return &jsonNode{
			Kind:   "Lambda",
			Line:   e.Line(),
			Params: paramsToJSON(e.Params),
			X:      exprToJSON(e.Body),
		}
	case nil:
		return nil
	default:
		return &jsonNode{Kind: "Unknown"}
	}
}

func valueToJSON(v *parser.ValueExpr) *jsonNode {
	if v == nil {
		return nil
	}
	return exprToJSON(v)
}

func dimsToJSON(dims []*parser.DimExpr) []*jsonNode {
	if len(dims) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(dims))
	for i, d := range dims {
		out[i] = exprToJSON(d)
	}
	return out
}

func argsToJSON(args []parser.Expr) []*jsonNode {
	if len(args) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(args))
	for i, a := range args {
		out[i] = exprToJSON(a)
	}
	return out
}

func paramsToJSON(ps *parser.Params) []*jsonNode {
	if ps == nil {
		return nil
	}
	return declsToJSON(ps.List)
}

func declsToJSON(decls []*parser.Declarator) []*jsonNode {
	if len(decls) == 0 {
		return nil
	}
	out := make([]*jsonNode, len(decls))
	for i, d := range decls {
		n := &jsonNode{
			Kind: "Decl",
			Line: d.Line(),
			Name: d.Name,
			Dims: dimsToJSON(d.Dims),
			X:    valueToJSON(d.Value),
		}
		if len(d.Values) > 0 {
			n.Values = make([]*jsonNode, len(d.Values))
			for j, v := range d.Values {
				n.Values[j] = exprToJSON(v)
			}
		}
		out[i] = n
	}
	return out
}
