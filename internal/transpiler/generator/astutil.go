package generator

import (
	"go/ast"
	"go/token"
	"strconv"
)

// Identifiers of the generated program.
const (
	tapeVar     = "tape"
	pointerVar  = "pointer"
	inputVar    = "input"
	inputPosVar = "inputPos"
	outVar      = "out"
	memSizeName = "memSize"
	readFunc    = "readInput"
)

func ident(name string) *ast.Ident {
	return ast.NewIdent(name)
}

func intLit(n uint64) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.INT, Value: strconv.FormatUint(n, 10)}
}

func strLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

func binary(x ast.Expr, op token.Token, y ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{X: x, Op: op, Y: y}
}

func paren(x ast.Expr) *ast.ParenExpr {
	return &ast.ParenExpr{X: x}
}

func call(fun ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Fun: fun, Args: args}
}

func sel(x, name string) *ast.SelectorExpr {
	return &ast.SelectorExpr{X: ident(x), Sel: ident(name)}
}

func assign(lhs ast.Expr, tok token.Token, rhs ast.Expr) *ast.AssignStmt {
	return &ast.AssignStmt{Lhs: []ast.Expr{lhs}, Tok: tok, Rhs: []ast.Expr{rhs}}
}

func exprStmt(x ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{X: x}
}

func block(stmts ...ast.Stmt) *ast.BlockStmt {
	return &ast.BlockStmt{List: stmts}
}

func panicStmt(msg string) ast.Stmt {
	return exprStmt(call(ident("panic"), strLit(msg)))
}

// cell is tape[pointer].
func cell() *ast.IndexExpr {
	return &ast.IndexExpr{X: ident(tapeVar), Index: ident(pointerVar)}
}
