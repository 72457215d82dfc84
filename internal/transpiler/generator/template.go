package generator

import (
	"go/ast"
	"go/token"
)

// inputSource says how the generated program acquires its input buffer.
type inputSource int

const (
	inputNone inputSource = iota
	inputFixed
	inputStdin
)

func (g *goCodeGenerator) inputSource(needsInput bool) inputSource {
	switch {
	case g.cfg.FixedInput != nil:
		return inputFixed
	case needsInput:
		return inputStdin
	}
	return inputNone
}

// template wraps the lowered body in the program skeleton: memory, pointer,
// output writer and, when needed, the input buffer.
func (g *goCodeGenerator) template(body []ast.Stmt, needsInput bool) []ast.Decl {
	src := g.inputSource(needsInput)

	imports := []string{"bufio", "os"}
	if src == inputStdin {
		imports = []string{"bufio", "io", "os"}
	}

	decls := []ast.Decl{
		importDecl(imports...),
		&ast.GenDecl{Tok: token.CONST, Specs: []ast.Spec{
			&ast.ValueSpec{Names: []*ast.Ident{ident(memSizeName)}, Values: []ast.Expr{intLit(uint64(g.cfg.MemorySize))}},
		}},
		g.varDecl(src),
		g.mainFunc(body, src),
	}
	if src == inputStdin {
		decls = append(decls, readInputFunc())
	}
	return decls
}

func importDecl(paths ...string) *ast.GenDecl {
	decl := &ast.GenDecl{Tok: token.IMPORT}
	for _, p := range paths {
		decl.Specs = append(decl.Specs, &ast.ImportSpec{Path: strLit(p)})
	}
	if len(paths) > 1 {
		decl.Lparen = 1
	}
	return decl
}

func (g *goCodeGenerator) varDecl(src inputSource) *ast.GenDecl {
	specs := []ast.Spec{
		&ast.ValueSpec{
			Names: []*ast.Ident{ident(tapeVar)},
			Type:  &ast.ArrayType{Len: ident(memSizeName), Elt: ident(g.cfg.CellSize.GoType())},
		},
		&ast.ValueSpec{Names: []*ast.Ident{ident(pointerVar)}, Type: ident("int")},
	}
	if src != inputNone {
		specs = append(specs,
			&ast.ValueSpec{Names: []*ast.Ident{ident(inputVar)}, Type: &ast.ArrayType{Elt: ident("byte")}},
			&ast.ValueSpec{Names: []*ast.Ident{ident(inputPosVar)}, Type: ident("int")},
		)
	}
	specs = append(specs, &ast.ValueSpec{
		Names:  []*ast.Ident{ident(outVar)},
		Values: []ast.Expr{call(sel("bufio", "NewWriter"), sel("os", "Stdout"))},
	})
	return &ast.GenDecl{Tok: token.VAR, Lparen: 1, Specs: specs}
}

func (g *goCodeGenerator) mainFunc(body []ast.Stmt, src inputSource) *ast.FuncDecl {
	stmts := []ast.Stmt{&ast.DeferStmt{Call: call(sel(outVar, "Flush"))}}

	switch src {
	case inputFixed:
		// input = []byte("...")
		stmts = append(stmts, assign(ident(inputVar), token.ASSIGN,
			call(&ast.ArrayType{Elt: ident("byte")}, strLit(*g.cfg.FixedInput))))
	case inputStdin:
		stmts = append(stmts, assign(ident(inputVar), token.ASSIGN, call(ident(readFunc))))
	}

	stmts = append(stmts, body...)
	return &ast.FuncDecl{
		Name: ident("main"),
		Type: &ast.FuncType{Params: &ast.FieldList{}},
		Body: block(stmts...),
	}
}

// readInputFunc reads all of stdin once and rejects non-ASCII bytes.
func readInputFunc() *ast.FuncDecl {
	return &ast.FuncDecl{
		Name: ident(readFunc),
		Type: &ast.FuncType{
			Params:  &ast.FieldList{},
			Results: &ast.FieldList{List: []*ast.Field{{Type: &ast.ArrayType{Elt: ident("byte")}}}},
		},
		Body: block(
			// data, err := io.ReadAll(os.Stdin)
			&ast.AssignStmt{
				Lhs: []ast.Expr{ident("data"), ident("err")},
				Tok: token.DEFINE,
				Rhs: []ast.Expr{call(sel("io", "ReadAll"), sel("os", "Stdin"))},
			},
			&ast.IfStmt{
				Cond: binary(ident("err"), token.NEQ, ident("nil")),
				Body: block(exprStmt(call(ident("panic"), ident("err")))),
			},
			&ast.RangeStmt{
				Key:   ident("_"),
				Value: ident("c"),
				Tok:   token.DEFINE,
				X:     ident("data"),
				Body: block(&ast.IfStmt{
					Cond: binary(ident("c"), token.GTR, &ast.BasicLit{Kind: token.INT, Value: "0x7f"}),
					Body: block(panicStmt("input is not ASCII")),
				}),
			},
			&ast.ReturnStmt{Results: []ast.Expr{ident("data")}},
		),
	}
}
