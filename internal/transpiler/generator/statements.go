package generator

import (
	"fmt"
	"go/ast"
	"go/token"

	"martianoff/bfgo/bferr"
	"martianoff/bfgo/internal/bf"
	"martianoff/bfgo/internal/policy"
)

// lowerSegments lowers a segment tree depth-first in pre-order.
func (g *goCodeGenerator) lowerSegments(segments []bf.Segment) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for _, seg := range segments {
		switch s := seg.(type) {
		case *bf.Executable:
			for _, tok := range s.Tokens {
				lowered, err := g.lowerUnit(tok)
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, lowered...)
			}
		case *bf.Loop:
			body, err := g.lowerSegments(s.Body)
			if err != nil {
				return nil, err
			}
			// the condition is tested before every iteration, the first included
			stmts = append(stmts, &ast.ForStmt{
				Cond: binary(cell(), token.NEQ, intLit(0)),
				Body: block(body...),
			})
		default:
			return nil, fmt.Errorf("unknown segment type %T", seg)
		}
	}
	return stmts, nil
}

// lowerUnit lowers one token with its repeat count folded into a single operation.
func (g *goCodeGenerator) lowerUnit(u bf.Unit) ([]ast.Stmt, error) {
	n := u.Count()
	if n < 1 {
		return nil, bferr.NewUnsupportedError(fmt.Sprintf("%s with repeat count %d", u.Instruction(), n))
	}
	count := uint64(n)

	switch u.Instruction() {
	case bf.PointerInc:
		return g.pointerInc(count), nil
	case bf.PointerDec:
		return g.pointerDec(count), nil
	case bf.CellInc:
		return g.cellArith(count, token.ADD_ASSIGN), nil
	case bf.CellDec:
		return g.cellArith(count, token.SUB_ASSIGN), nil
	case bf.Read:
		if n > 1 {
			return nil, bferr.NewUnsupportedError(fmt.Sprintf("read repeated %d times: sequential reads into one cell are not supported", n))
		}
		return g.read(), nil
	case bf.Write:
		return g.write(count), nil
	}
	return nil, bferr.NewUnsupportedError(fmt.Sprintf("%s cannot appear in a straight-line block", u.Instruction()))
}

func (g *goCodeGenerator) pointerInc(n uint64) []ast.Stmt {
	ptr := ident(pointerVar)
	switch g.cfg.PointerSafety {
	case policy.PointerWrap:
		// pointer = (pointer + n) % memSize
		return []ast.Stmt{assign(ptr, token.ASSIGN,
			binary(paren(binary(ident(pointerVar), token.ADD, intLit(n))), token.REM, ident(memSizeName)))}
	case policy.PointerClamp:
		// pointer = min(pointer+n, memSize-1)
		return []ast.Stmt{assign(ptr, token.ASSIGN,
			call(ident("min"), binary(ident(pointerVar), token.ADD, intLit(n)), binary(ident(memSizeName), token.SUB, intLit(1))))}
	}
	return []ast.Stmt{assign(ptr, token.ADD_ASSIGN, intLit(n))}
}

func (g *goCodeGenerator) pointerDec(n uint64) []ast.Stmt {
	ptr := ident(pointerVar)
	switch g.cfg.PointerSafety {
	case policy.PointerWrap:
		// pointer = (pointer + memSize - n%memSize) % memSize
		k := n % uint64(g.cfg.MemorySize)
		return []ast.Stmt{assign(ptr, token.ASSIGN,
			binary(paren(binary(binary(ident(pointerVar), token.ADD, ident(memSizeName)), token.SUB, intLit(k))), token.REM, ident(memSizeName)))}
	case policy.PointerClamp:
		// pointer = max(pointer, n) - n
		return []ast.Stmt{assign(ptr, token.ASSIGN,
			binary(call(ident("max"), ident(pointerVar), intLit(n)), token.SUB, intLit(n)))}
	}
	return []ast.Stmt{assign(ptr, token.SUB_ASSIGN, intLit(n))}
}

// cellArith lowers cell-inc (ADD_ASSIGN) and cell-dec (SUB_ASSIGN).
// Go unsigned arithmetic wraps, so wrap and none lower to the same
// statement with n reduced modulo the cell width.
func (g *goCodeGenerator) cellArith(n uint64, op token.Token) []ast.Stmt {
	limit := g.cfg.CellSize.Max()

	if g.cfg.Overflow != policy.OverflowAbort {
		n %= limit + 1
		if n == 0 {
			return nil
		}
		return []ast.Stmt{assign(cell(), op, intLit(n))}
	}

	inc := op == token.ADD_ASSIGN
	msg := "cell underflow"
	if inc {
		msg = "cell overflow"
	}
	if n > limit {
		return []ast.Stmt{panicStmt(msg)}
	}

	// cell-inc: if tape[pointer] > limit-n { panic }
	// cell-dec: if tape[pointer] < n { panic }
	cond := binary(cell(), token.LSS, intLit(n))
	if inc {
		cond = binary(cell(), token.GTR, intLit(limit-n))
	}
	return []ast.Stmt{
		&ast.IfStmt{Cond: cond, Body: block(panicStmt(msg))},
		assign(cell(), op, intLit(n)),
	}
}

func (g *goCodeGenerator) read() []ast.Stmt {
	ifs := &ast.IfStmt{
		Cond: binary(ident(inputPosVar), token.LSS, call(ident("len"), ident(inputVar))),
		Body: block(
			assign(cell(), token.ASSIGN,
				call(ident(g.cfg.CellSize.GoType()), &ast.IndexExpr{X: ident(inputVar), Index: ident(inputPosVar)})),
			&ast.IncDecStmt{X: ident(inputPosVar), Tok: token.INC},
		),
	}
	if g.cfg.EOF.Fixed {
		ifs.Else = block(assign(cell(), token.ASSIGN, intLit(uint64(g.cfg.EOF.Value))))
	}
	return []ast.Stmt{ifs}
}

func (g *goCodeGenerator) write(n uint64) []ast.Stmt {
	emit := exprStmt(call(sel(outVar, "WriteByte"), call(ident("byte"), cell())))
	if n == 1 {
		return []ast.Stmt{emit}
	}
	// for range n { out.WriteByte(byte(tape[pointer])) }
	return []ast.Stmt{&ast.RangeStmt{
		Tok:  token.ILLEGAL,
		X:    intLit(n),
		Body: block(emit),
	}}
}
