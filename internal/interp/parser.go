package interp

import (
	"fmt"
	"strconv"
)

type opcode int

const (
	opAssign opcode = iota
	opInput
	opPrint
	opJumpFalse
	opJump
)

// instr is one schedulable step. Expressions are evaluated whole inside the
// step that owns them.
type instr struct {
	op     opcode
	name   string
	expr   expr
	target int
	line   int
}

type expr interface {
	eval(vars map[string]Value) (Value, error)
}

type literal struct{ v Value }

type variable struct{ name string }

type binaryExpr struct {
	op   string
	l, r expr
}

type notExpr struct{ x expr }

type negExpr struct{ x expr }

func (e literal) eval(map[string]Value) (Value, error) { return e.v, nil }

func (e variable) eval(vars map[string]Value) (Value, error) {
	v, ok := vars[e.name]
	if !ok {
		return Value{}, fmt.Errorf("undefined variable %s", e.name)
	}
	return v, nil
}

func (e binaryExpr) eval(vars map[string]Value) (Value, error) {
	l, err := e.l.eval(vars)
	if err != nil {
		return Value{}, err
	}
	r, err := e.r.eval(vars)
	if err != nil {
		return Value{}, err
	}
	return binary(e.op, l, r)
}

func (e notExpr) eval(vars map[string]Value) (Value, error) {
	v, err := e.x.eval(vars)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindBool {
		return Value{}, fmt.Errorf("not needs a boolean, got %s", v.Kind)
	}
	return BoolValue(!v.Bool), nil
}

func (e negExpr) eval(vars map[string]Value) (Value, error) {
	v, err := e.x.eval(vars)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind {
	case KindInt:
		return IntValue(-v.Int), nil
	case KindFloat:
		return FloatValue(-v.Flt), nil
	}
	return Value{}, fmt.Errorf("cannot negate %s", v.Kind)
}

type parser struct {
	toks []token
	pos  int
	code []instr
}

// compile turns source into a flat instruction list. Loops and branches become
// conditional and unconditional jumps.
func compile(src string) ([]instr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	for p.peek().kind != tokEOF {
		if err := p.statement(); err != nil {
			return nil, err
		}
	}
	return p.code, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.next()
	if t.kind != kind {
		return fmt.Errorf("line %d: expected %q, found %s", t.line, text, t)
	}
	return nil
}

func (p *parser) emit(in instr) int {
	p.code = append(p.code, in)
	return len(p.code) - 1
}

func (p *parser) statement() error {
	t := p.next()
	switch {
	case t.kind == tokKeyword && t.text == "print":
		if err := p.expect(tokLParen, "("); err != nil {
			return err
		}
		e, err := p.expression()
		if err != nil {
			return err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return err
		}
		p.emit(instr{op: opPrint, expr: e, line: t.line})
		return nil

	case t.kind == tokKeyword && t.text == "while":
		top := len(p.code)
		cond, err := p.expression()
		if err != nil {
			return err
		}
		jf := p.emit(instr{op: opJumpFalse, expr: cond, line: t.line})
		if err := p.block(); err != nil {
			return err
		}
		p.emit(instr{op: opJump, target: top, line: t.line})
		p.code[jf].target = len(p.code)
		return nil

	case t.kind == tokKeyword && t.text == "if":
		cond, err := p.expression()
		if err != nil {
			return err
		}
		jf := p.emit(instr{op: opJumpFalse, expr: cond, line: t.line})
		if err := p.block(); err != nil {
			return err
		}
		if e := p.peek(); e.kind == tokKeyword && e.text == "else" {
			p.next()
			j := p.emit(instr{op: opJump, line: e.line})
			p.code[jf].target = len(p.code)
			if err := p.block(); err != nil {
				return err
			}
			p.code[j].target = len(p.code)
			return nil
		}
		p.code[jf].target = len(p.code)
		return nil

	case t.kind == tokIdent:
		if err := p.expect(tokAssign, ":="); err != nil {
			return err
		}
		if in := p.peek(); in.kind == tokKeyword && in.text == "input" {
			p.next()
			if err := p.expect(tokLParen, "("); err != nil {
				return err
			}
			prompt, err := p.expression()
			if err != nil {
				return err
			}
			if err := p.expect(tokRParen, ")"); err != nil {
				return err
			}
			p.emit(instr{op: opInput, name: t.text, expr: prompt, line: t.line})
			return nil
		}
		e, err := p.expression()
		if err != nil {
			return err
		}
		p.emit(instr{op: opAssign, name: t.text, expr: e, line: t.line})
		return nil
	}
	return fmt.Errorf("line %d: unexpected %s", t.line, t)
}

func (p *parser) block() error {
	if err := p.expect(tokLBrace, "{"); err != nil {
		return err
	}
	for {
		switch p.peek().kind {
		case tokRBrace:
			p.next()
			return nil
		case tokEOF:
			return fmt.Errorf("line %d: missing }", p.peek().line)
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

func (p *parser) expression() (expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %s", t.line, t.text)
		}
		return literal{IntValue(i)}, nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad float %s", t.line, t.text)
		}
		return literal{FloatValue(f)}, nil
	case tokString:
		return literal{StringValue(t.text)}, nil
	case tokIdent:
		return variable{t.text}, nil
	case tokOp:
		if t.text == "-" {
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			return negExpr{x}, nil
		}
	case tokKeyword:
		switch t.text {
		case "true":
			return literal{BoolValue(true)}, nil
		case "false":
			return literal{BoolValue(false)}, nil
		case "not":
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			return notExpr{x}, nil
		case "input":
			return nil, fmt.Errorf("line %d: input must be assigned to a variable", t.line)
		}
	case tokLParen:
		l, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.peek().kind == tokRParen {
			p.next()
			return l, nil
		}
		op := p.next()
		isOp := op.kind == tokOp || (op.kind == tokKeyword && (op.text == "and" || op.text == "or"))
		if !isOp {
			return nil, fmt.Errorf("line %d: expected operator, found %s", op.line, op)
		}
		r, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return binaryExpr{op: op.text, l: l, r: r}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected %s", t.line, t)
}
