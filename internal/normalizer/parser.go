package normalizer

import (
	"fmt"
	"math/big"

	"github.com/abhisek/derivacheck/internal/symbolic"
)

// parser is a recursive-descent parser over the token stream:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | name | "(" expr ")" | call
//	call    = func [ "**" exponent ] ( "(" expr ")" | group )
//
// A call without parentheses takes the following implicit product as its
// argument, up to the next function name: "sin 2x" is sin(2*x) and
// "sin x cos x" is sin(x)*cos(x).
type parser struct {
	raw  string
	toks []token
	pos  int
}

func parse(raw, text string) (symbolic.Expr, error) {
	toks, err := tokenize(raw, text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &ParseError{Raw: raw, Reason: "empty expression"}
	}
	p := &parser{raw: raw, toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t != nil {
		return nil, p.errorf("unexpected %q", t.text)
	}
	return e, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Raw: p.raw, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() *token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *parser) peekAt(offset int) *token {
	if p.pos+offset >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos+offset]
}

func (p *parser) isOp(t *token, ops ...string) bool {
	if t == nil || t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) error {
	t := p.peek()
	if t == nil {
		return p.errorf("expected %s, found end of input", what)
	}
	if t.kind != kind {
		return p.errorf("expected %s, found %q", what, t.text)
	}
	p.pos++
	return nil
}

func (p *parser) expr() (symbolic.Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); p.isOp(t, "+", "-"); t = p.peek() {
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if t.text == "+" {
			left = symbolic.Sum(left, right)
		} else {
			left = symbolic.Sub(left, right)
		}
	}
	return left, nil
}

func (p *parser) term() (symbolic.Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for t := p.peek(); p.isOp(t, "*", "/"); t = p.peek() {
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "*" {
			left = symbolic.Product(left, right)
		} else {
			left = symbolic.Quo(left, right)
		}
	}
	return left, nil
}

func (p *parser) unary() (symbolic.Expr, error) {
	t := p.peek()
	switch {
	case p.isOp(t, "-"):
		p.pos++
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		return symbolic.Neg(e), nil
	case p.isOp(t, "+"):
		p.pos++
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (symbolic.Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp(p.peek(), "**") {
		return base, nil
	}
	p.pos++
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return symbolic.Power(base, exp), nil
}

func (p *parser) primary() (symbolic.Expr, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errorf("unexpected end of input")
	}
	p.pos++
	switch t.kind {
	case tokNum:
		v, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf("bad number %q", t.text)
		}
		return symbolic.NewNum(v), nil
	case tokName:
		return symbolic.NewSym(t.text), nil
	case tokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokFunc:
		return p.call(t.text)
	}
	return nil, p.errorf("unexpected %q", t.text)
}

// call parses a function application. "sin**2(x)" and "sin**2 x" raise
// the application, not the argument.
func (p *parser) call(name string) (symbolic.Expr, error) {
	var raise symbolic.Expr
	if p.isOp(p.peek(), "**") {
		p.pos++
		e, err := p.exponent()
		if err != nil {
			return nil, err
		}
		raise = e
		if t := p.peek(); p.isOp(t, "*") && t.implicit {
			p.pos++
		}
	}

	var arg symbolic.Expr
	if t := p.peek(); t != nil && t.kind == tokLParen {
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		arg = e
	} else {
		e, err := p.group()
		if err != nil {
			return nil, err
		}
		arg = e
	}

	out := symbolic.Call(name, arg)
	if raise != nil {
		out = symbolic.Power(out, raise)
	}
	return out, nil
}

// exponent parses the power written between a function name and its
// argument: an optionally signed number or a parenthesized expression.
func (p *parser) exponent() (symbolic.Expr, error) {
	neg := false
	if p.isOp(p.peek(), "-") {
		neg = true
		p.pos++
	}
	t := p.peek()
	if t == nil || (t.kind != tokNum && t.kind != tokLParen) {
		return nil, p.errorf("expected a function power")
	}
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	if neg {
		e = symbolic.Neg(e)
	}
	return e, nil
}

// group parses the argument of a function written without parentheses.
func (p *parser) group() (symbolic.Expr, error) {
	if p.peek() == nil {
		return nil, p.errorf("function is missing its argument")
	}
	first, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []symbolic.Expr{first}
	for {
		t := p.peek()
		if !p.isOp(t, "*") || !t.implicit {
			break
		}
		if next := p.peekAt(1); next == nil || next.kind == tokFunc {
			break
		}
		p.pos++
		f, err := p.power()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return symbolic.Product(factors...), nil
}
