package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

var superscriptDigits = map[rune]byte{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

var glyphs = strings.NewReplacer(
	"−", "-",
	"–", "-",
	"＋", "+",
	"×", "*",
	"·", "*",
	"⋅", "*",
	"÷", "/",
	"π", "pi",
	"√", "sqrt",
)

var dydxPattern = regexp.MustCompile(`d\s*y\s*/\s*d\s*x`)

// rewrite applies the text-level rewrites that precede tokenizing.
func rewrite(raw string) string {
	s := rewriteSuperscripts(raw)
	s = glyphs.Replace(s)
	s = strings.ReplaceAll(s, "^", "**")
	return dydxPattern.ReplaceAllString(s, " dy_dx ")
}

// rewriteSuperscripts turns a run of superscript digits, optionally led by
// a superscript minus, into an explicit power of the preceding base.
func rewriteSuperscripts(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); {
		j := i
		neg := runes[j] == '⁻'
		if neg {
			j++
		}
		start := j
		for j < len(runes) {
			if _, ok := superscriptDigits[runes[j]]; !ok {
				break
			}
			j++
		}
		if j == start {
			b.WriteRune(runes[i])
			i++
			continue
		}

		digits := make([]byte, 0, j-start)
		for _, r := range runes[start:j] {
			digits = append(digits, superscriptDigits[r])
		}
		if neg {
			b.WriteString("**(-" + string(digits) + ")")
		} else {
			b.WriteString("**" + string(digits))
		}
		i = j
	}
	return b.String()
}

type tokenKind int

const (
	tokNum tokenKind = iota
	tokName
	tokFunc
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind     tokenKind
	text     string
	implicit bool // a '*' inserted between adjacent operands
}

// names lists the identifiers an identifier run may be split into,
// longest first so that "sec" wins over "e".
var names = []string{
	"dy_dx",
	"sqrt",
	"sin", "cos", "tan", "sec", "csc", "cot", "log", "exp",
	"ln", "pi",
	"x", "y", "t", "e",
}

var funcNames = map[string]bool{
	"sqrt": true, "sin": true, "cos": true, "tan": true,
	"sec": true, "csc": true, "cot": true, "log": true, "exp": true,
	"ln": true,
}

func tokenize(raw, text string) ([]token, error) {
	var toks []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			if j < len(rs) && rs[j] == '.' && j+1 < len(rs) && unicode.IsDigit(rs[j+1]) {
				j++
				for j < len(rs) && unicode.IsDigit(rs[j]) {
					j++
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[i:j])})
			i = j

		case isIdentRune(r):
			j := i
			for j < len(rs) && isIdentRune(rs[j]) {
				j++
			}
			split, err := splitIdent(raw, string(rs[i:j]))
			if err != nil {
				return nil, err
			}
			toks = append(toks, split...)
			i = j

		case r == '*':
			if i+1 < len(rs) && rs[i+1] == '*' {
				toks = append(toks, token{kind: tokOp, text: "**"})
				i += 2
				continue
			}
			toks = append(toks, token{kind: tokOp, text: "*"})
			i++

		case r == '+' || r == '-' || r == '/':
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++

		case r == '(' || r == '[' || r == '{':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++

		case r == ')' || r == ']' || r == '}':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++

		default:
			return nil, &ParseError{Raw: raw, Reason: "unexpected character " + string(r)}
		}
	}
	return insertImplicit(toks), nil
}

func isIdentRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}

// splitIdent splits a run of letters into known names, longest match first.
func splitIdent(raw, run string) ([]token, error) {
	var out []token
	rest := run
	for rest != "" {
		matched := ""
		for _, n := range names {
			if strings.HasPrefix(rest, n) {
				matched = n
				break
			}
		}
		if matched == "" {
			return nil, &ParseError{Raw: raw, Reason: "unknown identifier " + run}
		}
		kind := tokName
		if funcNames[matched] {
			kind = tokFunc
		}
		out = append(out, token{kind: kind, text: matched})
		rest = rest[len(matched):]
	}
	return out, nil
}

// insertImplicit adds '*' between adjacent operands, except after a
// function name, which applies to what follows.
func insertImplicit(toks []token) []token {
	out := make([]token, 0, len(toks))
	for i, t := range toks {
		if i > 0 && needsMul(toks[i-1], t) {
			out = append(out, token{kind: tokOp, text: "*", implicit: true})
		}
		out = append(out, t)
	}
	return out
}

func needsMul(a, b token) bool {
	left := a.kind == tokNum || a.kind == tokName || a.kind == tokRParen
	right := b.kind == tokNum || b.kind == tokName || b.kind == tokFunc || b.kind == tokLParen
	if !left || !right {
		return false
	}
	return !(a.kind == tokNum && b.kind == tokNum)
}
