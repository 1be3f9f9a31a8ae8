package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The arithmetic grammar is deliberately tiny: numbers, + - * /, unary
// minus, parentheses, and the Math.round/Math.floor call forms. Formulas come
// from JSON configuration, so the expression is parsed into an AST and walked
// directly; no string ever reaches a host eval facility.

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
	tokenFunc
)

type token struct {
	kind tokenKind
	raw  string
}

// Recognized Math call prefixes, matched before the '(' of their argument.
const (
	funcRound = "Math.round"
	funcFloor = "Math.floor"
)

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '+':
			tokens = append(tokens, token{kind: tokenPlus, raw: "+"})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokenMinus, raw: "-"})
			i++
		case ch == '*':
			tokens = append(tokens, token{kind: tokenStar, raw: "*"})
			i++
		case ch == '/':
			tokens = append(tokens, token{kind: tokenSlash, raw: "/"})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			seenDot := false
			for i < len(input) {
				c := input[i]
				if c == '.' {
					if seenDot {
						break
					}
					seenDot = true
					i++
					continue
				}
				if c < '0' || c > '9' {
					break
				}
				i++
			}
			raw := input[start:i]
			if raw == "." {
				return nil, errors.New("formula: stray '.'")
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw})
		case strings.HasPrefix(input[i:], funcRound):
			tokens = append(tokens, token{kind: tokenFunc, raw: funcRound})
			i += len(funcRound)
		case strings.HasPrefix(input[i:], funcFloor):
			tokens = append(tokens, token{kind: tokenFunc, raw: funcFloor})
			i += len(funcFloor)
		default:
			return nil, fmt.Errorf("formula: unexpected character %q", ch)
		}
	}

	return tokens, nil
}

type node interface {
	eval() (float64, error)
}

type numberNode float64

func (n numberNode) eval() (float64, error) { return float64(n), nil }

type unaryNode struct {
	inner node
}

func (n unaryNode) eval() (float64, error) {
	value, err := n.inner.eval()
	if err != nil {
		return 0, err
	}
	return -value, nil
}

type binaryNode struct {
	op          tokenKind
	left, right node
}

func (n binaryNode) eval() (float64, error) {
	left, err := n.left.eval()
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval()
	if err != nil {
		return 0, err
	}
	switch n.op {
	case tokenPlus:
		return left + right, nil
	case tokenMinus:
		return left - right, nil
	case tokenStar:
		return left * right, nil
	case tokenSlash:
		if right == 0 {
			return 0, errors.New("formula: division by zero")
		}
		return left / right, nil
	default:
		return 0, errors.New("formula: unknown operator")
	}
}

type callNode struct {
	name string
	arg  node
}

func (n callNode) eval() (float64, error) {
	value, err := n.arg.eval()
	if err != nil {
		return 0, err
	}
	switch n.name {
	case funcRound:
		// JavaScript rounds halves toward positive infinity.
		return math.Floor(value + 0.5), nil
	case funcFloor:
		return math.Floor(value), nil
	default:
		return 0, fmt.Errorf("formula: unknown function %q", n.name)
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) peek() (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	return s.tokens[s.pos], true
}

func parse(tokens []token) (node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("formula: empty expression")
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseSum(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("formula: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return root, nil
}

func parseSum(stream *tokenStream) (node, error) {
	left, err := parseProduct(stream)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case stream.match(tokenPlus):
			right, err := parseProduct(stream)
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: tokenPlus, left: left, right: right}
		case stream.match(tokenMinus):
			right, err := parseProduct(stream)
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: tokenMinus, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func parseProduct(stream *tokenStream) (node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case stream.match(tokenStar):
			right, err := parseUnary(stream)
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: tokenStar, left: left, right: right}
		case stream.match(tokenSlash):
			right, err := parseUnary(stream)
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: tokenSlash, left: left, right: right}
		default:
			return left, nil
		}
	}
}

func parseUnary(stream *tokenStream) (node, error) {
	if stream.match(tokenMinus) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return unaryNode{inner: inner}, nil
	}
	if stream.match(tokenPlus) {
		return parseUnary(stream)
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (node, error) {
	tok, ok := stream.peek()
	if !ok {
		return nil, errors.New("formula: unexpected end of expression")
	}

	switch tok.kind {
	case tokenNumber:
		stream.pos++
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("formula: invalid number %q", tok.raw)
		}
		return numberNode(value), nil
	case tokenLParen:
		stream.pos++
		inner, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("formula: missing closing ')'")
		}
		return inner, nil
	case tokenFunc:
		stream.pos++
		if !stream.match(tokenLParen) {
			return nil, fmt.Errorf("formula: %s requires an argument list", tok.raw)
		}
		arg, err := parseSum(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("formula: missing closing ')'")
		}
		return callNode{name: tok.raw, arg: arg}, nil
	default:
		return nil, fmt.Errorf("formula: unexpected token %q", tok.raw)
	}
}

// evalExpression parses and evaluates an already-sanitized arithmetic
// expression.
func evalExpression(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	root, err := parse(tokens)
	if err != nil {
		return 0, err
	}
	value, err := root.eval()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.New("formula: result is not a finite number")
	}
	return value, nil
}
