package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CalculatorTool evaluates arithmetic expressions locally. It understands
// the four operators, parentheses, and the "X% of Y" phrasing.
type CalculatorTool struct{}

func NewCalculatorTool() *CalculatorTool {
	return &CalculatorTool{}
}

func (t *CalculatorTool) Name() string        { return "calculator" }
func (t *CalculatorTool) Kind() Kind          { return KindPure }
func (t *CalculatorTool) Description() string { return "Evaluates arithmetic expressions" }

var percentOfPattern = regexp.MustCompile(`(?i)^\s*([\d.]+)\s*%\s*of\s*([\d.,]+)\s*$`)

func (t *CalculatorTool) Invoke(_ context.Context, params map[string]string) (string, error) {
	expr := params["expression"]
	if expr == "" {
		return "", fmt.Errorf("calculator: missing expression")
	}

	if m := percentOfPattern.FindStringSubmatch(expr); m != nil {
		pct, err1 := strconv.ParseFloat(m[1], 64)
		base, err2 := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("calculator: invalid percentage expression %q", expr)
		}
		return formatNumber(pct / 100 * base), nil
	}

	p := &exprParser{input: strings.ReplaceAll(expr, ",", "")}
	value, err := p.parseExpression()
	if err != nil {
		return "", fmt.Errorf("calculator: %w", err)
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return "", fmt.Errorf("calculator: unexpected input at position %d", p.pos)
	}

	return formatNumber(value), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exprParser is a small recursive-descent evaluator. Precedence: unary
// minus, then * and /, then + and -.
type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) parseExpression() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		op := p.input[p.pos]
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			return left, nil
		}
		op := p.input[p.pos]
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.input[p.pos] == '-' {
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	}

	if p.input[p.pos] == '(' {
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", start)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
