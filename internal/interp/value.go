package interp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	}
	return "unknown"
}

// Value is a dynamically typed program value.
type Value struct {
	Kind Kind
	Int  int64
	Flt  float64
	Str  string
	Bool bool
}

var errDivideByZero = errors.New("division by zero")

func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Flt: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

// ParseInput types a line of user input: integer, then float, then boolean,
// otherwise the trimmed text as a string.
func ParseInput(line string) Value {
	s := strings.TrimSpace(line)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(s)
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Flt, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

func (v Value) numeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func (v Value) float() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Flt
}

func binary(op string, a, b Value) (Value, error) {
	switch op {
	case "and", "or":
		if a.Kind != KindBool || b.Kind != KindBool {
			return Value{}, fmt.Errorf("%s needs booleans, got %s and %s", op, a.Kind, b.Kind)
		}
		if op == "and" {
			return BoolValue(a.Bool && b.Bool), nil
		}
		return BoolValue(a.Bool || b.Bool), nil
	case "==":
		return BoolValue(equal(a, b)), nil
	case "!=":
		return BoolValue(!equal(a, b)), nil
	case "<", ">", "<=", ">=":
		c, err := compare(a, b)
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "<":
			return BoolValue(c < 0), nil
		case ">":
			return BoolValue(c > 0), nil
		case "<=":
			return BoolValue(c <= 0), nil
		default:
			return BoolValue(c >= 0), nil
		}
	case "+":
		if a.Kind == KindString || b.Kind == KindString {
			return StringValue(a.String() + b.String()), nil
		}
	}
	return arithmetic(op, a, b)
}

func arithmetic(op string, a, b Value) (Value, error) {
	if !a.numeric() || !b.numeric() {
		return Value{}, fmt.Errorf("cannot apply %s to %s and %s", op, a.Kind, b.Kind)
	}
	if a.Kind == KindInt && b.Kind == KindInt {
		x, y := a.Int, b.Int
		switch op {
		case "+":
			return IntValue(x + y), nil
		case "-":
			return IntValue(x - y), nil
		case "*":
			return IntValue(x * y), nil
		case "/", "%":
			if y == 0 {
				return Value{}, errDivideByZero
			}
			if op == "/" {
				return IntValue(x / y), nil
			}
			return IntValue(x % y), nil
		}
		return Value{}, fmt.Errorf("unknown operator %s", op)
	}
	x, y := a.float(), b.float()
	switch op {
	case "+":
		return FloatValue(x + y), nil
	case "-":
		return FloatValue(x - y), nil
	case "*":
		return FloatValue(x * y), nil
	case "/":
		if y == 0 {
			return Value{}, errDivideByZero
		}
		return FloatValue(x / y), nil
	case "%":
		return Value{}, errors.New("% needs integers")
	}
	return Value{}, fmt.Errorf("unknown operator %s", op)
}

func equal(a, b Value) bool {
	if a.numeric() && b.numeric() {
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.Int == b.Int
		}
		return a.float() == b.float()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	}
	return false
}

func compare(a, b Value) (int, error) {
	if a.numeric() && b.numeric() {
		if a.Kind == KindInt && b.Kind == KindInt {
			return cmp3(a.Int < b.Int, a.Int > b.Int), nil
		}
		x, y := a.float(), b.float()
		return cmp3(x < y, x > y), nil
	}
	if a.Kind == KindString && b.Kind == KindString {
		return strings.Compare(a.Str, b.Str), nil
	}
	return 0, fmt.Errorf("cannot compare %s and %s", a.Kind, b.Kind)
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}
