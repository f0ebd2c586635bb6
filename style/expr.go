package style

import (
	"errors"
	"fmt"
	"reflect"
)

// Env maps feature attribute names to scalar values (string, bool, any integer or float kind).
// The zoom level is read from ZoomKey, falling back to LevelKey.
type Env map[string]any

const (
	ZoomKey  = "$zoom"
	LevelKey = "$level"
)

// Lookup returns the named attribute.
func (e Env) Lookup(name string) (any, bool) {
	v, ok := e[name]
	return v, ok
}

// Zoom returns the environment's zoom level.
func (e Env) Zoom() (float64, bool) {
	for _, key := range []string{ZoomKey, LevelKey} {
		if v, ok := e[key]; ok {
			if f, ok := toFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// Expr is a compiled predicate or value expression.
type Expr interface {
	Eval(env Env) any
}

// ErrInvalidExpr wraps every expression compile error.
var ErrInvalidExpr = errors.New("invalid expression")

// CompileExpr compiles a predicate source. Sources are either an infix string
// ("kind == 'road' && $zoom >= 12"), an array form (["==", ["get", "kind"], "road"]), a bool,
// or nil, which always matches.
func CompileExpr(src any) (Expr, error) {
	switch v := src.(type) {
	case nil:
		return literalExpr{true}, nil
	case bool:
		return literalExpr{v}, nil
	case string:
		return parseInfix(v)
	case []any:
		return compileArray(v)
	case []string:
		arr := make([]any, len(v))
		for i, s := range v {
			arr[i] = s
		}
		return compileArray(arr)
	}
	return nil, fmt.Errorf("%w: unsupported source type %T", ErrInvalidExpr, src)
}

// Matches evaluates e as a predicate.
func Matches(e Expr, env Env) bool {
	return truthy(e.Eval(env))
}

type literalExpr struct{ v any }

func (e literalExpr) Eval(Env) any { return e.v }

type getExpr struct{ name string }

func (e getExpr) Eval(env Env) any {
	v, _ := env.Lookup(e.name)
	return v
}

type hasExpr struct{ name string }

func (e hasExpr) Eval(env Env) any {
	_, ok := env.Lookup(e.name)
	return ok
}

type zoomExpr struct{}

func (zoomExpr) Eval(env Env) any {
	if z, ok := env.Zoom(); ok {
		return z
	}
	return nil
}

type compareExpr struct {
	op          string
	left, right Expr
}

func (e compareExpr) Eval(env Env) any {
	return compare(e.op, e.left.Eval(env), e.right.Eval(env))
}

type allExpr []Expr

func (e allExpr) Eval(env Env) any {
	for _, sub := range e {
		if !truthy(sub.Eval(env)) {
			return false
		}
	}
	return true
}

type anyExpr []Expr

func (e anyExpr) Eval(env Env) any {
	for _, sub := range e {
		if truthy(sub.Eval(env)) {
			return true
		}
	}
	return false
}

type notExpr struct{ e Expr }

func (e notExpr) Eval(env Env) any { return !truthy(e.e.Eval(env)) }

type inExpr struct {
	needle Expr
	list   []any
}

func (e inExpr) Eval(env Env) any {
	v := e.needle.Eval(env)
	for _, item := range e.list {
		if compare("==", v, item).(bool) {
			return true
		}
	}
	return false
}

func compileArray(arr []any) (Expr, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrInvalidExpr)
	}
	op, ok := arr[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: operator must be a string, got %T", ErrInvalidExpr, arr[0])
	}
	args := arr[1:]

	switch op {
	case "get", "has":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %q takes 1 argument", ErrInvalidExpr, op)
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q needs a string name", ErrInvalidExpr, op)
		}
		if op == "has" {
			return hasExpr{name}, nil
		}
		return getExpr{name}, nil
	case "zoom":
		return zoomExpr{}, nil
	case "literal":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: literal takes 1 argument", ErrInvalidExpr)
		}
		return literalExpr{args[0]}, nil
	case "==", "!=", "<", "<=", ">", ">=":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: %q takes 2 arguments", ErrInvalidExpr, op)
		}
		left, err := compileOperand(args[0])
		if err != nil {
			return nil, err
		}
		right, err := compileOperand(args[1])
		if err != nil {
			return nil, err
		}
		return compareExpr{op: op, left: left, right: right}, nil
	case "all", "any":
		subs := make([]Expr, 0, len(args))
		for _, a := range args {
			sub, err := compileOperand(a)
			if err != nil {
				return nil, err
			}
			subs = append(subs, sub)
		}
		if op == "all" {
			return allExpr(subs), nil
		}
		return anyExpr(subs), nil
	case "!":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: ! takes 1 argument", ErrInvalidExpr)
		}
		sub, err := compileOperand(args[0])
		if err != nil {
			return nil, err
		}
		return notExpr{sub}, nil
	case "in":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: in takes 2 arguments", ErrInvalidExpr)
		}
		needle, err := compileOperand(args[0])
		if err != nil {
			return nil, err
		}
		list, ok := args[1].([]any)
		if ok && len(list) == 2 && list[0] == "literal" {
			list, ok = list[1].([]any)
		}
		if !ok {
			return nil, fmt.Errorf("%w: in needs a list", ErrInvalidExpr)
		}
		return inExpr{needle: needle, list: list}, nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidExpr, op)
}

func compileOperand(v any) (Expr, error) {
	if arr, ok := v.([]any); ok {
		return compileArray(arr)
	}
	return literalExpr{v}, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

// compare applies op to a and b. Numbers compare numerically across Go kinds, strings
// lexically; any other mix is only ever unequal.
func compare(op string, a, b any) any {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch op {
			case "==":
				return fa == fb
			case "!=":
				return fa != fb
			case "<":
				return fa < fb
			case "<=":
				return fa <= fb
			case ">":
				return fa > fb
			case ">=":
				return fa >= fb
			}
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			switch op {
			case "==":
				return sa == sb
			case "!=":
				return sa != sb
			case "<":
				return sa < sb
			case "<=":
				return sa <= sb
			case ">":
				return sa > sb
			case ">=":
				return sa >= sb
			}
		}
	}
	eq := equalScalars(a, b)
	switch op {
	case "==":
		return eq
	case "!=":
		return !eq
	}
	return false
}

func equalScalars(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
