package astjson

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// numObject is the JSON shape for an arbitrary-precision numeric
// literal (spec §4.I "{num: ...} holds arbitrary-precision numerics as
// strings").
type numObject struct {
	Num string `json:"num"`
}

// Encode serialises h and everything it transitively references to
// its JSON AST form (spec §4.I "JSON shape"): numbers are JSON
// numbers, symbols are JSON strings, {num:"..."} for big numerics, and
// ["op", arg0, arg1, ...] for function calls with the Rational special
// form ["Rational", n, d].
func Encode(a *Arena, h Handle) ([]byte, error) {
	v, err := encodeValue(a, h)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func encodeValue(a *Arena, h Handle) (any, error) {
	n := a.Get(h)
	switch n.Kind {
	case KindConstant:
		if n.Big != nil {
			return numObject{Num: n.Big.Text('g', -1)}, nil
		}
		return n.Value, nil
	case KindSymbol:
		return n.Name, nil
	case KindRational:
		return []any{"Rational", n.Num, n.Den}, nil
	case KindFunction:
		out := make([]any, 0, len(n.Args)+1)
		out = append(out, n.Op)
		for _, arg := range n.Args {
			v, err := encodeValue(a, arg)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("astjson: unknown node kind %d", n.Kind)
	}
}

// Decode parses JSON AST form into a, returning the handle to the
// root node. Unknown object keys other than num are a hard error
// (spec §6 "Unknown object keys other than {num} are errors").
func Decode(a *Arena, data []byte) (Handle, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, err
	}
	return decodeValue(a, raw)
}

func decodeValue(a *Arena, raw any) (Handle, error) {
	switch v := raw.(type) {
	case float64:
		return a.Constant(v), nil
	case string:
		return a.Symbol(v), nil
	case map[string]any:
		numStr, ok := v["num"]
		if !ok || len(v) != 1 {
			return 0, fmt.Errorf("astjson: object must have exactly one key \"num\"")
		}
		s, ok := numStr.(string)
		if !ok {
			return 0, fmt.Errorf("astjson: \"num\" must be a string")
		}
		f, _, err := big.ParseFloat(s, 10, 200, big.ToNearestEven)
		if err != nil {
			return 0, fmt.Errorf("astjson: invalid num literal %q: %w", s, err)
		}
		return a.ConstantBig(f), nil
	case []any:
		if len(v) == 0 {
			return 0, fmt.Errorf("astjson: empty array")
		}
		op, ok := v[0].(string)
		if !ok {
			return 0, fmt.Errorf("astjson: array head must be an operator string")
		}
		if op == "Rational" {
			if len(v) != 3 {
				return 0, fmt.Errorf("astjson: Rational requires exactly 2 arguments")
			}
			num, ok1 := v[1].(float64)
			den, ok2 := v[2].(float64)
			if !ok1 || !ok2 {
				return 0, fmt.Errorf("astjson: Rational arguments must be numbers")
			}
			return a.Rational(int64(num), int64(den)), nil
		}
		args := make([]Handle, 0, len(v)-1)
		for _, rawArg := range v[1:] {
			h, err := decodeValue(a, rawArg)
			if err != nil {
				return 0, err
			}
			args = append(args, h)
		}
		return a.Function(op, args...), nil
	default:
		return 0, fmt.Errorf("astjson: unsupported JSON value %T", raw)
	}
}
