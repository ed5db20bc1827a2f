package rpc

import (
	"encoding/json"
)

// Args wraps a request's positional params with typed accessors. Every
// accessor raises a bad-arguments condition on a missing or mistyped
// argument, so operations can return the error unwrapped.
type Args []interface{}

func (a Args) Len() int {
	return len(a)
}

func (a Args) Get(i int) (interface{}, error) {
	if i < 0 || i >= len(a) {
		return nil, BadArguments("missing argument %d", i)
	}
	return a[i], nil
}

func (a Args) String(i int) (string, error) {
	val, err := a.Get(i)
	if err != nil {
		return "", err
	}
	out, ok := val.(string)
	if !ok {
		return "", BadArguments("argument %d is not a string", i)
	}
	return out, nil
}

func (a Args) Bool(i int) (bool, error) {
	val, err := a.Get(i)
	if err != nil {
		return false, err
	}
	out, ok := val.(bool)
	if !ok {
		return false, BadArguments("argument %d is not a boolean", i)
	}
	return out, nil
}

func (a Args) Int(i int) (int, error) {
	val, err := a.Get(i)
	if err != nil {
		return 0, err
	}
	switch num := val.(type) {
	case json.Number:
		parsed, err := num.Int64()
		if err != nil {
			return 0, BadArguments("argument %d is not an integer", i)
		}
		return int(parsed), nil
	case float64:
		return int(num), nil
	default:
		return 0, BadArguments("argument %d is not an integer", i)
	}
}
