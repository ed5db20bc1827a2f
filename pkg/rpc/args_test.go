package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgsAccessors(t *testing.T) {
	args := Args{"hi", json.Number("42"), true}
	require.Equal(t, 3, args.Len())

	str, err := args.String(0)
	require.NoError(t, err)
	require.Equal(t, "hi", str)

	num, err := args.Int(1)
	require.NoError(t, err)
	require.Equal(t, 42, num)

	flag, err := args.Bool(2)
	require.NoError(t, err)
	require.True(t, flag)
}

func TestArgsMissingArgument(t *testing.T) {
	args := Args{"hi"}
	_, err := args.Get(1)
	require.Error(t, err)
	require.IsType(t, &BadArgumentsError{}, err)
}

func TestArgsMistypedArgument(t *testing.T) {
	args := Args{"hi", json.Number("1.5")}

	_, err := args.Int(0)
	require.IsType(t, &BadArgumentsError{}, err)

	_, err = args.Int(1)
	require.IsType(t, &BadArgumentsError{}, err)

	_, err = args.Bool(0)
	require.IsType(t, &BadArgumentsError{}, err)

	_, err = args.String(1)
	require.IsType(t, &BadArgumentsError{}, err)
}

func TestArgsFloat64Int(t *testing.T) {
	args := Args{float64(7)}
	num, err := args.Int(0)
	require.NoError(t, err)
	require.Equal(t, 7, num)
}
