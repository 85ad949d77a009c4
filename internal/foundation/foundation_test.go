package foundation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult_OkAndErr(t *testing.T) {
	ok := Ok[int, error](42)
	require.True(t, ok.IsOk())
	require.False(t, ok.IsErr())
	require.Equal(t, 42, ok.Unwrap())
	require.Equal(t, 42, ok.UnwrapOr(0))

	failed := Err[int, error](errors.New("boom"))
	require.True(t, failed.IsErr())
	require.Equal(t, 7, failed.UnwrapOr(7))
	require.EqualError(t, failed.UnwrapErr(), "boom")
}

func TestResult_Map(t *testing.T) {
	doubled := Map(Ok[int, error](21), func(v int) int { return v * 2 })
	require.Equal(t, 42, doubled.Unwrap())

	failed := Map(Err[int, error](errors.New("boom")), func(v int) int { return v * 2 })
	require.True(t, failed.IsErr())
}

func TestResult_ToTuple(t *testing.T) {
	v, err := Ok[string, error]("hello").ToTuple()
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	_, err = Err[string, error](errors.New("boom")).ToTuple()
	require.Error(t, err)
}

func TestOption_SomeAndNone(t *testing.T) {
	some := Some("value")
	require.True(t, some.IsSome())
	require.Equal(t, "value", some.Unwrap())

	none := None[string]()
	require.True(t, none.IsNone())
	require.Equal(t, "fallback", none.UnwrapOr("fallback"))
	require.Nil(t, none.ToPointer())
}

func TestOption_JSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Value Option[int] `json:"value"`
	}

	data, err := json.Marshal(wrapper{Value: Some(3)})
	require.NoError(t, err)
	require.JSONEq(t, `{"value":3}`, string(data))

	data, err = json.Marshal(wrapper{Value: None[int]()})
	require.NoError(t, err)
	require.JSONEq(t, `{"value":null}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"value":5}`), &decoded))
	require.Equal(t, 5, decoded.Value.Unwrap())

	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &decoded))
	require.True(t, decoded.Value.IsNone())

	// A missing field leaves the zero Option, which is None.
	require.NoError(t, json.Unmarshal([]byte(`{}`), &decoded))
	require.True(t, decoded.Value.IsNone())
}

func TestOption_FromPointer(t *testing.T) {
	v := 9
	require.Equal(t, 9, FromPointer(&v).Unwrap())
	require.True(t, FromPointer[int](nil).IsNone())
}
