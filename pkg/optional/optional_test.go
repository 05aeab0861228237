package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldThreeStates(t *testing.T) {
	type payload struct {
		Name  Field[string] `json:"name"`
		Price Field[any]    `json:"price"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"hello"}`), &p))
	require.True(t, p.Name.Set)
	require.True(t, p.Name.Valid)
	require.Equal(t, "hello", p.Name.Value)
	require.False(t, p.Price.Set)

	p = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{"price":null}`), &p))
	require.False(t, p.Name.Set)
	require.True(t, p.Price.Set)
	require.False(t, p.Price.Valid)
}

func TestFieldMarshal(t *testing.T) {
	b, err := json.Marshal(Field[string]{Set: true, Valid: true, Value: "x"})
	require.NoError(t, err)
	require.Equal(t, `"x"`, string(b))

	b, err = json.Marshal(Field[string]{Set: true})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))
}
