package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecimalAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{45.5, "45.5"},
		{100, "100"},
		{int64(7), "7"},
		{"30.00", "30"},
		{json.Number("12.25"), "12.25"},
	}
	for _, tc := range cases {
		d, err := ParseDecimal(tc.in)
		require.NoError(t, err)
		require.NotNil(t, d)
		require.True(t, d.Equal(mustDecimal(t, tc.want)), "input %v", tc.in)
	}
}

func TestParseDecimalNilAndBlank(t *testing.T) {
	d, err := ParseDecimal(nil)
	require.NoError(t, err)
	require.Nil(t, d)

	d, err = ParseDecimal("  ")
	require.NoError(t, err)
	require.Nil(t, d)
}

func TestParseDecimalRejectsGarbage(t *testing.T) {
	_, err := ParseDecimal("not-a-number")
	require.Error(t, err)

	_, err = ParseDecimal(struct{}{})
	require.Error(t, err)
}

func TestParseFlexTime(t *testing.T) {
	for _, in := range []string{
		"2026-09-15T10:00:00Z",
		"2026-09-15 10:00:00",
		"2026-09-15",
		"09/15/2026",
	} {
		got := ParseFlexTime(in)
		require.NotNil(t, got, "input %q", in)
		require.Equal(t, 2026, got.Year())
	}
	require.Nil(t, ParseFlexTime("yesterday"))
}
