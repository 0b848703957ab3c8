// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriorityClass(t *testing.T) {
	for _, c := range PriorityClasses {
		got, err := ParsePriorityClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParsePriorityClass("  HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, got)

	got, err = ParsePriorityClass("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, got)

	_, err = ParsePriorityClass("realtime")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestPriorityClass_OrderAndClamp(t *testing.T) {
	for i := 1; i < len(PriorityClasses); i++ {
		assert.Less(t, PriorityClasses[i-1], PriorityClasses[i])
	}
	assert.Equal(t, PriorityHighest, PriorityClass(9).Clamp())
	assert.Equal(t, PriorityLowest, PriorityClass(-9).Clamp())
	assert.False(t, PriorityClass(3).Valid())
	assert.Equal(t, "priority(3)", PriorityClass(3).String())
}

func TestParseAffinity(t *testing.T) {
	cases := []struct {
		in   string
		want Affinity
	}{
		{"", AffinityAny()},
		{"any", AffinityAny()},
		{"3", AffinityCore(3)},
		{"1:5", Affinity{Specified: true, Group: 1, ID: 5}},
	}
	for _, tc := range cases {
		got, err := ParseAffinity(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"x", "-1", "1:", "200:1", "a:b"} {
		_, err := ParseAffinity(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "any", AffinityAny().String())
	assert.Equal(t, "7", AffinityCore(7).String())
	assert.Equal(t, "2:4", Affinity{Specified: true, Group: 2, ID: 4}.String())
	assert.False(t, AffinityCore(-1).Specified)
}

func TestError_Unwrap(t *testing.T) {
	err := NewError(ErrCodeThreadCreate, "boom").WithCause(io.ErrUnexpectedEOF).WithContext("code", 11)
	assert.True(t, errors.Is(err, ErrThreadCreate))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, ErrCodeThreadCreate, CodeOf(err))
	assert.Equal(t, 11, err.Context["code"])
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, ErrCodeOK, CodeOf(nil))
}

func TestPriorityClass_JSON(t *testing.T) {
	info := ThreadInfo{Name: "io", Base: PriorityLow, Effective: PriorityHighest}
	b, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"highest"`)

	var back ThreadInfo
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, info, back)
}
