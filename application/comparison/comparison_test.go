package comparison_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escanio/escan-core/application/comparison"
	"github.com/escanio/escan-core/domain/entities"
)

func TestCompare_String(t *testing.T) {
	cases := []struct {
		name     string
		actual   string
		expected string
		op       entities.Operation
		want     bool
	}{
		{"equals", "abc", "abc", entities.OpEquals, true},
		{"not equal", "abc", "xyz", entities.OpNotEqual, true},
		{"contains", "hello world", "wor", entities.OpContains, true},
		{"starts with", "hello", "he", entities.OpStartsWith, true},
		{"ends with", "hello", "lo", entities.OpEndsWith, true},
		{"case insensitive equal", "HELLO", "hello", entities.OpIEquals, true},
		{"pattern search, not full match", "prefix-123-suffix", `\d+`, entities.OpPatternMatch, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := comparison.Compare(entities.StringValue(tc.actual), entities.StringValue(tc.expected), tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("invalid pattern yields InvalidPattern diagnostic", func(t *testing.T) {
		_, err := comparison.Compare(entities.StringValue("x"), entities.StringValue("("), entities.OpPatternMatch)
		require.Error(t, err)
		var ve *entities.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "InvalidPattern", ve.Kind)
	})
}

func TestCompare_TypeMismatch(t *testing.T) {
	_, err := comparison.Compare(entities.StringValue("1"), entities.IntValue(1), entities.OpEquals)
	require.Error(t, err)
	var ve *entities.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "TypeMismatch", ve.Kind)
}

func TestCompare_Numeric(t *testing.T) {
	got, err := comparison.Compare(entities.IntValue(10), entities.IntValue(5), entities.OpGreaterThan)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = comparison.Compare(entities.FloatValue(1.5), entities.FloatValue(1.5), entities.OpLessEqual)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCompare_Version(t *testing.T) {
	got, err := comparison.Compare(entities.VersionValue("2.10.0"), entities.VersionValue("2.9.0"), entities.OpGreaterThan)
	require.NoError(t, err)
	assert.True(t, got, "2.10.0 > 2.9.0 per spec.md §4.5")
}

func TestCompare_EVR(t *testing.T) {
	got, err := comparison.Compare(entities.EVRValue("1:2.0-3"), entities.EVRValue("0:9.0-1"), entities.OpGreaterThan)
	require.NoError(t, err)
	assert.True(t, got, "epoch dominates version/release")
}

func TestCompare_Binary(t *testing.T) {
	got, err := comparison.Compare(entities.BinaryValue([]byte{1, 2, 3}), entities.BinaryValue([]byte{1, 2, 3}), entities.OpEquals)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = comparison.Compare(entities.BinaryValue([]byte{1}), entities.BinaryValue([]byte{1}), entities.OpContains)
	require.Error(t, err)
	var ve *entities.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "UnsupportedOperation", ve.Kind)
}
