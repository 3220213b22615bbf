package evolve

import (
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/textevolve/pkg/errors"
)

func TestDefaultAlphabet(t *testing.T) {
	alphabet := DefaultAlphabet()

	assert.Equal(t, 27, alphabet.Len())
	assert.True(t, alphabet.Contains('A'))
	assert.True(t, alphabet.Contains(' '))
	assert.False(t, alphabet.Contains('a'))
	assert.False(t, alphabet.Contains('!'))
}

func TestNewAlphabet(t *testing.T) {
	t.Run("deduplicates preserving order", func(t *testing.T) {
		alphabet, err := NewAlphabet("ABBA")
		require.NoError(t, err)

		assert.Equal(t, 2, alphabet.Len())
		assert.Equal(t, "AB", alphabet.String())
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := NewAlphabet("")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.New(errors.InvalidConfiguration, "")))
	})
}

func TestAlphabetValidate(t *testing.T) {
	alphabet := DefaultAlphabet()

	assert.NoError(t, alphabet.Validate("SKYNET IS NOW ONLINE"))
	assert.NoError(t, alphabet.Validate(""))

	err := alphabet.Validate("skynet")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.New(errors.InvalidAlphabet, "")))

	var customErr *errors.Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, "s", customErr.Fields()["symbol"])
}

func TestAlphabetPickUniform(t *testing.T) {
	alphabet, err := NewAlphabet("ACT")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	counts := make(map[rune]int)
	const draws = 3000
	for i := 0; i < draws; i++ {
		counts[alphabet.pick(rng)]++
	}

	require.Len(t, counts, 3)
	for symbol, count := range counts {
		assert.True(t, alphabet.Contains(symbol))
		// Loose bound: each symbol should land near draws/3
		assert.InDelta(t, draws/3, count, draws/10)
	}
}
