package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringRejectsBadArguments(t *testing.T) {
	_, err := RandomString(-1, "0123456789")
	assert.ErrorIs(t, err, errNegativeLength)

	_, err = RandomString(6, "")
	assert.ErrorIs(t, err, errEmptyAlphabet)

	empty, err := RandomString(0, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRandomStringStaysInAlphabet(t *testing.T) {
	const digits = "0123456789"

	pin, err := RandomString(6, digits)
	require.NoError(t, err)
	require.Len(t, pin, 6)
	for _, char := range pin {
		assert.True(t, strings.ContainsRune(digits, char), "unexpected %q in %q", char, pin)
	}

	single, err := RandomString(5, "7")
	require.NoError(t, err)
	assert.Equal(t, "77777", single)
}
