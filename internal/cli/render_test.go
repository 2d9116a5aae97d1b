package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$12.34", FormatMoney(1234))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "$0.00", FormatMoney(0))
	assert.Equal(t, "$100.00", FormatMoney(10000))
	assert.Equal(t, "-$1.50", FormatMoney(-150))
}

func TestParseMoney(t *testing.T) {
	cases := map[string]int64{
		"12.34":  1234,
		"12":     1200,
		"12.3":   1230,
		"0.05":   5,
		"$19.99": 1999,
		" 7.00 ": 700,
		"$ 3":    300,
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "abc", "1.234", "-5", "1.", "1.2.3"} {
		_, err := ParseMoney(in)
		assert.Error(t, err, in)
	}
}
