package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatterGroupsDigits(t *testing.T) {
	f, err := NewFormatter(DisplayConfig{Locale: "en", Currency: "XAF"})
	require.NoError(t, err)

	require.Equal(t, "100,000", f.Amount(100000))
	require.Equal(t, "0", f.Amount(0))
	require.Equal(t, "100,000 XAF", f.AmountWithCurrency(100000))
}

func TestFormatterRejectsBadLocale(t *testing.T) {
	_, err := NewFormatter(DisplayConfig{Locale: "!!", Currency: "XAF"})
	require.Error(t, err)
}

func TestNegativeThresholdIsZero(t *testing.T) {
	require.False(t, Negative(0))
	require.False(t, Negative(1))
	require.True(t, Negative(-1))
}
