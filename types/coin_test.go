package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestGasCost(t *testing.T) {
	require.Equal(t, "16820000000000", GasCost(16820).String())
	require.True(t, GasCost(0).IsZero())
}

func TestFormatAE(t *testing.T) {
	testCases := []struct {
		amount sdkmath.Int
		want   string
	}{
		{sdkmath.NewInt(16820000000000), "0.00001682ae"},
		{PowerReduction, "1ae"},
		{PowerReduction.MulRaw(3).AddRaw(5), "3.000000000000000005ae"},
		{sdkmath.ZeroInt(), "0ae"},
		{sdkmath.Int{}, "0ae"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, FormatAE(tc.amount))
	}
}
