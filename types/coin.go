package types

import (
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

const (
	// AttoAE is the smallest unit of the chain currency. Fees, query fees and
	// balances are all denominated in aettos.
	AttoAE string = "aettos"

	// DisplayDenom is the human readable unit.
	// 1 ae = 1x10^{BaseDenomUnit} aettos
	DisplayDenom string = "ae"

	// BaseDenomUnit defines the base denomination unit.
	BaseDenomUnit = 18

	// MinGasPrice is the minimum price per gas unit, in aettos.
	MinGasPrice = 1_000_000_000
)

// PowerReduction is the number of aettos in one ae.
var PowerReduction = sdkmath.NewIntFromBigInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(BaseDenomUnit), nil))

// GasCost returns gas * MinGasPrice.
func GasCost(gas uint64) sdkmath.Int {
	return sdkmath.NewIntFromUint64(gas).Mul(sdkmath.NewInt(MinGasPrice))
}

// FormatAE renders an aettos amount in ae without trailing zeros,
// e.g. 16820000000000 -> "0.00001682ae".
func FormatAE(aettos sdkmath.Int) string {
	if aettos.IsNil() {
		return "0" + DisplayDenom
	}

	whole, frac := new(big.Int).QuoRem(aettos.BigInt(), PowerReduction.BigInt(), new(big.Int))
	out := whole.String()
	if frac.Sign() != 0 {
		digits := frac.String()
		digits = strings.Repeat("0", BaseDenomUnit-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	return out + DisplayDenom
}
