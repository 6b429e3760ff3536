package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/GPTx-global/aecli/client/encoding"
)

// ValidateOracleID checks the ok_ prefix and checksum of an oracle id.
func ValidateOracleID(id string) error {
	return validateID(id, encoding.PrefixOracle, labelOracleID)
}

// ValidateQueryID checks the oq_ prefix and checksum of a query id.
func ValidateQueryID(id string) error {
	return validateID(id, encoding.PrefixQuery, labelQueryID)
}

// ValidateAccountID checks the ak_ prefix and checksum of an account id.
func ValidateAccountID(id string) error {
	return validateID(id, encoding.PrefixAccount, labelAccountID)
}

func validateID(id, prefix, label string) error {
	if _, err := encoding.DecodeID(id, prefix); err != nil {
		return errorsmod.Wrapf(ErrInvalidIdentifier, "Invalid %s (%v)", label, err)
	}
	return nil
}
