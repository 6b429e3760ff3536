package types

import (
	errorsmod "cosmossdk.io/errors"
)

// errors
var (
	ErrInvalidIdentifier = errorsmod.Register(ModuleName, 2, "invalid identifier")
	ErrInvalidTtl        = errorsmod.Register(ModuleName, 3, "invalid ttl")
	ErrSdk               = errorsmod.Register(ModuleName, 4, "chain client error")
	ErrPresentation      = errorsmod.Register(ModuleName, 5, "failed to present result")
	ErrInvalidOptions    = errorsmod.Register(ModuleName, 6, "invalid options")
	ErrInvalidTx         = errorsmod.Register(ModuleName, 7, "invalid transaction")
)
