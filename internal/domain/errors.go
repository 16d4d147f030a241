package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrSecretNotFound          = errors.New("secret not found")
	ErrInvalidCredential       = errors.New("invalid credential")
	ErrUnrecognizedToken       = fmt.Errorf("%w: no token found in input", ErrInvalidCredential)
	ErrIdentityMismatch        = errors.New("token belongs to a different account")
	ErrDuplicateAccount        = errors.New("account already exists")
	ErrBackendUnavailable      = errors.New("backend unavailable")
	ErrPartialUsageUnavailable = errors.New("usage unavailable")
	ErrRefreshTimeout          = errors.New("refresh timed out")
	ErrRefreshInFlight         = errors.New("refresh already in progress")
	ErrEmptySelection          = errors.New("no accounts selected")
	ErrNoPendingConfirmation   = errors.New("no pending confirmation")
)
