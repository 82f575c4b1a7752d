package cli

import (
	"errors"

	"github.com/aidanlsb/planvault/internal/config"
	"github.com/aidanlsb/planvault/internal/plans"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	ErrPlanNotFound  = plans.CodePlanNotFound
	ErrInvalidInput  = plans.CodeInvalidInput
	ErrVaultError    = plans.CodeVaultError
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrInternal      = plans.CodeInternal
)

// errAlreadyReported marks an error that has been written as a JSON envelope.
var errAlreadyReported = errors.New("error already reported")

// configError marks failures to load or apply the configuration.
type configError struct {
	err error
}

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func errorCode(err error) string {
	var ce configError
	if errors.As(err, &ce) || errors.Is(err, config.ErrInvalid) {
		return ErrConfigInvalid
	}
	return plans.Code(err)
}

func suggestionFor(code string) string {
	switch code {
	case ErrPlanNotFound:
		return "Run 'planvault list' to see available plans"
	case ErrConfigInvalid:
		return "Run 'planvault init --write-config' to create a config file"
	case ErrVaultError:
		return "Check that Obsidian is running with the Local REST API plugin enabled"
	default:
		return ""
	}
}
