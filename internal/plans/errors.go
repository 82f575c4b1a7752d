package plans

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aidanlsb/planvault/internal/vault"
)

var (
	// ErrPlanNotFound is matched by every NotFoundError.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrInvalidFilename is returned for names that are empty or contain path separators.
	ErrInvalidFilename = errors.New("invalid plan filename")

	// ErrInvalidMetadata is returned when create input fails validation.
	ErrInvalidMetadata = errors.New("invalid plan metadata")

	// ErrInvalidArgument is returned for out-of-range arguments such as a
	// negative age or an unknown folder.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError reports a filename absent from the folders that were searched.
type NotFoundError struct {
	Filename string
	Folders  []Folder
}

func (e *NotFoundError) Error() string {
	names := make([]string, len(e.Folders))
	for i, f := range e.Folders {
		names[i] = f.Title()
	}
	return fmt.Sprintf("plan %q not found in %s", e.Filename, strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrPlanNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrPlanNotFound
}

// MoveError is returned when the destination copy was written but the source
// could not be removed. Both copies remain in the vault.
type MoveError struct {
	From string
	To   string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("copied %s to %s but could not remove the original: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// Stable error codes reported by the CLI and the MCP server.
const (
	CodePlanNotFound = "PLAN_NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeVaultError   = "VAULT_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Code classifies err into one of the stable error codes.
func Code(err error) string {
	var moveErr *MoveError
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPlanNotFound):
		return CodePlanNotFound
	case errors.Is(err, ErrInvalidMetadata), errors.Is(err, ErrInvalidFilename), errors.Is(err, ErrInvalidArgument):
		return CodeInvalidInput
	case errors.As(err, &moveErr),
		errors.As(err, &pathErr),
		errors.Is(err, vault.ErrNotFound),
		errors.Is(err, vault.ErrPathOutsideVault),
		errors.Is(err, vault.ErrUnavailable),
		errors.Is(err, vault.ErrRejected):
		return CodeVaultError
	default:
		return CodeInternal
	}
}
