package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/planvault/internal/plans"
)

// stdin is where `new` reads a piped plan body from.
var stdin io.Reader = os.Stdin

// exactArgs is cobra.ExactArgs with errors classified as invalid input.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", plans.ErrInvalidArgument, err)
		}
		return nil
	}
}

func flagError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w: %v", plans.ErrInvalidArgument, err)
}

// readBody returns the plan body from --file ("-" for stdin), the positional
// arguments, or stdin when it is piped.
func readBody(file string, args []string) (string, error) {
	switch {
	case file == "-":
		return readAll(stdin)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("%w: %v", plans.ErrInvalidArgument, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case stdinPiped():
		return readAll(stdin)
	default:
		return "", nil
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read plan body: %w", err)
	}
	return string(data), nil
}

func stdinPiped() bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd())
}
