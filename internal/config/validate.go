package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New()

// Validate checks field domains and the folder layout.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, describe(e))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(messages, "; "))
	}

	if err := c.Plans.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: plans: %v", ErrInvalid, err)
	}
	return nil
}

var keyNames = map[string]string{
	"Backend":  "vault.backend",
	"URL":      "vault.url",
	"Path":     "vault.path",
	"Codec":    "plans.codec",
	"Timezone": "plans.timezone",
	"Level":    "log.level",
	"Format":   "log.format",
}

func describe(e validator.FieldError) string {
	key, ok := keyNames[e.Field()]
	if !ok {
		key = e.Namespace()
	}
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", key, e.Param(), e.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, strings.Replace(e.Param(), " ", " is ", 1))
	case "timezone":
		return fmt.Sprintf("%s: unknown time zone %q", key, e.Value())
	default:
		return fmt.Sprintf("%s failed %s", key, e.Tag())
	}
}
