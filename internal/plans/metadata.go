package plans

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aidanlsb/planvault/internal/dates"
	"github.com/aidanlsb/planvault/internal/frontmatter"
)

// Frontmatter keys written by the lifecycle.
const (
	KeyCreated    = "created"
	KeySource     = "source"
	KeyType       = "type"
	KeyProject    = "project"
	KeyPriority   = "priority"
	KeyReviewDate = "review_date"
	KeyNextAction = "next_action"
)

// Recognized values for the enumerated fields.
const (
	SourceClaude     = "Claude"
	SourceClaudeCode = "Claude Code"
	SourceOtherLLM   = "Other LLM"

	TypeArchitecture   = "Architecture"
	TypeImplementation = "Implementation"
	TypeResearch       = "Research"
	TypeDesign         = "Design"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

var (
	Sources    = []string{SourceClaude, SourceClaudeCode, SourceOtherLLM}
	Types      = []string{TypeArchitecture, TypeImplementation, TypeResearch, TypeDesign}
	Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}
)

// PlanMetadata is the typed input for creating a plan. Empty fields are
// absent and fall back to defaults where one exists.
type PlanMetadata struct {
	Created    string `json:"created,omitempty" validate:"omitempty,isodate"`
	Source     string `json:"source,omitempty" validate:"omitempty,oneof='Claude' 'Claude Code' 'Other LLM'"`
	Type       string `json:"type,omitempty" validate:"omitempty,oneof=Architecture Implementation Research Design"`
	Project    string `json:"project" validate:"required"`
	Priority   string `json:"priority,omitempty" validate:"omitempty,oneof=High Medium Low"`
	ReviewDate string `json:"review_date,omitempty" validate:"omitempty,isodate"`
	NextAction string `json:"next_action,omitempty"`
}

// withDefaults applies priority=Medium, type=Design, source=Other LLM and created=today.
func (m PlanMetadata) withDefaults(today string) PlanMetadata {
	if m.Priority == "" {
		m.Priority = PriorityMedium
	}
	if m.Type == "" {
		m.Type = TypeDesign
	}
	if m.Source == "" {
		m.Source = SourceOtherLLM
	}
	if m.Created == "" {
		m.Created = today
	}
	return m
}

// Fields renders the metadata in canonical key order, omitting empty fields.
func (m PlanMetadata) Fields() *frontmatter.Fields {
	f := frontmatter.NewFields()
	set := func(key, value string) {
		if value != "" {
			f.Set(key, value)
		}
	}
	set(KeyCreated, m.Created)
	set(KeySource, m.Source)
	set(KeyType, m.Type)
	set(KeyProject, m.Project)
	set(KeyPriority, m.Priority)
	set(KeyReviewDate, m.ReviewDate)
	set(KeyNextAction, m.NextAction)
	return f
}

// MetadataFromFields reads the recognized keys out of decoded frontmatter.
// Unknown keys are ignored.
func MetadataFromFields(f *frontmatter.Fields) PlanMetadata {
	return PlanMetadata{
		Created:    f.Value(KeyCreated),
		Source:     f.Value(KeySource),
		Type:       f.Value(KeyType),
		Project:    f.Value(KeyProject),
		Priority:   f.Value(KeyPriority),
		ReviewDate: f.Value(KeyReviewDate),
		NextAction: f.Value(KeyNextAction),
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return dates.IsValidDate(fl.Field().String())
	})
}

// Validate checks required fields and enum domains.
func (m PlanMetadata) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", jsonName(e.Field())))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of %s, got %q", jsonName(e.Field()), e.Param(), e.Value()))
		case "isodate":
			messages = append(messages, fmt.Sprintf("%s must be a YYYY-MM-DD date, got %q", jsonName(e.Field()), e.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s", jsonName(e.Field()), e.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidMetadata, strings.Join(messages, "; "))
}

func jsonName(field string) string {
	switch field {
	case "ReviewDate":
		return KeyReviewDate
	case "NextAction":
		return KeyNextAction
	default:
		return strings.ToLower(field)
	}
}

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// Sanitize replaces every character outside [A-Za-z0-9] with '_'.
func Sanitize(s string) string {
	return nonAlphanumeric.ReplaceAllString(s, "_")
}

// Filename returns "{date}_{project}_{type}.md" with project and type sanitized.
func Filename(date, project, planType string) string {
	return fmt.Sprintf("%s_%s_%s.md", date, Sanitize(project), Sanitize(planType))
}

func validateFilename(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidFilename)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidFilename, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
