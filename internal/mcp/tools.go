package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/plans"
)

// DefaultDaysOld is the age threshold archive_old_reviewed uses when
// days_old is omitted.
const DefaultDaysOld = 30

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func enumProp(description string, values []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description, "enum": values}
}

func filenameSchema() InputSchema {
	return InputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"filename": stringProp("Plan filename, e.g. 2025-01-08_Test_Architecture.md"),
		},
		Required: []string{"filename"},
	}
}

var folderNames = []string{string(plans.Inbox), string(plans.Reviewed), string(plans.Archive)}

func toolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "create_technical_plan",
			Description: "File a new technical plan in the Inbox. The filename is {today}_{project}_{type}.md; a plan with the same name is overwritten.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"content":     stringProp("Markdown body of the plan"),
					"project":     stringProp("Project the plan belongs to"),
					"type":        enumProp("Plan type (default Design)", plans.Types),
					"priority":    enumProp("Priority (default Medium)", plans.Priorities),
					"source":      enumProp("Who wrote the plan (default Other LLM)", plans.Sources),
					"next_action": stringProp("Optional next step"),
				},
				Required: []string{"content", "project"},
			},
		},
		{
			Name:        "mark_plan_reviewed",
			Description: "Move a plan from the Inbox to Reviewed and stamp review_date with today's date.",
			InputSchema: filenameSchema(),
		},
		{
			Name:        "archive_plan",
			Description: "Move a plan from the Inbox or Reviewed to the Archive, unchanged.",
			InputSchema: filenameSchema(),
		},
		{
			Name:        "list_technical_plans",
			Description: "List plans with their frontmatter. Plans present in several folders are reported once, from the most terminal folder.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"folder":   enumProp("Limit to one folder", folderNames),
					"project":  stringProp("Filter by project"),
					"type":     enumProp("Filter by type", plans.Types),
					"priority": enumProp("Filter by priority", plans.Priorities),
				},
			},
		},
		{
			Name:        "get_plan_metadata",
			Description: "Return the frontmatter of a plan, searching Inbox, Reviewed, then Archive. Returns null metadata when no folder holds the plan.",
			InputSchema: filenameSchema(),
		},
		{
			Name:        "get_plan",
			Description: "Return a plan's frontmatter, body and folder.",
			InputSchema: filenameSchema(),
		},
		{
			Name:        "archive_old_reviewed",
			Description: "Archive Reviewed plans whose review_date is older than days_old days.",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"days_old": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": fmt.Sprintf("Age threshold in days (default %d)", DefaultDaysOld),
					},
				},
			},
		},
		{
			Name:        "find_duplicate_plans",
			Description: "Report filenames present in more than one folder, typically left by an interrupted move.",
			InputSchema: InputSchema{Type: "object"},
		},
	}
}

type createArgs struct {
	Content    string `json:"content"`
	Project    string `json:"project"`
	Type       string `json:"type"`
	Priority   string `json:"priority"`
	Source     string `json:"source"`
	NextAction string `json:"next_action"`
}

type filenameArgs struct {
	Filename string `json:"filename"`
}

type listArgs struct {
	Folder   string `json:"folder"`
	Project  string `json:"project"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

type expireArgs struct {
	DaysOld *int `json:"days_old"`
}

// toolResponse mirrors the CLI's JSON envelope.
type toolResponse struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *toolError `json:"error,omitempty"`
}

type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeArgs(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", plans.ErrInvalidArgument, err)
	}
	return nil
}

// callTool runs one tool and returns the JSON text of its result and whether
// it failed.
func (s *Server) callTool(ctx context.Context, name string, raw json.RawMessage) (string, bool) {
	data, err := s.dispatch(ctx, name, raw)
	if err != nil {
		s.logger.Debug("tool failed", zap.String("tool", name), zap.Error(err))
		return encodeToolResponse(toolResponse{
			Error: &toolError{Code: plans.Code(err), Message: err.Error()},
		}), true
	}
	return encodeToolResponse(toolResponse{OK: true, Data: data}), false
}

func (s *Server) dispatch(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	switch name {
	case "create_technical_plan":
		var args createArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		path, err := s.manager.CreateTechnicalPlan(ctx, args.Content, plans.PlanMetadata{
			Project:    args.Project,
			Type:       args.Type,
			Priority:   args.Priority,
			Source:     args.Source,
			NextAction: args.NextAction,
		})
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": path}, nil

	case "mark_plan_reviewed", "archive_plan", "get_plan_metadata", "get_plan":
		var args filenameArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return s.filenameTool(ctx, name, args.Filename)

	case "list_technical_plans":
		var args listArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		summaries, err := s.manager.ListTechnicalPlans(ctx, plans.ListOptions{
			Folder:   plans.Folder(args.Folder),
			Project:  args.Project,
			Type:     args.Type,
			Priority: args.Priority,
		})
		if err != nil {
			return nil, err
		}
		if summaries == nil {
			summaries = []plans.PlanSummary{}
		}
		return map[string]any{"plans": summaries, "count": len(summaries)}, nil

	case "archive_old_reviewed":
		var args expireArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		days := DefaultDaysOld
		if args.DaysOld != nil {
			days = *args.DaysOld
		}
		count, err := s.manager.ArchiveOldReviewed(ctx, days)
		if err != nil && count == 0 {
			return nil, err
		}
		data := map[string]any{"archived": count, "days_old": days}
		if err != nil {
			data["errors"] = err.Error()
		}
		return data, nil

	case "find_duplicate_plans":
		dups, err := s.manager.FindDuplicates(ctx)
		if err != nil {
			return nil, err
		}
		if dups == nil {
			dups = []plans.Duplicate{}
		}
		return map[string]any{"duplicates": dups}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tool %q", plans.ErrInvalidArgument, name)
	}
}

func (s *Server) filenameTool(ctx context.Context, name, filename string) (any, error) {
	switch name {
	case "mark_plan_reviewed":
		if err := s.manager.MarkReviewed(ctx, filename); err != nil {
			return nil, err
		}
		return map[string]string{"filename": filename, "folder": string(plans.Reviewed)}, nil
	case "archive_plan":
		if err := s.manager.ArchivePlan(ctx, filename); err != nil {
			return nil, err
		}
		return map[string]string{"filename": filename, "folder": string(plans.Archive)}, nil
	case "get_plan_metadata":
		fields, err := s.manager.GetPlanMetadata(ctx, filename)
		if err != nil {
			return nil, err
		}
		return map[string]any{"filename": filename, "metadata": fields}, nil
	default:
		return s.manager.GetPlan(ctx, filename)
	}
}

func encodeToolResponse(resp toolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"ok":false,"error":{"code":%q,"message":%q}}`, plans.CodeInternal, err.Error())
	}
	return string(data)
}
