package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/plans"
)

// resourcePrefix starts every plan URI: planvault://plans/{folder}/{filename}.
const resourcePrefix = "planvault://plans/"

// Resource represents an MCP resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceContent is the body of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

func resourceURI(folder plans.Folder, filename string) string {
	return resourcePrefix + string(folder) + "/" + filename
}

func parseResourceURI(uri string) (plans.Folder, string, error) {
	rest, ok := strings.CutPrefix(uri, resourcePrefix)
	if !ok {
		return "", "", fmt.Errorf("unknown resource %q", uri)
	}
	folder, filename, ok := strings.Cut(rest, "/")
	if !ok || filename == "" {
		return "", "", fmt.Errorf("malformed resource %q", uri)
	}
	f, err := plans.ParseFolder(folder)
	if err != nil {
		return "", "", err
	}
	return f, filename, nil
}

func (s *Server) handleResourcesList(ctx context.Context, req *Request) {
	summaries, err := s.manager.ListTechnicalPlans(ctx, plans.ListOptions{IncludeDuplicates: true})
	if err != nil {
		s.sendError(req.ID, codeInvalidParams, "List failed", err.Error())
		return
	}

	resources := make([]Resource, 0, len(summaries))
	for _, p := range summaries {
		name := p.Title
		if name == "" {
			name = p.Filename
		}
		resources = append(resources, Resource{
			URI:         resourceURI(p.Folder, p.Filename),
			Name:        name,
			Description: fmt.Sprintf("%s plan %s", p.Folder.Title(), p.Filename),
			MimeType:    "text/markdown",
		})
	}
	s.sendResult(req.ID, map[string]interface{}{"resources": resources})
}

func (s *Server) handleResourcesRead(ctx context.Context, req *Request) {
	var params struct {
		URI string `json:"uri"`
	}
	if req.Params == nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params", "uri is required")
		return
	}
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params", err.Error())
		return
	}

	folder, filename, err := parseResourceURI(params.URI)
	if err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params", err.Error())
		return
	}

	content, err := s.manager.ReadPlan(ctx, folder, filename)
	if err != nil {
		s.logger.Debug("resource read failed", zap.String("uri", params.URI), zap.Error(err))
		s.sendError(req.ID, codeInvalidParams, "Resource not readable", fmt.Sprintf("%s: %s", plans.Code(err), err))
		return
	}

	s.sendResult(req.ID, map[string]interface{}{
		"contents": []ResourceContent{{
			URI:      params.URI,
			MimeType: "text/markdown",
			Text:     content,
		}},
	})
}
