package plans

import (
	"context"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/frontmatter"
	"github.com/aidanlsb/planvault/internal/markdown"
	"github.com/aidanlsb/planvault/internal/vault"
)

// ListOptions filters ListTechnicalPlans. Zero values match everything.
type ListOptions struct {
	// Folder limits the listing to one folder.
	Folder Folder

	// Project matches by slug, so "Web App" matches "web-app".
	Project string

	// Type and Priority match case-insensitively.
	Type     string
	Priority string

	// IncludeDuplicates keeps every copy of a filename found in several folders.
	IncludeDuplicates bool
}

func (o ListOptions) filtersMetadata() bool {
	return o.Project != "" || o.Type != "" || o.Priority != ""
}

func (o ListOptions) matches(s PlanSummary) bool {
	if !o.filtersMetadata() {
		return true
	}
	if s.Metadata == nil {
		return false
	}
	if o.Project != "" && slug.Make(o.Project) != slug.Make(s.Metadata.Value(KeyProject)) {
		return false
	}
	if o.Type != "" && !strings.EqualFold(o.Type, s.Metadata.Value(KeyType)) {
		return false
	}
	if o.Priority != "" && !strings.EqualFold(o.Priority, s.Metadata.Value(KeyPriority)) {
		return false
	}
	return true
}

// PlanSummary is one entry of a listing. Metadata is nil when the document
// could not be read or decoded; Error then says why.
type PlanSummary struct {
	Filename string              `json:"filename"`
	Path     string              `json:"path"`
	Folder   Folder              `json:"folder"`
	Title    string              `json:"title,omitempty"`
	Metadata *frontmatter.Fields `json:"metadata,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// ListTechnicalPlans lists plans in the requested folder, or all three.
//
// A folder that cannot be listed contributes no plans. An entry that cannot
// be read or decoded is still returned, without metadata. Unless
// IncludeDuplicates is set, a filename present in several folders is
// reported once, from the most terminal folder.
func (m *Manager) ListTechnicalPlans(ctx context.Context, opts ListOptions) ([]PlanSummary, error) {
	folders := Folders
	if opts.Folder != "" {
		f, err := ParseFolder(string(opts.Folder))
		if err != nil {
			return nil, err
		}
		folders = []Folder{f}
	}

	var all []PlanSummary
	for _, f := range folders {
		all = append(all, m.listFolder(ctx, f)...)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if !opts.IncludeDuplicates {
		all = Deduplicate(all)
	}

	out := make([]PlanSummary, 0, len(all))
	for _, s := range all {
		if opts.matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Manager) listFolder(ctx context.Context, f Folder) []PlanSummary {
	dir := m.layout.Dir(f)
	entries, err := m.gw.ListDirectory(ctx, dir)
	if err != nil {
		m.logger.Debug("plan folder not listable", zap.String("folder", dir), zap.Error(err))
		return nil
	}

	var out []PlanSummary
	for _, entry := range entries {
		if vault.IsDirEntry(entry) {
			continue
		}
		name := path.Base(entry)
		if name == m.layout.Marker || !strings.HasSuffix(name, ".md") {
			continue
		}

		s := PlanSummary{Filename: name, Path: m.layout.PlanPath(f, name), Folder: f}
		content, err := m.gw.GetFile(ctx, s.Path)
		if err != nil {
			m.logger.Debug("plan not readable", zap.String("path", s.Path), zap.Error(err))
			s.Error = err.Error()
			out = append(out, s)
			continue
		}

		fields, body, err := m.codec.Parse(content)
		if err != nil {
			m.logger.Debug("plan frontmatter not decodable", zap.String("path", s.Path), zap.Error(err))
			s.Error = err.Error()
			out = append(out, s)
			continue
		}

		s.Metadata = fields
		s.Title = markdown.Title(body)
		out = append(out, s)
	}
	return out
}

// Deduplicate keeps one entry per filename, preferring Archive over
// Reviewed over Inbox. Order of the kept entries is preserved.
func Deduplicate(plans []PlanSummary) []PlanSummary {
	best := make(map[string]int, len(plans))
	for i, p := range plans {
		if j, ok := best[p.Filename]; !ok || p.Folder.rank() > plans[j].Folder.rank() {
			best[p.Filename] = i
		}
	}

	out := make([]PlanSummary, 0, len(best))
	for i, p := range plans {
		if best[p.Filename] == i {
			out = append(out, p)
		}
	}
	return out
}

// Duplicate is a filename held by more than one folder, typically left by an
// interrupted move.
type Duplicate struct {
	Filename string   `json:"filename"`
	Folders  []Folder `json:"folders"`

	// Kept is the folder whose copy listings report.
	Kept Folder `json:"kept"`
}

// FindDuplicates reports every filename present in more than one folder.
func (m *Manager) FindDuplicates(ctx context.Context) ([]Duplicate, error) {
	all, err := m.ListTechnicalPlans(ctx, ListOptions{IncludeDuplicates: true})
	if err != nil {
		return nil, err
	}

	var order []string
	byName := map[string]*Duplicate{}
	for _, s := range all {
		d, ok := byName[s.Filename]
		if !ok {
			d = &Duplicate{Filename: s.Filename, Kept: s.Folder}
			byName[s.Filename] = d
			order = append(order, s.Filename)
		}
		d.Folders = append(d.Folders, s.Folder)
		if s.Folder.rank() > d.Kept.rank() {
			d.Kept = s.Folder
		}
	}

	var out []Duplicate
	for _, name := range order {
		if d := byName[name]; len(d.Folders) > 1 {
			m.logger.Debug("duplicate plan", zap.String("filename", name), zap.String("kept", string(d.Kept)))
			out = append(out, *d)
		}
	}
	return out, nil
}
