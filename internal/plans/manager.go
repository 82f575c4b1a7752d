// Package plans manages the lifecycle of technical plan documents in a vault.
//
// Plans live in three sibling folders under one root:
//
//	Technical Plans/Inbox     new plans
//	Technical Plans/Reviewed  plans stamped with review_date
//	Technical Plans/Archive   terminal
//
// The only structured state is each document's frontmatter; a plan's state is
// the folder that holds it. The vault offers no rename, so a transition is a
// two-phase move: write the destination, then delete the source. A failure
// between the phases leaves a duplicate rather than losing the plan, and
// listings resolve duplicates by keeping the most terminal copy.
//
// The Manager assumes it is the only writer to the managed folders. Calls are
// sequential and unlocked; callers serialize operations on a given filename.
package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/dates"
	"github.com/aidanlsb/planvault/internal/frontmatter"
	"github.com/aidanlsb/planvault/internal/markdown"
	"github.com/aidanlsb/planvault/internal/vault"
)

// Manager owns the Inbox/Reviewed/Archive state machine.
type Manager struct {
	gw     vault.Gateway
	layout Layout
	codec  frontmatter.Codec
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLayout sets the managed folder names. Empty names keep their defaults.
func WithLayout(l Layout) Option {
	return func(m *Manager) { m.layout = l.WithDefaults() }
}

// WithCodec swaps the frontmatter codec.
func WithCodec(c frontmatter.Codec) Option {
	return func(m *Manager) {
		if c != nil {
			m.codec = c
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLocation sets the time zone that defines "today". Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager over gw.
func New(gw vault.Gateway, opts ...Option) *Manager {
	m := &Manager{
		gw:     gw,
		layout: DefaultLayout(),
		codec:  frontmatter.LineCodec{},
		now:    time.Now,
		loc:    time.UTC,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Layout returns the managed folder layout.
func (m *Manager) Layout() Layout {
	return m.layout
}

func (m *Manager) today() string {
	return dates.Format(m.now(), m.loc)
}

// Plan is a managed document.
type Plan struct {
	Filename string              `json:"filename"`
	Path     string              `json:"path"`
	Folder   Folder              `json:"folder"`
	Title    string              `json:"title,omitempty"`
	Metadata *frontmatter.Fields `json:"metadata"`
	Body     string              `json:"body"`
}

// InitializeStructure makes sure every managed folder exists by writing a
// marker file into folders that are missing or empty. Only the three managed
// folders are listed, so the cost does not grow with the vault. It is
// idempotent. Every failure is wrapped and returned; callers may treat
// initialization as best-effort.
func (m *Manager) InitializeStructure(ctx context.Context) error {
	var errs []error
	for _, f := range Folders {
		dir := m.layout.Dir(f)
		entries, err := m.gw.ListDirectory(ctx, dir)
		if err != nil && !errors.Is(err, vault.ErrNotFound) {
			errs = append(errs, fmt.Errorf("initialize %s folder: list %s: %w", f.Title(), dir, err))
			continue
		}
		if len(entries) > 0 {
			continue
		}

		marker := vault.Join(dir, m.layout.Marker)
		if err := m.gw.CreateOrUpdateFile(ctx, marker, ""); err != nil {
			errs = append(errs, fmt.Errorf("initialize %s folder: write %s: %w", f.Title(), marker, err))
			continue
		}
		m.logger.Info("created plan folder", zap.String("folder", dir))
	}
	return errors.Join(errs...)
}

// CreateTechnicalPlan writes a new plan into the Inbox and returns its path.
//
// Missing metadata defaults to priority Medium, type Design, source Other LLM
// and created today. A supplied ReviewDate is discarded. The filename is
// "{today}_{project}_{type}.md"; a plan with the same name is overwritten.
func (m *Manager) CreateTechnicalPlan(ctx context.Context, body string, meta PlanMetadata) (string, error) {
	today := m.today()
	// review_date marks a plan that has been through Reviewed; new plans never carry it.
	if meta.ReviewDate != "" {
		m.logger.Debug("dropping review_date from new plan", zap.String("review_date", meta.ReviewDate))
		meta.ReviewDate = ""
	}
	meta = meta.withDefaults(today)
	if err := meta.Validate(); err != nil {
		return "", err
	}

	filename := Filename(today, meta.Project, meta.Type)
	target := m.layout.PlanPath(Inbox, filename)

	if _, err := m.gw.GetFile(ctx, target); err == nil {
		m.logger.Warn("overwriting existing plan", zap.String("path", target))
	}

	content := frontmatter.Compose(m.codec, meta.Fields(), body)
	if err := m.gw.CreateOrUpdateFile(ctx, target, content); err != nil {
		return "", fmt.Errorf("create plan %s: %w", target, err)
	}

	m.logger.Info("created plan", zap.String("path", target), zap.String("project", meta.Project))
	return target, nil
}

// MarkReviewed moves a plan from the Inbox to Reviewed and stamps review_date
// with today's date. Plans outside the Inbox are not found.
func (m *Manager) MarkReviewed(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	source := m.layout.PlanPath(Inbox, filename)
	content, err := m.gw.GetFile(ctx, source)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return &NotFoundError{Filename: filename, Folders: []Folder{Inbox}}
		}
		return fmt.Errorf("mark %s reviewed: %w", filename, err)
	}

	fields, body, err := m.codec.Parse(content)
	if err != nil {
		return fmt.Errorf("mark %s reviewed: %w", filename, err)
	}
	fields.Set(KeyReviewDate, m.today())

	dest := m.layout.PlanPath(Reviewed, filename)
	if err := m.move(ctx, source, dest, frontmatter.Compose(m.codec, fields, body)); err != nil {
		return fmt.Errorf("mark %s reviewed: %w", filename, err)
	}

	m.logger.Info("plan reviewed", zap.String("filename", filename))
	return nil
}

// ArchivePlan moves a plan from the Inbox or Reviewed (searched in that
// order) into the Archive, byte for byte.
func (m *Manager) ArchivePlan(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	searched := []Folder{Inbox, Reviewed}
	for _, f := range searched {
		ok, err := m.archiveFrom(ctx, f, filename)
		if err != nil {
			return fmt.Errorf("archive %s: %w", filename, err)
		}
		if ok {
			return nil
		}
	}
	return &NotFoundError{Filename: filename, Folders: searched}
}

// archiveFrom archives the copy held by folder. It reports false when the
// folder has no such plan.
func (m *Manager) archiveFrom(ctx context.Context, folder Folder, filename string) (bool, error) {
	source := m.layout.PlanPath(folder, filename)
	content, err := m.gw.GetFile(ctx, source)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := m.move(ctx, source, m.layout.PlanPath(Archive, filename), content); err != nil {
		return false, err
	}

	m.logger.Info("plan archived", zap.String("filename", filename), zap.String("from", string(folder)))
	return true, nil
}

// move writes content to dest, then deletes source. A source that is already
// gone counts as deleted. If the delete fails the destination copy is kept
// and a *MoveError is returned.
func (m *Manager) move(ctx context.Context, source, dest, content string) error {
	if err := m.gw.CreateOrUpdateFile(ctx, dest, content); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err := m.gw.DeleteFile(ctx, source); err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			m.logger.Debug("source already removed", zap.String("path", source))
			return nil
		}
		m.logger.Warn("move left a duplicate",
			zap.String("from", source), zap.String("to", dest), zap.Error(err))
		return &MoveError{From: source, To: dest, Err: err}
	}
	return nil
}

// GetPlan returns the first readable copy of filename, searching Inbox,
// Reviewed, then Archive.
func (m *Manager) GetPlan(ctx context.Context, filename string) (*Plan, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	var lastErr error
	for _, f := range Folders {
		p := m.layout.PlanPath(f, filename)
		content, err := m.gw.GetFile(ctx, p)
		if err != nil {
			if !errors.Is(err, vault.ErrNotFound) {
				lastErr = err
				m.logger.Debug("plan not readable", zap.String("path", p), zap.Error(err))
			}
			continue
		}

		fields, body, err := m.codec.Parse(content)
		if err != nil {
			lastErr = err
			m.logger.Debug("plan frontmatter not decodable", zap.String("path", p), zap.Error(err))
			continue
		}

		return &Plan{
			Filename: filename,
			Path:     p,
			Folder:   f,
			Title:    markdown.Title(body),
			Metadata: fields,
			Body:     body,
		}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("get plan %s: %w", filename, lastErr)
	}
	return nil, &NotFoundError{Filename: filename, Folders: Folders}
}

// GetPlanMetadata returns the frontmatter of the first decodable copy of
// filename, or nil when no folder holds it.
func (m *Manager) GetPlanMetadata(ctx context.Context, filename string) (*frontmatter.Fields, error) {
	plan, err := m.GetPlan(ctx, filename)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return plan.Metadata, nil
}

// ReadPlan returns the raw document held by folder, frontmatter included.
func (m *Manager) ReadPlan(ctx context.Context, folder Folder, filename string) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	f, err := ParseFolder(string(folder))
	if err != nil {
		return "", err
	}

	content, err := m.gw.GetFile(ctx, m.layout.PlanPath(f, filename))
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			return "", &NotFoundError{Filename: filename, Folders: []Folder{f}}
		}
		return "", fmt.Errorf("read plan %s: %w", filename, err)
	}
	return content, nil
}
