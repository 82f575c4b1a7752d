package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/aidanlsb/planvault/internal/vault"
)

// FaultyGateway wraps a gateway, records every call and fails the ones
// registered with Fail.
type FaultyGateway struct {
	inner vault.Gateway

	mu    sync.Mutex
	calls []string
	fails map[string]error
}

// NewFaultyGateway wraps inner.
func NewFaultyGateway(inner vault.Gateway) *FaultyGateway {
	return &FaultyGateway{inner: inner, fails: map[string]error{}}
}

// Fail makes op ("list", "listdir", "get", "put", "delete") on path return err.
// An empty path matches every path.
func (g *FaultyGateway) Fail(op, path string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fails[op+" "+path] = err
}

// Calls returns "op path" for every call made so far.
func (g *FaultyGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallsWithOp returns the recorded calls for one operation.
func (g *FaultyGateway) CallsWithOp(op string) []string {
	var out []string
	for _, c := range g.Calls() {
		if strings.HasPrefix(c, op+" ") {
			out = append(out, strings.TrimPrefix(c, op+" "))
		}
	}
	return out
}

func (g *FaultyGateway) record(op, path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, op+" "+path)
	if err, ok := g.fails[op+" "+path]; ok {
		return err
	}
	if err, ok := g.fails[op+" "]; ok {
		return err
	}
	return nil
}

func (g *FaultyGateway) ListFiles(ctx context.Context) ([]string, error) {
	if err := g.record("list", ""); err != nil {
		return nil, err
	}
	return g.inner.ListFiles(ctx)
}

func (g *FaultyGateway) ListDirectory(ctx context.Context, dir string) ([]string, error) {
	if err := g.record("listdir", dir); err != nil {
		return nil, err
	}
	return g.inner.ListDirectory(ctx, dir)
}

func (g *FaultyGateway) GetFile(ctx context.Context, path string) (string, error) {
	if err := g.record("get", path); err != nil {
		return "", err
	}
	return g.inner.GetFile(ctx, path)
}

func (g *FaultyGateway) CreateOrUpdateFile(ctx context.Context, path, content string) error {
	if err := g.record("put", path); err != nil {
		return err
	}
	return g.inner.CreateOrUpdateFile(ctx, path, content)
}

func (g *FaultyGateway) DeleteFile(ctx context.Context, path string) error {
	if err := g.record("delete", path); err != nil {
		return err
	}
	return g.inner.DeleteFile(ctx, path)
}

var _ vault.Gateway = (*FaultyGateway)(nil)
