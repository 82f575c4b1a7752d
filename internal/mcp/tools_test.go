package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/planvault/internal/plans"
	"github.com/aidanlsb/planvault/internal/testutil"
)

// call invokes a tool directly and decodes its JSON text.
func call(t *testing.T, s *Server, name, args string) (toolResponse, map[string]any, bool) {
	t.Helper()
	text, isError := s.callTool(context.Background(), name, json.RawMessage(args))

	var resp toolResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp), text)
	data, _ := resp.Data.(map[string]any)
	return resp, data, isError
}

func newToolServer(t *testing.T, v *testutil.TestVault) *Server {
	t.Helper()
	return NewServer(newTestManager(v))
}

func TestCreateTechnicalPlanTool(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	s := newToolServer(t, v)

	resp, data, isError := call(t, s, "create_technical_plan",
		`{"content":"# Plan","project":"Test","type":"Architecture","priority":"High","source":"Claude Desktop"}`)
	require.False(t, isError)
	assert.True(t, resp.OK)
	assert.Equal(t, inboxDir+"2025-01-08_Test_Architecture.md", data["path"])
	v.AssertFileContains(inboxDir+"2025-01-08_Test_Architecture.md", "priority: High")
}

func TestCreateTechnicalPlanToolInvalid(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	s := newToolServer(t, v)

	tests := []struct {
		name string
		args string
	}{
		{name: "missing project", args: `{"content":"x"}`},
		{name: "bad priority", args: `{"content":"x","project":"P","priority":"Urgent"}`},
		{name: "wrong argument type", args: `{"content":1,"project":"P"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _, isError := call(t, s, "create_technical_plan", tt.args)
			assert.True(t, isError)
			assert.False(t, resp.OK)
			require.NotNil(t, resp.Error)
			assert.Equal(t, plans.CodeInvalidInput, resp.Error.Code)
		})
	}
}

func TestLifecycleTools(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(inboxDir+"a.md", "# A", "project", "X", "status", "Inbox").
		WithPlan(inboxDir+"b.md", "# B", "project", "Y").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "mark_plan_reviewed", `{"filename":"a.md"}`)
	require.False(t, isError)
	assert.Equal(t, "reviewed", data["folder"])
	v.AssertFileContains(reviewedDir+"a.md", "review_date: 2025-01-08")
	v.AssertFileNotExists(inboxDir + "a.md")

	_, data, isError = call(t, s, "archive_plan", `{"filename":"b.md"}`)
	require.False(t, isError)
	assert.Equal(t, "archive", data["folder"])
	v.AssertFileExists(archiveDir + "b.md")

	resp, _, isError := call(t, s, "mark_plan_reviewed", `{"filename":"b.md"}`)
	assert.True(t, isError)
	assert.Equal(t, plans.CodePlanNotFound, resp.Error.Code)
}

func TestGetPlanMetadataTool(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(reviewedDir+"a.md", "body", "project", "X", "priority", "Low").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "get_plan_metadata", `{"filename":"a.md"}`)
	require.False(t, isError)
	assert.Equal(t, map[string]any{"project": "X", "priority": "Low"}, data["metadata"])

	_, data, isError = call(t, s, "get_plan_metadata", `{"filename":"missing.md"}`)
	require.False(t, isError)
	assert.Nil(t, data["metadata"])
}

func TestGetPlanTool(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(archiveDir+"a.md", "# Title\ntext", "project", "X").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "get_plan", `{"filename":"a.md"}`)
	require.False(t, isError)
	assert.Equal(t, "archive", data["folder"])
	assert.Equal(t, "Title", data["title"])
	assert.Equal(t, "# Title\ntext", data["body"])

	resp, _, isError := call(t, s, "get_plan", `{"filename":"nope.md"}`)
	assert.True(t, isError)
	assert.Equal(t, plans.CodePlanNotFound, resp.Error.Code)
}

func TestListTechnicalPlansTool(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(inboxDir+"a.md", "", "project", "X").
		WithPlan(reviewedDir+"b.md", "", "project", "Y").
		WithPlan(archiveDir+"a.md", "", "project", "X").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "list_technical_plans", ``)
	require.False(t, isError)
	assert.EqualValues(t, 2, data["count"])

	_, data, isError = call(t, s, "list_technical_plans", `{"project":"Y"}`)
	require.False(t, isError)
	require.EqualValues(t, 1, data["count"])
	first := data["plans"].([]any)[0].(map[string]any)
	assert.Equal(t, "b.md", first["filename"])

	_, data, isError = call(t, s, "list_technical_plans", `{"folder":"inbox","project":"Z"}`)
	require.False(t, isError)
	assert.Equal(t, []any{}, data["plans"])

	resp, _, isError := call(t, s, "list_technical_plans", `{"folder":"drafts"}`)
	assert.True(t, isError)
	assert.Equal(t, plans.CodeInvalidInput, resp.Error.Code)
}

func TestArchiveOldReviewedTool(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(reviewedDir+"old.md", "", "review_date", "2024-11-01").
		WithPlan(reviewedDir+"new.md", "", "review_date", "2025-01-01").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "archive_old_reviewed", `{}`)
	require.False(t, isError)
	assert.EqualValues(t, 1, data["archived"])
	assert.EqualValues(t, DefaultDaysOld, data["days_old"])
	v.AssertFileExists(archiveDir + "old.md")
	v.AssertFileExists(reviewedDir + "new.md")

	_, data, isError = call(t, s, "archive_old_reviewed", `{"days_old":3}`)
	require.False(t, isError)
	assert.EqualValues(t, 1, data["archived"])
	v.AssertFileExists(archiveDir + "new.md")

	resp, _, isError := call(t, s, "archive_old_reviewed", `{"days_old":-1}`)
	assert.True(t, isError)
	assert.Equal(t, plans.CodeInvalidInput, resp.Error.Code)
}

func TestFindDuplicatePlansTool(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithPlan(inboxDir+"a.md", "", "project", "X").
		WithPlan(reviewedDir+"a.md", "", "project", "X").
		Build()
	s := newToolServer(t, v)

	_, data, isError := call(t, s, "find_duplicate_plans", ``)
	require.False(t, isError)
	dups := data["duplicates"].([]any)
	require.Len(t, dups, 1)
	assert.Equal(t, "reviewed", dups[0].(map[string]any)["kept"])
}

func TestUnknownTool(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	resp, _, isError := call(t, newToolServer(t, v), "delete_everything", `{}`)
	assert.True(t, isError)
	assert.Equal(t, plans.CodeInvalidInput, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "delete_everything")
}
