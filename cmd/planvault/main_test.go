package main_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aidanlsb/planvault/internal/testutil"
)

func TestPlanLifecycleEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	v := testutil.NewCLIVault(t)

	v.Run("init").MustSucceed(t)
	assert.True(t, v.FileExists("Technical Plans/Inbox/.keep"))

	path := v.RunWithStdin("# Rollout\n\nSteps", "new", "--project", "api", "--file", "-").
		MustSucceed(t).DataString("path")
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, "Technical Plans/Inbox/"+today+"_api_Design.md", path)

	filename := strings.TrimPrefix(path, "Technical Plans/Inbox/")
	v.Run("review", filename).MustSucceed(t)
	assert.True(t, v.FileExists("Technical Plans/Reviewed/"+filename))

	v.Run("archive", filename).MustSucceed(t)
	assert.True(t, v.FileExists("Technical Plans/Archive/"+filename))

	v.Run("review", filename).MustFail(t, "PLAN_NOT_FOUND")
}

func TestInvalidInputExitsNonZero(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	v := testutil.NewCLIVault(t)

	v.Run("new", "--priority", "Urgent", "body").MustFail(t, "INVALID_INPUT")
	v.Run("list", "--folder", "drafts").MustFail(t, "INVALID_INPUT")
}
