package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/junup/internal/upgrade"
)

func TestRender_Success(t *testing.T) {
	out := render(upgrade.Result{
		Outcome:    upgrade.OutcomeSuccess,
		OldVersion: "22.4R3.12",
		NewVersion: "24.2R2.18",
	}, false)

	assert.Contains(t, out, "UPGRADE COMPLETED SUCCESSFULLY")
	assert.Contains(t, out, "previous version: 22.4R3.12")
	assert.Contains(t, out, "running version:  24.2R2.18")
}

func TestRender_AlreadyUpToDate_NoDuplicateVersionLine(t *testing.T) {
	out := render(upgrade.Result{
		Outcome:    upgrade.OutcomeAlreadyUpToDate,
		OldVersion: "24.2R2.18",
		NewVersion: "24.2R2.18",
	}, false)

	assert.Contains(t, out, "DEVICE ALREADY UP TO DATE")
	assert.Equal(t, 1, strings.Count(out, "24.2R2.18"))
}

func TestRender_FailureHeadlines(t *testing.T) {
	cases := map[upgrade.Outcome]string{
		upgrade.OutcomeConnectionFailed: "DEVICE CONNECTION FAILED",
		upgrade.OutcomeImageCopyFailed:  "IMAGE COPY FAILED",
		upgrade.OutcomeInstallFailed:    "IMAGE INSTALLATION FAILED",
		upgrade.OutcomeRebootTimedOut:   "DEVICE REBOOT FAILED",
		upgrade.OutcomeVersionMismatch:  "UPGRADE COMPLETED WITH VERSION MISMATCH",
		upgrade.OutcomeInterrupted:      "UPGRADE PROCESS INTERRUPTED",
		upgrade.OutcomeFailed:           "UPGRADE PROCESS FAILED",
	}

	for outcome, headline := range cases {
		out := render(upgrade.Result{Outcome: outcome}, false)
		assert.Contains(t, out, headline, outcome)
	}
}

func TestRender_PlainHasNoEscapeCodes(t *testing.T) {
	out := render(upgrade.Result{Outcome: upgrade.OutcomeSuccess, Message: "done"}, false)

	assert.NotContains(t, out, "\x1b[")
}
