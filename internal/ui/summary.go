// Package ui renders the end-of-run summary banner.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/junup/internal/upgrade"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorDim    = lipgloss.Color("#6b7280")

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	failedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

const bannerWidth = 60

// Summary renders the terminal outcome of a run as a banner. Styling is
// dropped when stdout is not a terminal so logs stay grep-friendly.
func Summary(result upgrade.Result) string {
	styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return render(result, styled)
}

func render(result upgrade.Result, styled bool) string {
	headline, style := headlineFor(result.Outcome)

	var b strings.Builder
	rule := strings.Repeat("=", bannerWidth)

	b.WriteString(rule + "\n")
	if styled {
		b.WriteString(style.Render(center(headline)) + "\n")
	} else {
		b.WriteString(center(headline) + "\n")
	}
	b.WriteString(rule + "\n")

	for _, line := range detailLines(result) {
		if styled {
			b.WriteString(detailStyle.Render(line) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func headlineFor(outcome upgrade.Outcome) (string, lipgloss.Style) {
	switch outcome {
	case upgrade.OutcomeSuccess:
		return "UPGRADE COMPLETED SUCCESSFULLY", successStyle
	case upgrade.OutcomeAlreadyUpToDate:
		return "DEVICE ALREADY UP TO DATE", successStyle
	case upgrade.OutcomeVersionMismatch:
		return "UPGRADE COMPLETED WITH VERSION MISMATCH", warningStyle
	case upgrade.OutcomeInterrupted:
		return "UPGRADE PROCESS INTERRUPTED", warningStyle
	case upgrade.OutcomeConnectionFailed:
		return "DEVICE CONNECTION FAILED", failedStyle
	case upgrade.OutcomeImageCopyFailed:
		return "IMAGE COPY FAILED", failedStyle
	case upgrade.OutcomeInstallFailed:
		return "IMAGE INSTALLATION FAILED", failedStyle
	case upgrade.OutcomeRebootTimedOut:
		return "DEVICE REBOOT FAILED", failedStyle
	default:
		return "UPGRADE PROCESS FAILED", failedStyle
	}
}

func detailLines(result upgrade.Result) []string {
	var lines []string
	if result.OldVersion != "" {
		lines = append(lines, "previous version: "+result.OldVersion)
	}
	if result.NewVersion != "" && result.NewVersion != result.OldVersion {
		lines = append(lines, "running version:  "+result.NewVersion)
	}
	if result.Message != "" {
		lines = append(lines, result.Message)
	}
	return lines
}

func center(s string) string {
	if len(s) >= bannerWidth {
		return s
	}
	pad := (bannerWidth - len(s)) / 2
	return fmt.Sprintf("%*s%s", pad, "", s)
}
