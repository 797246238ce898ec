package upgrade

// Outcome is the terminal result of one upgrade run. Exactly one outcome is
// produced per run and it alone decides the process exit code.
type Outcome string

const (
	// OutcomeAlreadyUpToDate means the device already ran the expected
	// version; nothing was staged, installed, or rebooted.
	OutcomeAlreadyUpToDate Outcome = "already-up-to-date"
	// OutcomeSuccess means the full sequence completed and the post-reboot
	// version matched the expected prefix.
	OutcomeSuccess Outcome = "success"
	// OutcomeConnectionFailed means the initial session could not be opened.
	OutcomeConnectionFailed Outcome = "connection-failed"
	// OutcomeImageCopyFailed means staging the image failed, either because
	// the local file is missing or the transfer was rejected.
	OutcomeImageCopyFailed Outcome = "image-copy-failed"
	// OutcomeInstallFailed means the device rejected the package.
	OutcomeInstallFailed Outcome = "install-failed"
	// OutcomeRebootTimedOut means the device did not come back within the
	// reboot-wait budget.
	OutcomeRebootTimedOut Outcome = "reboot-timed-out"
	// OutcomeVersionMismatch means the upgrade mechanically completed but
	// the device reports an unexpected version.
	OutcomeVersionMismatch Outcome = "version-mismatch"
	// OutcomeInterrupted means the operator cancelled the run.
	OutcomeInterrupted Outcome = "interrupted"
	// OutcomeFailed covers unexpected errors outside the modeled branches.
	OutcomeFailed Outcome = "failed"
)

func (o Outcome) String() string { return string(o) }

// Succeeded reports whether the run ended in a good terminal state.
func (o Outcome) Succeeded() bool {
	return o == OutcomeAlreadyUpToDate || o == OutcomeSuccess
}

// ExitCode maps the outcome to the process exit code: 0 for the two good
// states, 1 for everything else including interruption.
func (o Outcome) ExitCode() int {
	if o.Succeeded() {
		return 0
	}
	return 1
}
