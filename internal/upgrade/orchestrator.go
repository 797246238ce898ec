// Package upgrade contains the upgrade orchestration state machine: the
// ordered sequence of remote operations, the gates between them, the
// reboot-wait polling, and the policy that classifies failures into
// terminal outcomes.
package upgrade

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/junup/internal/config"
	"github.com/imamik/junup/internal/device"
	"github.com/imamik/junup/internal/util/poll"
)

// Phase names, in execution order.
const (
	phaseConnect    = "connect"
	phaseVersion    = "version-check"
	phaseStage      = "stage"
	phaseInstall    = "install"
	phaseRebootWait = "reboot-wait"
	phaseVerify     = "verify"
)

// Capabilities is the remote-operation surface the orchestrator drives.
type Capabilities interface {
	device.FactsReader
	device.FileManager
	device.Installer
}

// Result is the terminal state of one run.
type Result struct {
	Outcome    Outcome
	Message    string
	OldVersion string
	NewVersion string
}

// Orchestrator drives a single device through the upgrade sequence:
// connect, version check, stage, install+reboot, reconnect, verify. It
// always reaches exactly one terminal outcome and closes every session it
// opened, on every path.
type Orchestrator struct {
	Device   Capabilities
	Sessions *SessionManager
	Observer Observer
}

// New creates an Orchestrator. A nil observer is replaced by NopObserver.
func New(dev Capabilities, sessions *SessionManager, observer Observer) *Orchestrator {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Orchestrator{Device: dev, Sessions: sessions, Observer: observer}
}

// Run executes the upgrade sequence. Errors never escape; anything outside
// the modeled failure branches is recovered and mapped to OutcomeFailed.
func (o *Orchestrator) Run(ctx context.Context, req config.Request) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			o.Observer.Printf("unexpected failure during upgrade: %v", r)
			result = Result{Outcome: OutcomeFailed, Message: fmt.Sprint(r)}
		}
		o.Observer.Event(Event{
			Type:    EventOutcome,
			Message: string(result.Outcome),
			Fields: map[string]string{
				"old_version": result.OldVersion,
				"new_version": result.NewVersion,
			},
		})
	}()

	return o.run(ctx, req)
}

func (o *Orchestrator) run(ctx context.Context, req config.Request) Result {
	creds := device.Credentials{Host: req.Host, User: req.User, Password: req.Password}

	o.phaseStart(phaseConnect, "connecting to "+req.Host)
	sess, err := o.Sessions.Connect(ctx, creds)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res
		}
		o.phaseFail(phaseConnect, err)
		return Result{Outcome: OutcomeConnectionFailed, Message: err.Error()}
	}
	o.phaseDone(phaseConnect, "connected to "+req.Host)

	res, oldVersion, rebooting := o.preReboot(ctx, sess, req)
	if !rebooting {
		return res
	}

	return o.postReboot(ctx, creds, req, oldVersion)
}

// preReboot covers everything on the first session: version check, staging,
// install, and the reboot trigger. The session is closed before returning
// on every path. rebooting reports whether the device was told to reboot.
func (o *Orchestrator) preReboot(ctx context.Context, sess device.Session, req config.Request) (res Result, oldVersion string, rebooting bool) {
	defer o.Sessions.Close(sess)

	// Connected -> VersionChecked
	facts, err := o.Device.ReadFacts(ctx, sess)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res, "", false
		}
		o.phaseFail(phaseVersion, err)
		return Result{Outcome: OutcomeFailed, Message: err.Error()}, "", false
	}
	oldVersion = facts.Version
	o.Observer.Printf("current version: %s", facts.Version)

	if strings.HasPrefix(facts.Version, req.ExpectedVersion) {
		o.Observer.Event(Event{
			Type:    EventPhaseSkipped,
			Phase:   phaseVersion,
			Message: "device is already on the expected version, no upgrade needed",
		})
		return Result{Outcome: OutcomeAlreadyUpToDate, OldVersion: oldVersion, NewVersion: oldVersion}, oldVersion, false
	}

	// VersionChecked -> ImageStaged
	if res, ok := o.stage(ctx, sess, req); !ok {
		return res, oldVersion, false
	}

	// ImageStaged -> Installed -> Rebooting
	o.phaseStart(phaseInstall, "installing "+req.RemoteImagePath()+" (this may take several minutes)")
	ok, msg, err := o.Device.Install(ctx, sess, req.ImageName, req.RemotePath)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res, oldVersion, false
		}
		o.phaseFail(phaseInstall, err)
		return Result{Outcome: OutcomeInstallFailed, Message: err.Error(), OldVersion: oldVersion}, oldVersion, false
	}
	if !ok {
		o.phaseFail(phaseInstall, fmt.Errorf("device rejected the package: %s", msg))
		return Result{Outcome: OutcomeInstallFailed, Message: msg, OldVersion: oldVersion}, oldVersion, false
	}
	o.phaseDone(phaseInstall, "installation successful: "+msg)

	// Install success and the reboot trigger are one step; the device is
	// never left installed but not rebooted.
	o.Observer.Printf("initiating reboot")
	if err := o.Device.Reboot(ctx, sess); err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res, oldVersion, false
		}
		o.phaseFail(phaseInstall, fmt.Errorf("reboot trigger failed: %w", err))
		return Result{Outcome: OutcomeFailed, Message: err.Error(), OldVersion: oldVersion}, oldVersion, false
	}

	return Result{}, oldVersion, true
}

// stage ensures the image is present at the remote staging path, copying it
// only when absent. ok=false means the run is terminal.
func (o *Orchestrator) stage(ctx context.Context, sess device.Session, req config.Request) (Result, bool) {
	o.phaseStart(phaseStage, "checking for image at "+req.RemoteImagePath())

	listing, err := o.Device.List(ctx, sess, req.RemotePath)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res, false
		}
		// An unavailable listing means "nothing staged there"; the copy
		// below settles it either way.
		o.Observer.Printf("remote path %s not listable (%v), assuming image absent", req.RemotePath, err)
	}

	if listing.Contains(req.ImageName) {
		o.Observer.Event(Event{
			Type:    EventPhaseSkipped,
			Phase:   phaseStage,
			Message: "image already staged, copy skipped",
		})
		return Result{}, true
	}

	o.Observer.Printf("image not found on device, copying %s", req.LocalImagePath())
	if err := o.Device.Upload(ctx, sess, req.LocalImagePath(), req.RemotePath); err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res, false
		}
		o.phaseFail(phaseStage, err)
		return Result{Outcome: OutcomeImageCopyFailed, Message: err.Error()}, false
	}

	o.phaseDone(phaseStage, "image copy completed")
	return Result{}, true
}

// postReboot waits for the device to return, then re-reads and verifies the
// version. The probe session is closed before returning on every path.
func (o *Orchestrator) postReboot(ctx context.Context, creds device.Credentials, req config.Request, oldVersion string) Result {
	o.phaseStart(phaseRebootWait, "device is rebooting")

	sess, err := o.Sessions.ProbeUntilReachable(ctx, creds, req.RebootTimeout)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res
		}
		o.phaseFail(phaseRebootWait, err)
		if poll.IsDeadline(err) {
			return Result{Outcome: OutcomeRebootTimedOut, Message: err.Error(), OldVersion: oldVersion}
		}
		return Result{Outcome: OutcomeFailed, Message: err.Error(), OldVersion: oldVersion}
	}
	defer o.Sessions.Close(sess)
	o.phaseDone(phaseRebootWait, "device is back online")

	// Reconnected -> Verified. Facts are re-read on the new session; the
	// pre-reboot snapshot is stale by definition.
	o.phaseStart(phaseVerify, "verifying version")
	facts, err := o.Device.ReadFacts(ctx, sess)
	if err != nil {
		if res, ok := o.interrupted(ctx); ok {
			return res
		}
		o.phaseFail(phaseVerify, err)
		return Result{Outcome: OutcomeFailed, Message: err.Error(), OldVersion: oldVersion}
	}

	if !strings.HasPrefix(facts.Version, req.ExpectedVersion) {
		o.phaseFail(phaseVerify, fmt.Errorf("expected prefix %q but found %q", req.ExpectedVersion, facts.Version))
		return Result{
			Outcome:    OutcomeVersionMismatch,
			Message:    fmt.Sprintf("expected prefix %q but found %q", req.ExpectedVersion, facts.Version),
			OldVersion: oldVersion,
			NewVersion: facts.Version,
		}
	}

	o.phaseDone(phaseVerify, "version verification successful: "+facts.Version)
	return Result{Outcome: OutcomeSuccess, OldVersion: oldVersion, NewVersion: facts.Version}
}

// interrupted maps operator cancellation to its terminal outcome. It only
// fires when the context is done, so transport errors racing a cancel are
// still classified as interruption.
func (o *Orchestrator) interrupted(ctx context.Context) (Result, bool) {
	if err := ctx.Err(); err != nil {
		o.Observer.Printf("upgrade interrupted: %v", err)
		return Result{Outcome: OutcomeInterrupted, Message: err.Error()}, true
	}
	return Result{}, false
}

func (o *Orchestrator) phaseStart(phase, msg string) {
	o.Observer.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: msg})
}

func (o *Orchestrator) phaseDone(phase, msg string) {
	o.Observer.Event(Event{Type: EventPhaseCompleted, Phase: phase, Message: msg})
}

func (o *Orchestrator) phaseFail(phase string, err error) {
	o.Observer.Event(Event{Type: EventPhaseFailed, Phase: phase, Message: err.Error()})
}
