// Package orchestrator drives the renewal window state machine:
// check the certificate, open the window if renewal is due, attempt the
// renewal, and always restore the secure baseline afterwards.
//
// The restoration pass is the one hard guarantee of the whole tool. It
// runs exactly once per run, on every path out of the state machine:
// normal completion, remote failure, parse failure, or a termination
// signal. It runs on a context detached from the cancellation that may
// have triggered it, so an operator pressing Ctrl-C twice cannot leave
// the gateway open.
package orchestrator

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/expiry"
	"github.com/ksyq12/certgate/internal/gateway"
	"github.com/ksyq12/certgate/internal/remote"
)

// State identifies the orchestrator's position in the run.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateOpening
	StateActing
	StateClosing
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateOpening:
		return "opening"
	case StateActing:
		return "acting"
	case StateClosing:
		return "closing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// closeTimeout bounds the restoration pass so a wedged reload command
// cannot hang the process forever after cancellation.
const closeTimeout = 60 * time.Second

// Orchestrator runs one renewal window. Not reusable: one instance per
// invocation.
type Orchestrator struct {
	store     gateway.Store
	client    remote.ActionClient
	label     string
	threshold int
	lockPath  string
	logger    *zap.Logger

	now       func() time.Time
	closeOnce sync.Once
	state     State
}

// New creates an orchestrator for a single run.
func New(store gateway.Store, client remote.ActionClient, label string, thresholdDays int, lockPath string, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		client:    client,
		label:     label,
		threshold: thresholdDays,
		lockPath:  lockPath,
		logger:    logger,
		now:       time.Now,
		state:     StateIdle,
	}
}

// Run drives the state machine to completion. The returned error covers
// only failures before the machine starts (the run lock); everything
// past that point is recorded in the Outcome so the restoration pass can
// still run.
func (o *Orchestrator) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{Cause: CauseNormal}

	lock, err := acquireLock(o.lockPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			o.logger.Warn("failed to release run lock", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	closeNeeded := true
	defer func() {
		if closeNeeded {
			o.closeWindow(ctx, out)
		}
	}()

	o.transition(StateChecking)
	raw, err := o.client.Invoke(ctx, remote.ActionCheck)
	if err != nil {
		o.logger.Error("certificate check failed",
			zap.Error(err),
			zap.String("output", raw),
		)
		out.setErr(classifyRemote(ctx), err)
		return out, nil
	}

	status, err := expiry.Decide(raw, o.now(), o.threshold)
	if err != nil {
		o.logger.Error("cannot parse certificate status",
			zap.Error(err),
			zap.String("output", raw),
		)
		out.setErr(CauseParseFailure, err)
		return out, nil
	}

	out.Decision = status.Decision.String()
	out.Expiry = status.Expiry
	out.DaysRemaining = status.DaysRemaining
	o.logger.Info("renewal decision",
		zap.String("decision", status.Decision.String()),
		zap.Time("expiry", status.Expiry),
		zap.Int("days_remaining", status.DaysRemaining),
		zap.Int("threshold_days", o.threshold),
	)

	if status.Decision == expiry.NotDue {
		// The window was never opened; nothing to restore, no reload.
		closeNeeded = false
		o.transition(StateDone)
		return out, nil
	}

	o.transition(StateOpening)
	if err := o.store.ToggleGeoBlock(gateway.Open); err != nil {
		o.logger.Error("failed to open geo filter", zap.Error(err))
		out.OpenFailed = true
		out.setErr(CauseConfigError, err)
	}
	if err := o.store.ToggleForwardRule(o.label, gateway.Open); err != nil {
		o.logger.Error("failed to open forward rule",
			zap.String("label", o.label),
			zap.Error(err),
		)
		out.OpenFailed = true
		out.setErr(CauseConfigError, err)
	}
	if err := o.store.Commit(ctx); err != nil {
		o.logger.Error("failed to commit window open", zap.Error(err))
		out.OpenFailed = true
		out.setErr(CauseConfigError, err)
	}

	// Proceed even after partial opening failures: restoration runs
	// either way, and the renewal attempt may still get through.
	o.transition(StateActing)
	if ctx.Err() != nil {
		out.setErr(CauseSignal, ctx.Err())
		return out, nil
	}

	out.RenewalAttempted = true
	renewOut, err := o.client.Invoke(ctx, remote.ActionRenew)
	if err != nil {
		o.logger.Error("renewal attempt failed",
			zap.Error(err),
			zap.String("output", renewOut),
		)
		out.setErr(classifyRemote(ctx), err)
		return out, nil
	}

	out.RenewalSucceeded = true
	o.logger.Info("renewal succeeded", zap.String("output", renewOut))
	return out, nil
}

// closeWindow restores the secure baseline: forward rule disabled, geo
// filter enabled, engine reloaded. Idempotent toggles make it safe on
// paths where the window never opened. Failures are logged as critical
// and surface in the outcome, but are not retried within the run; the
// next scheduled invocation converges.
func (o *Orchestrator) closeWindow(ctx context.Context, out *Outcome) {
	o.closeOnce.Do(func() {
		o.transition(StateClosing)

		// Restoration must survive the very cancellation that may have
		// triggered it.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()

		failed := false
		if err := o.store.ToggleForwardRule(o.label, gateway.Closed); err != nil {
			o.logger.Error("CRITICAL: failed to close forward rule",
				zap.String("label", o.label),
				zap.Error(err),
			)
			failed = true
		}
		if err := o.store.ToggleGeoBlock(gateway.Closed); err != nil {
			o.logger.Error("CRITICAL: failed to close geo filter", zap.Error(err))
			failed = true
		}
		if err := o.store.Commit(cctx); err != nil {
			o.logger.Error("CRITICAL: failed to commit window close", zap.Error(err))
			failed = true
		}

		if failed {
			out.CloseFailed = true
			o.logger.Error("gateway may be in degraded security posture; next run will retry restoration")
		} else {
			o.logger.Info("security baseline restored")
		}
		o.transition(StateDone)
	})
}

// classifyRemote tells a genuine remote failure apart from a run cut
// short by a signal.
func classifyRemote(ctx context.Context) Cause {
	if ctx.Err() != nil {
		return CauseSignal
	}
	return CauseRemoteFailure
}

func (o *Orchestrator) transition(s State) {
	o.logger.Debug("state transition",
		zap.String("from", o.state.String()),
		zap.String("to", s.String()),
	)
	o.state = s
}
