package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ksyq12/certgate/internal/config"
	"github.com/ksyq12/certgate/internal/errors"
	"github.com/ksyq12/certgate/internal/executor"
)

// State describes the renewal window from the gateway's point of view.
type State int

const (
	// Closed is the secure baseline: geo filter on, forward rule disabled.
	Closed State = iota
	// Open is the relaxed window: geo filter off, forward rule enabled.
	Open
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Store is the interface the orchestrator drives. Toggles stage edits on
// disk; Commit activates all pending edits as one unit by reloading the
// filtering engine.
type Store interface {
	// ToggleGeoBlock sets the geo-block filter for the desired window
	// state. Idempotent: a no-op success if already in that state.
	ToggleGeoBlock(desired State) error

	// ToggleForwardRule sets the enabled field of the unique eligible
	// record whose remark matches label. Idempotent. Zero or ambiguous
	// matches fail with ErrRuleNotFound and leave the file untouched.
	ToggleForwardRule(label string, desired State) error

	// GeoBlockState reports the current window state of the geo filter.
	GeoBlockState() (State, error)

	// ForwardRuleState reports the current window state of the rule.
	ForwardRuleState(label string) (State, error)

	// Commit reloads the filtering engine so staged edits take effect.
	Commit(ctx context.Context) error
}

// FileStore implements Store against the gateway's on-disk config files.
type FileStore struct {
	geoPath   string
	geoKey    string
	rulePath  string
	reloadCmd []string
	runner    executor.CommandRunner
	logger    *zap.Logger
}

// NewFileStore creates a FileStore from the gateway config.
func NewFileStore(cfg config.GatewayConfig, logger *zap.Logger) *FileStore {
	return NewFileStoreWithRunner(cfg, executor.NewSystemRunner(), logger)
}

// NewFileStoreWithRunner creates a FileStore with a custom command
// runner (for testing).
func NewFileStoreWithRunner(cfg config.GatewayConfig, runner executor.CommandRunner, logger *zap.Logger) *FileStore {
	return &FileStore{
		geoPath:   cfg.GeoFilterFile,
		geoKey:    cfg.GeoFilterKey,
		rulePath:  cfg.ForwardRuleFile,
		reloadCmd: cfg.ReloadCommand,
		runner:    runner,
		logger:    logger,
	}
}

// Commit runs the filtering engine's reload command. Failure is reported
// but does not roll back already-staged edits; the files on disk are the
// durable state and the next reload picks them up.
func (s *FileStore) Commit(ctx context.Context) error {
	out, err := s.runner.Run(ctx, s.reloadCmd[0], s.reloadCmd[1:]...)
	if err != nil {
		s.logger.Error("filter reload failed",
			zap.Strings("command", s.reloadCmd),
			zap.ByteString("output", out),
			zap.Error(err),
		)
		return errors.Wrap(errors.ErrCodeConfig,
			fmt.Sprintf("filter reload failed: %s", string(out)), err)
	}
	s.logger.Info("filter engine reloaded", zap.Strings("command", s.reloadCmd))
	return nil
}

// writeFileAtomic stages data next to path and atomically replaces the
// original. The original file is untouched unless every step succeeds.
// An empty result is refused outright: no edit in this package can
// legitimately produce an empty control file.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	if len(data) == 0 {
		return errors.WriteFailed(path, fmt.Errorf("refusing to write empty file"))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".stage-*")
	if err != nil {
		return errors.WriteFailed(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WriteFailed(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WriteFailed(path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WriteFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WriteFailed(path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WriteFailed(path, err)
	}
	return nil
}

// readControlFile reads a control file and returns its content plus the
// existing mode so edits preserve permissions.
func readControlFile(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, errors.WrapTarget(errors.ErrCodeConfig, "control file not readable", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.WrapTarget(errors.ErrCodeConfig, "control file not readable", path, err)
	}
	return data, info.Mode().Perm(), nil
}
