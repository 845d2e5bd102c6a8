package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ksyq12/certgate/internal/errors"
)

// runLock is an exclusive flock held for the entire state machine,
// including the restoration pass. The scheduling discipline guarantees
// non-overlap externally; the lock is the local enforcement of it.
type runLock struct {
	file *os.File
	path string
}

// acquireLock takes the exclusive run lock without blocking. A lock held
// by another invocation yields ErrLockHeld.
func acquireLock(path string) (*runLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.WrapTarget(errors.ErrCodeLock, "cannot create lock directory", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.WrapTarget(errors.ErrCodeLock, "cannot open lock file", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			target := path
			if pid, perr := holderPID(path); perr == nil {
				target = fmt.Sprintf("%s, held by pid %d", path, pid)
			}
			return nil, errors.WrapTarget(errors.ErrCodeLock, "run lock already held", target, err)
		}
		return nil, errors.WrapTarget(errors.ErrCodeLock, "cannot acquire run lock", path, err)
	}

	// Record the holder for operators inspecting a stuck run.
	_ = f.Truncate(0)
	_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)

	return &runLock{file: f, path: path}, nil
}

// release drops the lock. The file itself is left in place; the flock is
// what serializes runs, and removing it would race a waiting invocation.
func (l *runLock) release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return errors.WrapTarget(errors.ErrCodeLock, "cannot release run lock", l.path, err)
	}
	return l.file.Close()
}

// holderPID reads the pid recorded in a lock file.
func holderPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
