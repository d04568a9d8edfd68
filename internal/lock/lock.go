// Package lock serialises ua invocations that mutate the package database.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/canonical/ubuntu-advantage-client/internal/messages"
)

// Lock is a held client lock.
type Lock struct {
	file *os.File
}

var (
	flockFn   = unix.Flock
	lockSleep = time.Sleep
	mkdirAll  = os.MkdirAll
)

var (
	// WaitTimeout bounds how long Acquire waits for another holder.
	WaitTimeout = 30 * time.Second
	pollEvery   = 100 * time.Millisecond
)

// WithLock holds the lock at path while fn runs.
func WithLock(path string, holder string, fn func() error) error {
	l, err := Acquire(path, holder)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("release lock")
		}
	}()
	return fn()
}

// Acquire opens or creates path, takes an exclusive flock and records
// "<pid>:<holder>" in the file.
func Acquire(path string, holder string) (*Lock, error) {
	if err := mkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.LockAcquireFmt, path, err)
	}
	if err := writeHolder(file, holder); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("record lock holder")
	}
	log.Debug().Str("path", path).Str("holder", holder).Msg("lock acquired")
	return &Lock{file: file}, nil
}

// Release clears the holder, unlocks and closes the file.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = l.file.Truncate(0)
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func lockFile(file *os.File) error {
	deadline := time.Now().Add(WaitTimeout)
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, WaitTimeout)
		}
		lockSleep(pollEvery)
	}
}

func writeHolder(file *os.File, holder string) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	_, err := file.WriteAt([]byte(strconv.Itoa(os.Getpid())+":"+holder+"\n"), 0)
	return err
}
