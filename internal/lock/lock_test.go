package lock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWithLockRunsAndReleases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "lock")

	ran := false
	err := WithLock(path, "ua enable fips", func() error {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(os.Getpid())+":ua enable fips\n", string(data))
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	l, err := Acquire(path, "again")
	require.NoError(t, err)
	require.NoError(t, l.Release())
}

func TestWithLockPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := WithLock(filepath.Join(t.TempDir(), "lock"), "ua", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestAcquireTimesOut(t *testing.T) {
	origFlock, origSleep, origTimeout := flockFn, lockSleep, WaitTimeout
	t.Cleanup(func() {
		flockFn, lockSleep, WaitTimeout = origFlock, origSleep, origTimeout
	})
	flockFn = func(int, int) error { return unix.EWOULDBLOCK }
	WaitTimeout = 0
	lockSleep = func(time.Duration) {}

	_, err := Acquire(filepath.Join(t.TempDir(), "lock"), "ua")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestAcquireRetriesUntilFree(t *testing.T) {
	origFlock, origSleep := flockFn, lockSleep
	t.Cleanup(func() { flockFn, lockSleep = origFlock, origSleep })
	attempts := 0
	flockFn = func(fd int, how int) error {
		if how&unix.LOCK_EX != 0 {
			attempts++
			if attempts < 3 {
				return unix.EAGAIN
			}
		}
		return nil
	}
	lockSleep = func(time.Duration) {}

	l, err := Acquire(filepath.Join(t.TempDir(), "lock"), "ua")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	require.NoError(t, l.Release())
}

func TestAcquireUnexpectedError(t *testing.T) {
	origFlock := flockFn
	t.Cleanup(func() { flockFn = origFlock })
	flockFn = func(int, int) error { return unix.EBADF }

	_, err := Acquire(filepath.Join(t.TempDir(), "lock"), "ua")
	assert.ErrorIs(t, err, unix.EBADF)
}

func TestAcquireMkdirError(t *testing.T) {
	orig := mkdirAll
	t.Cleanup(func() { mkdirAll = orig })
	mkdirAll = func(string, os.FileMode) error { return os.ErrPermission }

	_, err := Acquire(filepath.Join(t.TempDir(), "x", "lock"), "ua")
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	assert.NoError(t, l.Release())
}
