//go:build unix

package config

import (
	"os"
	"syscall"
)

// lockFileExclusive blocks until an exclusive lock on f is held.
func lockFileExclusive(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlockFile(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
