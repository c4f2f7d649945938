package utils

import (
	"os"
	"syscall"
)

// Flock is an advisory file lock shared between orchestrator instances.
type Flock struct {
	name string
	f    *os.File
}

// NewFlock creates a lock backed by the given file path.
func NewFlock(file string) *Flock {
	return &Flock{
		name: file,
	}
}

// Lock acquires the lock, blocking until it is available.
func (p *Flock) Lock() error {
	f, err := os.OpenFile(p.name, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	p.f = f

	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

// UnLock releases the lock and closes the underlying file.
func (p *Flock) UnLock() {
	defer p.f.Close()
	syscall.Flock(int(p.f.Fd()), syscall.LOCK_UN)
}
