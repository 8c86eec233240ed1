// Package flock provides exclusive, non-blocking file locks on Unix and
// Windows. The CLI uses it to serialize processes that write shared
// configuration files.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // another process holds the lock
//	}
//	defer flock.Unlock(file.Fd())
package flock
