//go:build !windows

package main

// raisePriority is a no-op outside Windows; run under nice(1) instead.
func raisePriority() error { return nil }
