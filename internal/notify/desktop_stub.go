//go:build !linux && !darwin && !windows

package notify

func desktopNotify(string, string, Options) error { return nil }
