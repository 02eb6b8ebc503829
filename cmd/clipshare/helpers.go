package main

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// parsePeer validates a HOST:PORT peer address and returns it in
// dialable form.
func parsePeer(addr string) (string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("peer address %q: must be HOST:PORT", addr)
	}
	if host == "" {
		return "", fmt.Errorf("peer address %q: missing host", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("peer address %q: invalid port", addr)
	}
	return net.JoinHostPort(host, portStr), nil
}

// parseListenPort validates a listen port.
func parseListenPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("listen port %d: must be 1-65535", port)
	}
	return nil
}

// intervalDuration converts the --interval seconds flag to a Duration.
func intervalDuration(seconds float64) (time.Duration, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("interval %v: must be positive", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// fmtAge renders how long ago t was, compactly.
func fmtAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
