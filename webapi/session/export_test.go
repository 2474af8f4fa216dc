package session

import "time"

// SetKeepAlive changes the event stream tick and returns a restore func.
func SetKeepAlive(d time.Duration) func() {
	prev := keepAlive
	keepAlive = d
	return func() { keepAlive = prev }
}
