//go:build !windows

package storage

func isEphemeralError(err error) bool {
	return false
}
