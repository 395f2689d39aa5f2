//go:build !unix

package platform

func isFallbackErrno(_ error) bool { return false }
