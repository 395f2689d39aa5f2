//go:build unix

package platform

import "golang.org/x/sys/unix"

func isFallbackErrno(err error) bool {
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	return false
}
