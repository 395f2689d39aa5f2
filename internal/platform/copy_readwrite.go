package platform

import (
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies data with a pooled buffer. It is the portable
// fallback and the path taken when a bandwidth limit wraps the source.
func copyReadWrite(params CopyParams) (CopyResult, error) {
	srcFd, err := os.Open(params.SrcPath)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	n, err := CopyStream(params.DstFd, srcFd)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}

// CopyStream copies src to dst with a pooled buffer. Exposed so callers can
// substitute a wrapped reader (rate limiting) for the raw source file.
func CopyStream(dst io.Writer, src io.Reader) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	return io.CopyBuffer(dst, src, *bufp)
}

// isFallbackErr reports whether err should trigger the next copy strategy.
func isFallbackErr(err error) bool {
	if e, ok := err.(*os.PathError); ok {
		return isFallbackErr(e.Err)
	}
	return isFallbackErrno(err)
}
