package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func isUpgrade(r *http.Request) bool {
	return r.Header.Get("Upgrade") != "" ||
		strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade")
}

// noBody reports statuses that must not carry a body, and so no
// compression footer either.
func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

func acquireZstd(w io.Writer) *zstd.Encoder {
	if v := zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw
	}
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic(err)
	}
	return zw
}

func acquireGzip(w io.Writer) *gzip.Writer {
	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	return gw
}

// encoder is the part of gzip.Writer and zstd.Encoder the wrapper uses.
type encoder interface {
	io.Writer
	Reset(io.Writer)
	Flush() error
	Close() error
}

type compressWriter struct {
	http.ResponseWriter
	enc     encoder
	skipped bool
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.skipped {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if noBody(code) {
		cw.skipped = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Flush() {
	if !cw.skipped {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := cw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("server: response writer cannot be hijacked")
	}
	return hj.Hijack()
}

// Compress encodes responses with zstd or gzip, whichever the client
// accepts first in that order. Websocket upgrades and HEAD requests pass
// through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || isUpgrade(r) || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		accept := r.Header.Get("Accept-Encoding")
		var (
			name string
			enc  encoder
			pool *sync.Pool
		)
		switch {
		case strings.Contains(accept, "zstd"):
			name, enc, pool = "zstd", acquireZstd(w), &zstdPool
		case strings.Contains(accept, "gzip"):
			name, enc, pool = "gzip", acquireGzip(w), &gzipPool
		default:
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", name)
		w.Header().Add("Vary", "Accept-Encoding")
		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer func() {
			if cw.skipped {
				// Drop the footer Close would otherwise write.
				enc.Reset(io.Discard)
			}
			_ = enc.Close()
			pool.Put(enc)
		}()

		next.ServeHTTP(cw, r)
	})
}
