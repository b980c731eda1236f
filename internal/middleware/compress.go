package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// DefaultCompressMinLength is the smallest body worth compressing.
const DefaultCompressMinLength = 1024

// brotliWriter buffers the whole body so the encoding can be decided once
// its size is known.
type brotliWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	return bw.buf.Write(data)
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.buf.WriteString(s)
}

// Brotli compresses JSON responses of at least minLength bytes for clients
// that accept "br". Question pages and exam papers carry full statement
// texts and shrink well.
func Brotli(quality, minLength int) gin.HandlerFunc {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	if minLength <= 0 {
		minLength = DefaultCompressMinLength
	}

	return func(c *gin.Context) {
		if !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		original := c.Writer
		bw := &brotliWriter{ResponseWriter: original}
		c.Writer = bw
		c.Next()
		c.Writer = original

		c.Header("Vary", "Accept-Encoding")
		body := bw.buf.Bytes()
		if len(body) < minLength {
			c.Header("Content-Length", strconv.Itoa(len(body)))
			_, _ = original.Write(body)
			return
		}

		c.Header("Content-Encoding", "br")
		c.Writer.Header().Del("Content-Length")
		w := brotli.NewWriterLevel(original, quality)
		if _, err := w.Write(body); err != nil {
			_ = c.Error(err)
		}
		if err := w.Close(); err != nil {
			_ = c.Error(err)
		}
	}
}

func acceptsBrotli(r *http.Request) bool {
	ae := r.Header.Get("Accept-Encoding")
	for _, enc := range strings.Split(ae, ",") {
		enc = strings.TrimSpace(strings.ToLower(enc))
		if i := strings.IndexByte(enc, ';'); i >= 0 {
			if strings.TrimSpace(enc[i+1:]) == "q=0" {
				continue
			}
			enc = strings.TrimSpace(enc[:i])
		}
		if enc == "br" {
			return true
		}
	}
	return false
}
