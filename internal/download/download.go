// Package download provides the transport gateway the update pipeline uses
// to size and fetch remote artifacts.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ProgressFunc receives transfer progress. total is -1 when the remote did
// not announce a length.
type ProgressFunc func(current, total int64)

// Gateway sizes and fetches remote content. Both calls honor context
// cancellation mid-transfer.
type Gateway interface {
	// FileSize reports the remote content size in bytes.
	FileSize(ctx context.Context, url string) (int64, error)

	// Download streams url to dst, reporting progress when progress is
	// non-nil. It returns the number of bytes written. A partial file is
	// removed on failure.
	Download(ctx context.Context, url, dst string, progress ProgressFunc) (int64, error)
}

// copyChunk is the transfer granularity; progress and cancellation are
// observed between chunks.
const copyChunk = 32 * 1024

// HTTPGateway is the HTTP implementation of Gateway.
type HTTPGateway struct {
	client *http.Client
}

// NewHTTPGateway creates a gateway with a default client. No overall request
// timeout is set: package transfers legitimately take minutes and are
// cancelled through the context instead.
func NewHTTPGateway() *HTTPGateway {
	return &HTTPGateway{
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
	}
}

// FileSize issues a HEAD request, falling back to a ranged GET for servers
// that do not announce a length on HEAD.
func (g *HTTPGateway) FileSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK && resp.ContentLength >= 0 {
		return resp.ContentLength, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusMethodNotAllowed {
		return 0, fmt.Errorf("size query for %s: status %d", url, resp.StatusCode)
	}
	return g.sizeByRange(ctx, url)
}

// sizeByRange probes the first byte and parses the Content-Range total.
func (g *HTTPGateway) sizeByRange(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusPartialContent {
		// Content-Range: bytes 0-0/12345
		cr := resp.Header.Get("Content-Range")
		if idx := strings.LastIndex(cr, "/"); idx >= 0 {
			return strconv.ParseInt(cr[idx+1:], 10, 64)
		}
	}
	if resp.StatusCode == http.StatusOK && resp.ContentLength >= 0 {
		return resp.ContentLength, nil
	}
	return 0, fmt.Errorf("size query for %s: status %d", url, resp.StatusCode)
}

// Download streams url into dst.
func (g *HTTPGateway) Download(ctx context.Context, url, dst string, progress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := copyWithProgress(ctx, out, resp.Body, resp.ContentLength, progress)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return written, err
	}
	return written, nil
}

// copyWithProgress copies src to dst in fixed chunks, reporting after each
// chunk and aborting when the context ends.
func copyWithProgress(ctx context.Context, dst io.Writer, src io.Reader, total int64, progress ProgressFunc) (int64, error) {
	buf := make([]byte, copyChunk)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
