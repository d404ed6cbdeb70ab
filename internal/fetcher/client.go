package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/mayanews/newsdigest/internal/config"
)

// newHTTPClient builds the shared HTTP client used against the aggregator.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // We handle decompression ourselves (including brotli)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// setBrowserHeaders applies the browser-identifying headers the aggregator expects.
func setBrowserHeaders(req *http.Request, cfg *config.SearchConfig) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Origin", cfg.Origin)
	req.Header.Set("Referer", cfg.Referer)
	req.Header.Set("X-GN-V", cfg.ClientVersion)
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
