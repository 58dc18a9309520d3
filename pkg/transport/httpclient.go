package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/svg2scad/internal/logger"
)

// Options configures the HTTP client used to fetch remote SVG sources
type Options struct {
	CABundle     string        // optional PEM bundle appended to the system roots
	Timeout      time.Duration // whole request timeout
	MaxRedirects int
}

func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		MaxRedirects: 10,
	}
}

// IsURL reports whether source should be fetched over HTTP rather than read from disk
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Client fetches documents over HTTP and undoes any content encoding
type Client struct {
	http *http.Client
}

// NewClient returns a client with custom TLS configuration
func NewClient(opts Options) (*Client, error) {
	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}

	if opts.CABundle != "" {
		caCert, err := os.ReadFile(opts.CABundle)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		if ok := rootCAs.AppendCertsFromPEM(caCert); !ok {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", opts.CABundle)
		}
		logger.Info("Added CA bundle to root CAs", opts.CABundle)
	}

	maxRedirects := opts.MaxRedirects
	client := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs: rootCAs,
			},
			Proxy: http.ProxyFromEnvironment,
		},
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &Client{http: client}, nil
}

// Fetch downloads the document at url and returns its decoded body
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/svg+xml,application/xml;q=0.9,*/*;q=0.8")
	// setting this ourselves disables the transport's transparent gzip handling
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request for %s returned error status %d", url, resp.StatusCode)
	}

	reader, err := Decode(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	logger.Debug("Fetched document", url, len(data), "bytes")
	return data, nil
}

// Decode wraps r according to an HTTP Content-Encoding value
func Decode(r io.ReadCloser, contentEncoding string) (io.ReadCloser, error) {
	switch contentEncoding {
	case "gzip":
		logger.Debug("Handling gzip compressed content")
		reader, err := NewGzipReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return reader, nil
	case "deflate":
		logger.Debug("Handling deflate compressed content")
		return NewDeflateReader(r)
	case "br":
		logger.Debug("Handling brotli compressed content")
		return NewBrotliReader(r)
	case "", "identity":
		return io.NopCloser(r), nil
	default:
		logger.Warn("Unknown content encoding:", contentEncoding)
		return io.NopCloser(r), nil
	}
}

// NewGzipReader creates a gzip reader from the provided io.Reader
func NewGzipReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr, nil
}

// NewDeflateReader creates a deflate reader from the provided io.Reader
func NewDeflateReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// NewBrotliReader creates a brotli reader from the provided io.Reader
func NewBrotliReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
