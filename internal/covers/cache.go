// Package covers fetches book cover images by ISBN and keeps them on disk.
package covers

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the OpenLibrary covers service.
const DefaultBaseURL = "https://covers.openlibrary.org"

// MaxCoverBytes bounds a downloaded cover image.
const MaxCoverBytes = 5 << 20

// ErrCoverTooLarge is returned when the upstream image exceeds the size limit.
var ErrCoverTooLarge = errors.New("cover image too large")

// ErrNoCover is returned when the upstream service has no image for an ISBN.
var ErrNoCover = errors.New("no cover available")

// Cache handles local caching of book cover images.
type Cache struct {
	cacheDir   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxBytes   int64
}

// NewCache creates a new cover cache at the specified directory.
// Upstream fetches are limited to one per second with a small burst.
func NewCache(cacheDir, baseURL string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Cache{
		cacheDir: cacheDir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 3),
		maxBytes: MaxCoverBytes,
	}, nil
}

// GetCover returns the path of the cached cover for a book, fetching it on
// first use. The file name includes the ISBN so an edited ISBN gets a fresh image.
func (c *Cache) GetCover(ctx context.Context, bookID uint, isbn string) (string, error) {
	if isbn == "" {
		return "", ErrNoCover
	}

	cachePath := filepath.Join(c.cacheDir, c.coverFilename(bookID, isbn))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if err := c.fetchAndCache(ctx, c.coverURL(isbn), cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// InvalidateCover removes every cached cover for a book.
func (c *Cache) InvalidateCover(bookID uint) error {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, fmt.Sprintf("cover_%d_*", bookID)))
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// default=false makes OpenLibrary answer 404 instead of a blank placeholder.
func (c *Cache) coverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-M.jpg?default=false", c.baseURL, isbn)
}

func (c *Cache) coverFilename(bookID uint, isbn string) string {
	hash := sha256.Sum256([]byte(isbn))
	return fmt.Sprintf("cover_%d_%x.jpg", bookID, hash[:8])
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Catalog/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNoCover
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory, then rename into place.
	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	// One byte past the limit tells a full-size image from an oversized one.
	written, err := io.Copy(tmpFile, io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return err
	}
	if written > c.maxBytes {
		return ErrCoverTooLarge
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}
