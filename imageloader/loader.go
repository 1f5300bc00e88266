// Package imageloader fetches product images for the sheet generator.
package imageloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// ErrImageUnavailable is returned when no attempt produced a decodable image.
var ErrImageUnavailable = errors.New("image unavailable")

const (
	defaultPlaceholder  = "/placeholder-wine.png"
	defaultMaxDimension = 1200
	defaultMaxBytes     = 20 << 20
	jpegQuality         = 90
)

// Image is a fully decoded product image, re-encoded for embedding.
type Image struct {
	Data   []byte
	Format string // always "JPEG"
	Width  int    // pixels
	Height int
}

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader resolves image sources: s3://bucket/key, absolute http(s) URLs and
// site paths such as /uploads/x.png.
type Loader struct {
	client       *http.Client
	baseURL      *url.URL
	origin       string
	publicDir    string
	placeholder  string
	maxDimension int
	maxBytes     int64
	objects      ObjectGetter
	logger       *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for both attempts.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithBaseURL resolves site paths against the public site.
func WithBaseURL(raw string) Option {
	return func(l *Loader) {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			l.baseURL = u
		}
	}
}

// WithOrigin sets the Origin header sent on the cross-origin attempt.
func WithOrigin(origin string) Option {
	return func(l *Loader) { l.origin = origin }
}

// WithPublicDir serves site paths from a local directory when the file exists.
func WithPublicDir(dir string) Option {
	return func(l *Loader) { l.publicDir = dir }
}

// WithPlaceholder replaces the image used for products without one.
func WithPlaceholder(src string) Option {
	return func(l *Loader) {
		if src != "" {
			l.placeholder = src
		}
	}
}

// WithMaxDimension bounds the longer side of the embedded bitmap.
func WithMaxDimension(px int) Option {
	return func(l *Loader) {
		if px > 0 {
			l.maxDimension = px
		}
	}
}

// WithObjectStore enables s3:// sources.
func WithObjectStore(objects ObjectGetter) Option {
	return func(l *Loader) { l.objects = objects }
}

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:       &http.Client{Timeout: 10 * time.Second},
		placeholder:  defaultPlaceholder,
		maxDimension: defaultMaxDimension,
		maxBytes:     defaultMaxBytes,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes src. An empty src loads the placeholder. The
// returned error wraps ErrImageUnavailable; a cancelled ctx is wrapped too.
func (l *Loader) Load(ctx context.Context, src string) (*Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		src = l.placeholder
	}
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageUnavailable, src, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrImageUnavailable, src, err)
	}
	out, err := l.normalize(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageUnavailable, src, err)
	}
	return out, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "s3://"):
		return l.fetchObject(ctx, src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchWithFallback(ctx, src)
	default:
		return l.fetchSitePath(ctx, src)
	}
}

// fetchWithFallback makes an anonymous cross-origin request first and, if
// that does not yield a decodable image, one plain request.
func (l *Loader) fetchWithFallback(ctx context.Context, rawURL string) ([]byte, error) {
	data, err := l.get(ctx, rawURL, true)
	if err == nil {
		if _, _, err = image.DecodeConfig(bytes.NewReader(data)); err == nil {
			return data, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	l.logger.Debug("cross-origin image request failed, retrying without it",
		zap.String("url", rawURL), zap.Error(err))
	return l.get(ctx, rawURL, false)
}

func (l *Loader) get(ctx context.Context, rawURL string, crossOrigin bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	if crossOrigin {
		origin := l.origin
		if origin == "" && l.baseURL != nil {
			origin = l.baseURL.Scheme + "://" + l.baseURL.Host
		}
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		req.Header.Set("Sec-Fetch-Mode", "cors")
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return l.readAll(resp.Body)
}

func (l *Loader) fetchSitePath(ctx context.Context, src string) ([]byte, error) {
	clean := path.Clean("/" + src)
	if l.publicDir != "" {
		local := filepath.Join(l.publicDir, filepath.FromSlash(clean))
		if data, err := os.ReadFile(local); err == nil {
			return data, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if l.baseURL == nil {
		return nil, fmt.Errorf("no public directory or base URL for site path %s", clean)
	}
	return l.fetchWithFallback(ctx, l.baseURL.ResolveReference(&url.URL{Path: clean}).String())
}

func (l *Loader) fetchObject(ctx context.Context, src string) ([]byte, error) {
	if l.objects == nil {
		return nil, errors.New("object storage is not configured")
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(src, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid object location %s", src)
	}
	out, err := l.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()
	return l.readAll(out.Body)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", l.maxBytes)
	}
	return data, nil
}

// normalize downscales, flattens transparency onto white and re-encodes as JPEG.
func (l *Loader) normalize(img image.Image) (*Image, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("empty image")
	}
	if b.Dx() > l.maxDimension || b.Dy() > l.maxDimension {
		img = imaging.Fit(img, l.maxDimension, l.maxDimension, imaging.Lanczos)
	}
	b = img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return &Image{Data: buf.Bytes(), Format: "JPEG", Width: b.Dx(), Height: b.Dy()}, nil
}
