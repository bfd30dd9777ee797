// Package blob stores opaque payloads under slash-separated keys. Three
// backends share one interface: the local filesystem, process memory and
// any S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/katalvlaran/fbctest/config"
)

// Driver names a backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
)

// Sentinel errors.
var (
	ErrNotFound   = errors.New("blob: not found")
	ErrExists     = errors.New("blob: already exists")
	ErrInvalidKey = errors.New("blob: invalid key")
	ErrDriver     = errors.New("blob: unknown driver")
)

// Info describes a stored payload.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// PutOptions are optional attributes of a Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Store is the backend contract. Put is create-only: writing an existing
// key fails with ErrExists. List returns keys under prefix in sorted order.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// Open builds the backend selected by cfg. Prefix, when set, is prepended
// to every key.
func Open(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		s, err = NewFS(cfg.Root)
	case DriverMemory:
		s = NewMemory()
	case DriverS3:
		s, err = NewS3(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		return WithPrefix(s, cfg.Prefix), nil
	}

	return s, nil
}

// CleanKey normalises key to a relative slash path and rejects empty,
// absolute or escaping keys.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q escapes the root", ErrInvalidKey, key)
		}
	}

	return path.Clean(key), nil
}

type prefixed struct {
	Store
	prefix string
}

// WithPrefix scopes s to keys under prefix. Returned infos carry keys
// relative to the prefix.
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{Store: s, prefix: strings.TrimSuffix(prefix, "/") + "/"}
}

func (p *prefixed) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	if _, err := CleanKey(key); err != nil {
		return Info{}, err
	}
	info, err := p.Store.Put(ctx, p.prefix+key, r, opts)
	return p.strip(info), err
}

func (p *prefixed) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, rc, err := p.Store.Get(ctx, p.prefix+key)
	return p.strip(info), rc, err
}

func (p *prefixed) Head(ctx context.Context, key string) (Info, error) {
	info, err := p.Store.Head(ctx, p.prefix+key)
	return p.strip(info), err
}

func (p *prefixed) Delete(ctx context.Context, key string) (bool, error) {
	return p.Store.Delete(ctx, p.prefix+key)
}

func (p *prefixed) List(ctx context.Context, prefix string) ([]Info, error) {
	infos, err := p.Store.List(ctx, p.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i] = p.strip(infos[i])
	}

	return infos, nil
}

func (p *prefixed) strip(info Info) Info {
	info.Key = strings.TrimPrefix(info.Key, p.prefix)
	return info
}

func cloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}

	return out
}
