// seehuhn.de/go/gauge - a gauge rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package asset resolves the image references of gauge segments.
//
// A reference is either a slash-separated path relative to an asset
// root, optionally starting with "/", or a data URI with base64 payload.
// Decoded images are cached, and concurrent loads of the same reference
// share one decode.
package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of decoded images kept by default.
const DefaultCacheSize = 64

var (
	// ErrOutsideRoot is returned for references which would leave the
	// asset root.
	ErrOutsideRoot = errors.New("asset: reference outside the asset root")

	// ErrEmptyRef is returned for an empty reference.
	ErrEmptyRef = errors.New("asset: empty reference")
)

// Source loads images from a file system. It implements arc.Loader.
type Source struct {
	fsys   fs.FS
	closer io.Closer
	log    *slog.Logger
	size   int

	cache   *lru.Cache[string, image.Image]
	group   singleflight.Group
	decodes atomic.Int64
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger which receives one debug record per decode.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCacheSize sets the number of decoded images kept in memory.
func WithCacheSize(n int) Option {
	return func(s *Source) {
		s.size = n
	}
}

// New returns a source reading from fsys.
func New(fsys fs.FS, opts ...Option) (*Source, error) {
	s := &Source{
		fsys: fsys,
		log:  slog.New(slog.DiscardHandler),
		size: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	cache, err := lru.New[string, image.Image](max(s.size, 1))
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Dir returns a source reading from the directory tree at root. Symbolic
// links cannot be used to leave the tree.
func Dir(root string, opts ...Option) (*Source, error) {
	r, err := os.OpenRoot(root)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	s, err := New(r.FS(), opts...)
	if err != nil {
		r.Close()
		return nil, err
	}
	s.closer = r
	return s, nil
}

// Close releases the directory handle of a source created by Dir.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Decodes returns the number of images decoded so far.
func (s *Source) Decodes() int64 {
	return s.decodes.Load()
}

// Load returns the image for ref. If ctx is cancelled while the image is
// being decoded, Load returns early; the decode still completes and its
// result is cached.
func (s *Source) Load(ctx context.Context, ref string) (image.Image, error) {
	if img, ok := s.cache.Get(ref); ok {
		return img, nil
	}

	ch := s.group.DoChan(ref, func() (any, error) {
		img, err := s.decode(ref)
		if err != nil {
			return nil, err
		}
		s.cache.Add(ref, img)
		return img, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Source) decode(ref string) (image.Image, error) {
	data, err := s.read(ref)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: decode %q: %w", shorten(ref), err)
	}
	s.decodes.Add(1)
	b := img.Bounds()
	s.log.Debug("asset: decoded image",
		"ref", shorten(ref), "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// read returns the encoded bytes of ref.
func (s *Source) read(ref string) ([]byte, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, ok := strings.Cut(rest, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("asset: unsupported data URI %q", shorten(ref))
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("asset: data URI: %w", err)
		}
		return data, nil
	}

	name, err := Clean(ref)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	return data, nil
}

// Clean maps a reference to a path relative to the asset root.
func Clean(ref string) (string, error) {
	name := strings.TrimLeft(ref, "/")
	if name == "" {
		return "", ErrEmptyRef
	}
	for _, elem := range strings.Split(name, "/") {
		if elem == ".." {
			return "", fmt.Errorf("%w: %q", ErrOutsideRoot, ref)
		}
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, ref)
	}
	return name, nil
}

// shorten trims long references, such as data URIs, for messages.
func shorten(ref string) string {
	const maxLen = 48
	if len(ref) <= maxLen {
		return ref
	}
	return ref[:maxLen] + "…"
}
