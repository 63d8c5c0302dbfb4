package browse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"go.senan.xyz/musicarchive/content"
)

var (
	ErrUnknownSource = errors.New("unknown catalog source")
	ErrNoCatalog     = errors.New("no catalog fetched yet")
)

// Source hands out the catalog to render. A returned catalog is shared and
// must not be modified
type Source interface {
	Catalog(ctx context.Context) (*Catalog, error)
}

type SourceType string

const (
	SourceStatic   SourceType = "static"
	SourceFile     SourceType = "file"
	SourceEndpoint SourceType = "endpoint"
)

func ParseSourceType(in string) (SourceType, error) {
	switch t := SourceType(in); t {
	case SourceStatic, SourceFile, SourceEndpoint:
		return t, nil
	default:
		return "", fmt.Errorf("%q: %w", in, ErrUnknownSource)
	}
}

type StaticSource struct {
	catalog *Catalog
}

func NewStaticSource(catalog *Catalog) *StaticSource {
	return &StaticSource{catalog: catalog}
}

func (s *StaticSource) Catalog(context.Context) (*Catalog, error) {
	return s.catalog, nil
}

// FileSource reads the catalog from a yaml file and reloads it when the file
// changes. A file that fails to parse or validate leaves the previous
// catalog in place
type FileSource struct {
	path string

	mu      sync.RWMutex
	catalog *Catalog
}

func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSource) Catalog(context.Context) (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

func (s *FileSource) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parse catalog %q: %w", s.path, err)
	}
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("check catalog %q: %w", s.path, err)
	}
	s.mu.Lock()
	s.catalog = &catalog
	s.mu.Unlock()
	return nil
}

// Watch reloads the file on every change until ctx is done. The parent
// directory is watched since editors tend to replace files rather than
// write them in place
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Load(); err != nil {
				log.Printf("error reloading catalog: %v", err)
				continue
			}
			log.Printf("reloaded catalog from %q", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("error watching catalog: %v", err)
		}
	}
}

// Lister is satisfied by *contentapi.Client
type Lister interface {
	Albums(ctx context.Context) ([]*content.CatalogAlbum, error)
	Videos(ctx context.Context) ([]*content.CatalogVideo, error)
	Lyrics(ctx context.Context) ([]*content.CatalogLyric, error)
}

// EndpointSource lists the catalog from the content endpoint. A snapshot
// younger than maxAge is served as is, concurrent refreshes share one fetch,
// and a failed refresh keeps serving the last good snapshot
type EndpointSource struct {
	lister Lister
	maxAge time.Duration
	group  singleflight.Group

	mu        sync.RWMutex
	catalog   *Catalog
	fetchedAt time.Time
}

func NewEndpointSource(lister Lister, maxAge time.Duration) *EndpointSource {
	return &EndpointSource{lister: lister, maxAge: maxAge}
}

func (s *EndpointSource) snapshot() (*Catalog, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.fetchedAt
}

func (s *EndpointSource) Catalog(ctx context.Context) (*Catalog, error) {
	catalog, fetchedAt := s.snapshot()
	if catalog != nil && time.Since(fetchedAt) < s.maxAge {
		return catalog, nil
	}
	if err := s.Refresh(ctx); err != nil {
		if catalog != nil {
			log.Printf("error refreshing catalog, serving previous: %v", err)
			return catalog, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrNoCatalog, err)
	}
	catalog, _ = s.snapshot()
	return catalog, nil
}

// refreshTimeout bounds one shared fetch of the catalog
const refreshTimeout = 30 * time.Second

// Refresh fetches all three lists and swaps the snapshot only if every one
// of them succeeded. Callers share one fetch, which outlives any single
// caller's context
func (s *EndpointSource) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("catalog", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		var catalog Catalog
		errgrp, ctx := errgroup.WithContext(ctx)
		errgrp.Go(func() (err error) {
			catalog.Albums, err = s.lister.Albums(ctx)
			return
		})
		errgrp.Go(func() (err error) {
			catalog.Videos, err = s.lister.Videos(ctx)
			return
		})
		errgrp.Go(func() (err error) {
			catalog.Lyrics, err = s.lister.Lyrics(ctx)
			return
		})
		if err := errgrp.Wait(); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.catalog = &catalog
		s.fetchedAt = time.Now()
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// Run refreshes on every tick until ctx is done
func (s *EndpointSource) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				log.Printf("error refreshing catalog: %v", err)
			}
		}
	}
}
