package fixture

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kbukum/datafixture/logger"
	"github.com/kbukum/datafixture/util"
)

// DefaultExtensions are the file extensions picked up when scanning directories.
var DefaultExtensions = []string{".yaml", ".yml", ".fx"}

const defaultCacheSize = 512

// parsedFile is a cached parse of one fixture file.
type parsedFile struct {
	modTime time.Time
	size    int64
	docs    []document
}

// Loader discovers fixtures from files and directories.
type Loader struct {
	registry   *Registry
	log        *logger.Logger
	strict     bool
	extensions []string
	cache      *lru.Cache[string, parsedFile]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStrictPaths makes paths that are neither files nor directories an
// error instead of a warning.
func WithStrictPaths(strict bool) LoaderOption {
	return func(l *Loader) { l.strict = strict }
}

// WithExtensions replaces DefaultExtensions.
func WithExtensions(exts ...string) LoaderOption {
	return func(l *Loader) { l.extensions = exts }
}

// WithCacheSize bounds the number of parsed files kept between Discover
// calls. Zero disables the cache.
func WithCacheSize(n int) LoaderOption {
	return func(l *Loader) {
		if n <= 0 {
			l.cache = nil
			return
		}
		l.cache, _ = lru.New[string, parsedFile](n)
	}
}

// NewLoader creates a loader resolving factory documents through registry.
// A nil registry only allows data documents.
func NewLoader(registry *Registry, log *logger.Logger, opts ...LoaderOption) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	cache, _ := lru.New[string, parsedFile](defaultCacheSize)
	l := &Loader{
		registry:   registry,
		log:        log.WithComponent("fixture.loader"),
		extensions: DefaultExtensions,
		cache:      cache,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discover builds the fixture set found under paths. Paths are
// deduplicated first; a file reached through several paths is loaded
// once. Directories are walked recursively in lexical order. Discovery has
// no side effects on the store.
func (l *Loader) Discover(ctx context.Context, paths []string) (*Set, error) {
	paths = util.UniqueBy(paths, cleanAbs)

	var files []string
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := l.scan(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	files = util.Unique(files)

	set := NewSet()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := l.load(file)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			f, err := docs[i].build(file, l.registry, Deps{Logger: l.log.WithFields(map[string]interface{}{logger.FieldPath: file})})
			if err != nil {
				return nil, &InvalidFixtureError{Path: file, Document: docs[i].index, Cause: err}
			}
			if err := set.Add(f, file); err != nil {
				return nil, err
			}
		}
	}

	if set.Len() == 0 {
		return nil, &NoFixturesFoundError{Paths: paths}
	}

	l.log.Debug("fixtures discovered", map[string]interface{}{
		logger.FieldCount: set.Len(),
		"files":           len(files),
	})
	return set, nil
}

// scan returns the absolute fixture files under p.
func (l *Loader) scan(p string) ([]string, error) {
	abs := cleanAbs(p)
	info, err := os.Stat(abs)
	if err != nil || (!info.IsDir() && !info.Mode().IsRegular()) {
		if l.strict {
			return nil, &InvalidPathError{Path: p, Cause: err}
		}
		l.log.Warn("skipping fixture path: not a file or directory", map[string]interface{}{logger.FieldPath: p})
		return nil, nil
	}

	if !info.IsDir() {
		return []string{abs}, nil
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != abs && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && l.hasExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &InvalidPathError{Path: p, Cause: err}
	}
	return files, nil
}

func (l *Loader) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// load parses file, reusing a cached parse while size and mtime match.
func (l *Loader) load(file string) ([]document, error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, &InvalidFixtureError{Path: file, Cause: err}
	}
	if l.cache != nil {
		if cached, ok := l.cache.Get(file); ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
			return cached.docs, nil
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &InvalidFixtureError{Path: file, Cause: err}
	}
	docs, err := parseDocuments(file, data)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Add(file, parsedFile{modTime: info.ModTime(), size: info.Size(), docs: docs})
	}
	return docs, nil
}

func cleanAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
