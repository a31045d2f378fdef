package template

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/hash"
)

// DefaultCacheSize is the number of parsed documents a Loader keeps.
const DefaultCacheSize = 64

// Info describes a template that passed validation.
type Info struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	SourcePath string    `json:"source_path"`
	Checksum   string    `json:"checksum"`
	Document   *Node     `json:"-"`
	Template   *Template `json:"-"`
}

// LoadResult partitions a template directory into usable templates and
// per-file problems keyed by filename.
type LoadResult struct {
	Templates []Info
	Problems  map[string][]Issue
}

// Find returns the template with the given ID.
func (r *LoadResult) Find(id string) (*Info, bool) {
	for i := range r.Templates {
		if r.Templates[i].ID == id {
			return &r.Templates[i], true
		}
	}
	return nil, false
}

// ProblemFiles returns the filenames with problems, sorted.
func (r *LoadResult) ProblemFiles() []string {
	files := make([]string, 0, len(r.Problems))
	for f := range r.Problems {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Loader discovers and loads template documents from a single directory.
type Loader struct {
	dir    string
	fs     fsops.FS
	hasher hash.Hasher
	logger *slog.Logger
	cache  *lru.Cache[string, *Node]

	cacheSize int
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithCacheSize sets how many parsed documents are kept.
func WithCacheSize(n int) Option {
	return func(l *Loader) {
		l.cacheSize = n
	}
}

// NewLoader creates a Loader for dir. The directory is explicit configuration;
// the Loader never searches other locations.
func NewLoader(dir string, fs fsops.FS, hasher hash.Hasher, opts ...Option) (*Loader, error) {
	l := &Loader{
		dir:       dir,
		fs:        fs,
		hasher:    hasher,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	cache, err := lru.New[string, *Node](l.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// Dir returns the template directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Discover lists template documents directly under the directory, sorted by
// filename. A missing directory yields no templates.
func (l *Loader) Discover() ([]string, error) {
	entries, err := l.fs.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isTemplateFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(l.dir, entry.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})
	return paths, nil
}

// LoadAll loads every discovered document. A file that fails to parse gets a
// single LOAD_FAIL issue; a file that fails validation gets all of its issues.
// Usable templates are sorted by lower-cased name, then lower-cased ID.
func (l *Loader) LoadAll() (*LoadResult, error) {
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{
		Templates: []Info{},
		Problems:  make(map[string][]Issue),
	}
	seen := make(map[string]string)

	for _, path := range paths {
		filename := filepath.Base(path)
		info, issues := l.Load(path)
		if len(issues) > 0 {
			l.logger.Warn("skipping template", "file", filename, "issues", len(issues))
			result.Problems[filename] = issues
			continue
		}

		if first, dup := seen[info.ID]; dup {
			result.Problems[filename] = []Issue{{
				Code:    CodeLoadFail,
				Message: fmt.Sprintf("template id %q is already defined by %s", info.ID, first),
			}}
			continue
		}
		seen[info.ID] = filename
		result.Templates = append(result.Templates, *info)
	}

	sort.SliceStable(result.Templates, func(i, j int) bool {
		a, b := result.Templates[i], result.Templates[j]
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return strings.ToLower(a.ID) < strings.ToLower(b.ID)
	})
	return result, nil
}

// Load reads, parses and validates a single template document.
func (l *Loader) Load(path string) (*Info, []Issue) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, []Issue{{Code: CodeLoadFail, Message: fmt.Sprintf("could not read file: %v", err)}}
	}

	doc, checksum, err := l.parse(path, data)
	if err != nil {
		return nil, []Issue{{Code: CodeLoadFail, Message: err.Error()}}
	}

	issues, err := Validate(doc)
	if err != nil {
		return nil, []Issue{{Code: CodeLoadFail, Message: err.Error()}}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	tmpl := FromDocument(doc)
	return &Info{
		ID:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Name:       tmpl.Name,
		Version:    tmpl.Version,
		SourcePath: path,
		Checksum:   checksum,
		Document:   doc,
		Template:   tmpl,
	}, nil
}

// parse decodes data, consulting the cache first. Cached documents are shared
// and must not be modified.
func (l *Loader) parse(path string, data []byte) (*Node, string, error) {
	checksum := l.hasher.HashBytes(data)
	format := documentFormat(path)
	key := format + ":" + checksum

	if doc, ok := l.cache.Get(key); ok {
		l.logger.Debug("template cache hit", "file", filepath.Base(path))
		return doc, checksum, nil
	}

	var (
		doc *Node
		err error
	)
	if format == "yaml" {
		doc, err = DecodeYAML(data)
	} else {
		doc, err = DecodeJSON(data)
	}
	if err != nil {
		return nil, checksum, err
	}

	l.cache.Add(key, doc)
	return doc, checksum, nil
}

// CacheLen reports how many parsed documents are cached.
func (l *Loader) CacheLen() int {
	return l.cache.Len()
}

func isTemplateFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func documentFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
