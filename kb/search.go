package kb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentharness/logging"
)

// DefaultMaxSections is the result limit used when a caller does not supply one.
const DefaultMaxSections = 5

// Extension selects knowledge-base files.
const Extension = ".md"

var (
	// ErrEmptyQuery is returned when the query has no tokens.
	ErrEmptyQuery = errors.New("empty query")
	// ErrKBNotFound is returned when the knowledge-base path is not a directory.
	ErrKBNotFound = errors.New("kb_path not found")
)

// SearcherOptions configures a Searcher.
type SearcherOptions struct {
	// Workers bounds the number of files scanned concurrently. Values below
	// one scan sequentially.
	Workers int
	// Logger receives per-file diagnostics (skipped files).
	Logger logging.Logger
}

// Searcher scans a knowledge-base directory and ranks matching sections.
// It holds no per-call state and is safe for concurrent use.
type Searcher struct {
	workers int
	logger  logging.Logger
}

// NewSearcher creates a Searcher with optional overrides.
func NewSearcher(optFns ...func(o *SearcherOptions)) *Searcher {
	opts := SearcherOptions{
		Workers: 4,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Searcher{workers: opts.Workers, logger: opts.Logger}
}

// Lookup scores every *.md file directly inside dir against query and returns
// at most maxSections results ranked by score. Ties keep file listing order,
// then section order within a file. Files that cannot be read are skipped.
func (s *Searcher) Lookup(ctx context.Context, query, dir string, maxSections int) ([]Result, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, ErrEmptyQuery
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrKBNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKBNotFound, dir)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		files = append(files, entry.Name())
	}

	// Each worker writes only its own slot so the pooled order follows the
	// directory listing regardless of completion order.
	perFile := make([][]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = s.scanFile(dir, name, tokens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pool []Result
	for _, results := range perFile {
		pool = append(pool, results...)
	}

	return Rank(pool, maxSections), nil
}

func (s *Searcher) scanFile(dir, name string, tokens []string) []Result {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		s.logger.Debug("kb.file.skipped", "file", name, "error", err.Error())
		return nil
	}
	if !utf8.Valid(data) {
		s.logger.Debug("kb.file.skipped", "file", name, "error", "invalid utf-8")
		return nil
	}
	return ScoreSections(name, Split(string(data)), tokens)
}
