// Package scanner enumerates candidate files under a root directory,
// applying include/exclude globs, .gitignore, size/depth/symlink limits,
// and extension-based language classification. It never reads file
// contents — that is the Engine's job.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jward/loregrep/internal/model"
	"github.com/jward/loregrep/internal/parser"
)

// skipDirs are directories never descended into, regardless of config,
// matching the teacher's walkListFiles fallback set.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// Config configures a Scanner. The zero value is usable: it includes
// every extension the Parser Adapter recognizes, excludes nothing extra,
// has no size cap, does not follow symlinks, has no depth limit, and
// ignores .gitignore files; DefaultConfig is the zero value with
// .gitignore respected.
type Config struct {
	IncludePatterns  []string // glob; empty means "every known-language extension"
	ExcludePatterns  []string // glob; always applied in addition to skipDirs
	MaxFileSize      int64    // bytes; 0 means unlimited
	FollowSymlinks   bool
	MaxDepth         int // 0 means unlimited
	RespectGitignore bool
}

// DefaultConfig returns the Scanner's default configuration.
func DefaultConfig() Config {
	return Config{RespectGitignore: true}
}

// Scanner walks a directory and produces a ScanManifest.
type Scanner struct {
	cfg Config
}

// New creates a Scanner with the given configuration.
func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Scan walks root and returns a manifest of candidate files. Ordering is
// always sorted by relative path, so two scans of identical filesystem
// state produce identical manifests.
func (s *Scanner) Scan(root string) (*model.ScanManifest, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	ignore := newGitignoreSet(s.cfg.RespectGitignore)

	var entries []model.ScanManifestEntry
	totalFound := 0
	totalFiltered := 0
	histogram := make(map[string]int)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := 0
		if rel != "." {
			depth = len(splitPath(rel))
		}

		if d.IsDir() {
			if rel != "." {
				name := d.Name()
				if skipDirs[name] || (s.cfg.RespectGitignore && ignore.matches(path, rel, true)) {
					return filepath.SkipDir
				}
				if s.cfg.MaxDepth > 0 && depth > s.cfg.MaxDepth {
					return filepath.SkipDir
				}
			}
			if s.cfg.RespectGitignore {
				ignore.loadDir(path)
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 && !s.cfg.FollowSymlinks {
			return nil
		}

		// A file's depth is that of its directory: one less than its
		// segment count.
		if s.cfg.MaxDepth > 0 && depth-1 > s.cfg.MaxDepth {
			return nil
		}

		totalFound++

		if s.cfg.RespectGitignore && ignore.matches(path, rel, false) {
			totalFiltered++
			return nil
		}

		lang, known := parser.LanguageForFile(path)
		if !known {
			totalFiltered++
			return nil
		}

		if !s.matchesIncludeExclude(rel) {
			totalFiltered++
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			totalFiltered++
			return nil
		}
		if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
			totalFiltered++
			return nil
		}

		entries = append(entries, model.ScanManifestEntry{
			AbsolutePath: path,
			RelativePath: rel,
			Language:     lang,
			SizeBytes:    info.Size(),
		})
		histogram[lang]++
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanner: walk %s: %w", root, walkErr)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return &model.ScanManifest{
		Files:              entries,
		TotalFound:         totalFound,
		TotalFiltered:      totalFiltered,
		ScanDuration:       time.Since(start),
		LanguagesHistogram: histogram,
	}, nil
}

func (s *Scanner) matchesIncludeExclude(rel string) bool {
	for _, pat := range s.cfg.ExcludePatterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	if len(s.cfg.IncludePatterns) == 0 {
		return true
	}
	for _, pat := range s.cfg.IncludePatterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func splitPath(rel string) []string {
	var parts []string
	for _, p := range filepathSplit(rel) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func filepathSplit(rel string) []string {
	var out []string
	cur := ""
	for _, r := range rel {
		if r == '/' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}
