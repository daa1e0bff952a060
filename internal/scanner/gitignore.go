package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// gitignorePattern is one non-comment, non-blank line of a .gitignore
// file, parsed the way git itself interprets it: a leading "!" negates,
// a leading "/" anchors to the directory the file lives in, and a
// trailing "/" restricts the pattern to directories.
type gitignorePattern struct {
	baseDir string // absolute path of the directory the .gitignore lives in
	glob    string // doublestar-compatible glob, anchor/negation stripped
	negate  bool
	dirOnly bool
}

// gitignoreSet accumulates patterns from every .gitignore file encountered
// while walking, in discovery order, so a child directory's rules can
// override its parent's (matching git's own precedence).
type gitignoreSet struct {
	enabled  bool
	patterns []gitignorePattern
}

func newGitignoreSet(enabled bool) *gitignoreSet {
	return &gitignoreSet{enabled: enabled}
}

// loadDir reads dir/.gitignore, if present, and appends its patterns.
func (g *gitignoreSet) loadDir(dir string) {
	if !g.enabled {
		return
	}
	f, err := os.Open(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := gitignorePattern{baseDir: dir}
		if strings.HasPrefix(line, "!") {
			p.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		anchored := strings.HasPrefix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if !anchored && !strings.Contains(line, "/") {
			// Unanchored single-segment patterns match at any depth.
			line = "**/" + line
		}
		p.glob = line
		g.patterns = append(g.patterns, p)
	}
}

// matches reports whether path (with git-relative form rel, slash
// separated) is ignored, applying the last matching pattern (negation
// aware), matching git's own "last rule wins" semantics.
func (g *gitignoreSet) matches(path, rel string, isDir bool) bool {
	if !g.enabled || rel == "." {
		return false
	}

	ignored := false
	for _, p := range g.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		relToBase, err := filepath.Rel(p.baseDir, path)
		if err != nil {
			continue
		}
		relToBase = filepath.ToSlash(relToBase)
		if strings.HasPrefix(relToBase, "..") {
			continue // pattern's directory isn't an ancestor of path
		}

		matched, _ := doublestar.Match(p.glob, relToBase)
		if !matched {
			// Also allow a directory-segment match, e.g. pattern "build"
			// matching "build/sub/file.go" via its "build" ancestor.
			matched = matchesAnyAncestor(p.glob, relToBase)
		}
		if matched {
			ignored = !p.negate
		}
	}
	return ignored
}

func matchesAnyAncestor(glob, relToBase string) bool {
	segs := strings.Split(relToBase, "/")
	for i := range segs {
		prefix := strings.Join(segs[:i+1], "/")
		if ok, _ := doublestar.Match(glob, prefix); ok {
			return true
		}
	}
	return false
}
