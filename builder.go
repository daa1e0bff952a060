package loregrep

import (
	"time"

	"github.com/jward/loregrep/internal/analyzer"
	"github.com/jward/loregrep/internal/scanner"
)

// Builder configures an Engine before it is built, enumerating every
// option spec §4.F names. A Builder obtained from NewBuilder already has
// sane defaults; each With* method returns the Builder so calls chain.
type Builder struct {
	maxFiles         int
	cacheTTLSeconds  int
	includePatterns  []string
	excludePatterns  []string
	maxFileSize      int64
	maxDepth         int
	followSymlinks   bool
	respectGitignore bool
	languages        []string
}

// NewBuilder returns a Builder with default configuration: no file
// limit, a 30-second query cache, no extra include/exclude globs, no
// size cap, unlimited depth, symlinks not followed, .gitignore
// respected, and every language the analyzer registry knows about.
func NewBuilder() *Builder {
	return &Builder{
		cacheTTLSeconds:  30,
		respectGitignore: true,
	}
}

// WithMaxFiles sets the index's capacity. <= 0 means unlimited.
func (b *Builder) WithMaxFiles(n int) *Builder {
	b.maxFiles = n
	return b
}

// WithCacheTTLSeconds sets the query cache's time-to-live. <= 0 disables
// caching entirely.
func (b *Builder) WithCacheTTLSeconds(seconds int) *Builder {
	b.cacheTTLSeconds = seconds
	return b
}

// WithIncludePatterns restricts scanning to paths matching at least one
// of the given globs, in addition to the language-extension filter.
func (b *Builder) WithIncludePatterns(patterns ...string) *Builder {
	b.includePatterns = patterns
	return b
}

// WithExcludePatterns excludes paths matching any of the given globs,
// on top of the scanner's built-in VCS/dependency-directory skip list.
func (b *Builder) WithExcludePatterns(patterns ...string) *Builder {
	b.excludePatterns = patterns
	return b
}

// WithMaxFileSize skips files larger than maxBytes. <= 0 means
// unlimited.
func (b *Builder) WithMaxFileSize(maxBytes int64) *Builder {
	b.maxFileSize = maxBytes
	return b
}

// WithMaxDepth limits how many directory levels below root are
// descended into. <= 0 means unlimited.
func (b *Builder) WithMaxDepth(depth int) *Builder {
	b.maxDepth = depth
	return b
}

// WithFollowSymlinks enables following symlinked files during scanning.
func (b *Builder) WithFollowSymlinks(follow bool) *Builder {
	b.followSymlinks = follow
	return b
}

// WithRespectGitignore controls whether .gitignore files encountered
// while walking are honored.
func (b *Builder) WithRespectGitignore(respect bool) *Builder {
	b.respectGitignore = respect
	return b
}

// WithLanguages restricts the set of enabled language analyzers. An
// empty call leaves every registered language enabled.
func (b *Builder) WithLanguages(languages ...string) *Builder {
	b.languages = languages
	return b
}

// Build validates the configuration and constructs an Engine. It fails
// with ConfigError if the requested language restriction leaves no
// analyzer registered.
func (b *Builder) Build() (*Engine, error) {
	registry := analyzer.NewRegistry()
	if len(b.languages) > 0 {
		registry = registry.Restrict(b.languages)
		if len(registry.Languages()) == 0 {
			return nil, &ConfigError{Reason: "no analyzer registered for the requested languages"}
		}
	}

	scanCfg := scanner.Config{
		IncludePatterns:  b.includePatterns,
		ExcludePatterns:  b.excludePatterns,
		MaxFileSize:      b.maxFileSize,
		FollowSymlinks:   b.followSymlinks,
		MaxDepth:         b.maxDepth,
		RespectGitignore: b.respectGitignore,
	}

	return newEngine(b.maxFiles, time.Duration(b.cacheTTLSeconds)*time.Second, scanCfg, registry), nil
}
