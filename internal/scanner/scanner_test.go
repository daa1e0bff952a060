package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanner_FindsKnownLanguageFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "README.md", "# hi")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "src/main.rs", manifest.Files[0].RelativePath)
	assert.Equal(t, "rust", manifest.Files[0].Language)
	assert.Equal(t, 1, manifest.LanguagesHistogram["rust"])
}

func TestScanner_SkipsVendorAndGitDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "vendor/dep.rs", "fn dep() {}")
	writeFile(t, root, ".git/config.rs", "fn cfg() {}")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "src/main.rs", manifest.Files[0].RelativePath)
}

func TestScanner_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\n*.generated.rs\n")
	writeFile(t, root, "src/main.rs", "fn main() {}")
	writeFile(t, root, "build/out.rs", "fn out() {}")
	writeFile(t, root, "src/codegen.generated.rs", "fn g() {}")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "src/main.rs", manifest.Files[0].RelativePath)
}

func TestScanner_GitignoreNegationReincludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.rs\n!keep.rs\n")
	writeFile(t, root, "drop.rs", "fn drop_fn() {}")
	writeFile(t, root, "keep.rs", "fn keep_fn() {}")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "keep.rs", manifest.Files[0].RelativePath)
}

func TestScanner_GitignoreDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.rs\n")
	writeFile(t, root, "main.rs", "fn main() {}")

	cfg := DefaultConfig()
	cfg.RespectGitignore = false
	s := New(cfg)
	manifest, err := s.Scan(root)
	require.NoError(t, err)
	require.Len(t, manifest.Files, 1)
}

func TestScanner_IncludeExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/lib.rs", "fn lib() {}")
	writeFile(t, root, "tests/integration.rs", "fn t() {}")

	cfg := DefaultConfig()
	cfg.ExcludePatterns = []string{"tests/**"}
	s := New(cfg)
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "src/lib.rs", manifest.Files[0].RelativePath)
}

func TestScanner_MaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.rs", "fn f() {}")
	writeFile(t, root, "big.rs", string(make([]byte, 1024)))

	cfg := DefaultConfig()
	cfg.MaxFileSize = 100
	s := New(cfg)
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 1)
	assert.Equal(t, "small.rs", manifest.Files[0].RelativePath)
}

func TestScanner_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rs", "fn a() {}")
	writeFile(t, root, "nested/b.rs", "fn b() {}")
	writeFile(t, root, "nested/deeper/c.rs", "fn c() {}")

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	s := New(cfg)
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	var paths []string
	for _, f := range manifest.Files {
		paths = append(paths, f.RelativePath)
	}
	assert.ElementsMatch(t, []string{"a.rs", "nested/b.rs"}, paths)
}

func TestScanner_UnknownExtensionIsFilteredNotFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "hello")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)
	assert.Empty(t, manifest.Files)
	assert.Equal(t, 1, manifest.TotalFiltered)
}

func TestScanner_ManifestSortedByRelativePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z.rs", "fn z() {}")
	writeFile(t, root, "a.rs", "fn a() {}")
	writeFile(t, root, "m.rs", "fn m() {}")

	s := New(DefaultConfig())
	manifest, err := s.Scan(root)
	require.NoError(t, err)

	require.Len(t, manifest.Files, 3)
	assert.Equal(t, "a.rs", manifest.Files[0].RelativePath)
	assert.Equal(t, "m.rs", manifest.Files[1].RelativePath)
	assert.Equal(t, "z.rs", manifest.Files[2].RelativePath)
}
