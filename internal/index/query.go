package index

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jward/loregrep/internal/model"
)

// matchTier orders how a candidate matched a pattern, per spec §4.D's
// pattern-matching policy: exact, then case-insensitive, then
// regex-or-substring, then (if enabled) fuzzy.
type matchTier int

const (
	tierExact matchTier = iota
	tierCaseInsensitive
	tierPattern
	tierFuzzy
	tierNone
)

const regexMetaChars = `*^$[](){}|+?\`

// classify reports the tier at which pattern matches candidate, and
// whether it matched at all (tierNone, false otherwise). It never
// considers fuzzy — callers add that tier themselves once every
// candidate has been tried against tiers 1-4.
func classify(pattern, candidate string) (matchTier, bool) {
	if pattern == candidate {
		return tierExact, true
	}
	if strings.EqualFold(pattern, candidate) {
		return tierCaseInsensitive, true
	}
	if strings.ContainsAny(pattern, regexMetaChars) {
		if re, err := regexp.Compile(pattern); err == nil {
			if re.MatchString(candidate) {
				return tierPattern, true
			}
			return tierNone, false
		}
		// malformed regex: fall through to substring per spec §4.D(3)
	}
	if strings.Contains(strings.ToLower(candidate), strings.ToLower(pattern)) {
		return tierPattern, true
	}
	return tierNone, false
}

// funcCandidate pairs a FunctionSignature with the file it came from, so
// tie-break ordering by (file_path, start_line) can be applied after
// tiering.
type funcCandidate struct {
	sig      model.FunctionSignature
	filePath string
	tier     matchTier
	score    float64
}

// FindFunctions implements spec §4.D's find_functions.
func (r *RepoMap) FindFunctions(pattern string, limit int, fuzzy bool) model.QueryResult[model.FunctionSignature] {
	key := cacheKey("find_functions", pattern, limit, fuzzy)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.FunctionSignature])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []funcCandidate
	for path, rec := range r.files {
		for _, fn := range rec.analysis.Functions {
			if tier, ok := classify(pattern, fn.Name); ok {
				candidates = append(candidates, funcCandidate{sig: fn, filePath: path, tier: tier})
				continue
			}
			if fuzzy {
				if score := fuzzyScore(pattern, fn.Name); score >= fuzzyThreshold {
					candidates = append(candidates, funcCandidate{sig: fn, filePath: path, tier: tierFuzzy, score: score})
				}
			}
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier < candidates[j].tier
		}
		if candidates[i].filePath != candidates[j].filePath {
			return candidates[i].filePath < candidates[j].filePath
		}
		return candidates[i].sig.StartLine < candidates[j].sig.StartLine
	})

	total := len(candidates)
	if limit >= 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	items := make([]model.FunctionSignature, len(candidates))
	for i, c := range candidates {
		items[i] = c.sig
	}

	result := model.QueryResult[model.FunctionSignature]{
		Items:         items,
		TotalMatches:  total,
		QueryDuration: time.Since(start).Milliseconds(),
	}
	r.cache.put(key, result)
	return result
}

type structCandidate struct {
	sig      model.StructSignature
	filePath string
	tier     matchTier
	score    float64
}

// FindStructs implements spec §4.D's find_structs.
func (r *RepoMap) FindStructs(pattern string, limit int, fuzzy bool) model.QueryResult[model.StructSignature] {
	key := cacheKey("find_structs", pattern, limit, fuzzy)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.StructSignature])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []structCandidate
	for path, rec := range r.files {
		for _, st := range rec.analysis.Structs {
			if tier, ok := classify(pattern, st.Name); ok {
				candidates = append(candidates, structCandidate{sig: st, filePath: path, tier: tier})
				continue
			}
			if fuzzy {
				if score := fuzzyScore(pattern, st.Name); score >= fuzzyThreshold {
					candidates = append(candidates, structCandidate{sig: st, filePath: path, tier: tierFuzzy, score: score})
				}
			}
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier < candidates[j].tier
		}
		if candidates[i].filePath != candidates[j].filePath {
			return candidates[i].filePath < candidates[j].filePath
		}
		return candidates[i].sig.StartLine < candidates[j].sig.StartLine
	})

	total := len(candidates)
	if limit >= 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	items := make([]model.StructSignature, len(candidates))
	for i, c := range candidates {
		items[i] = c.sig
	}

	result := model.QueryResult[model.StructSignature]{
		Items:         items,
		TotalMatches:  total,
		QueryDuration: time.Since(start).Milliseconds(),
	}
	r.cache.put(key, result)
	return result
}

type importCandidate struct {
	stmt     model.ImportStatement
	filePath string
	tier     matchTier
}

// FindImports implements spec §4.D's find_imports (substring/regex tiers
// only — no fuzzy parameter).
func (r *RepoMap) FindImports(pattern string, limit int) model.QueryResult[model.ImportStatement] {
	key := cacheKey("find_imports", pattern, limit, false)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.ImportStatement])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []importCandidate
	for path, rec := range r.files {
		for _, imp := range rec.analysis.Imports {
			if tier, ok := classify(pattern, imp.ModulePath); ok {
				candidates = append(candidates, importCandidate{stmt: imp, filePath: path, tier: tier})
			}
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier < candidates[j].tier
		}
		if candidates[i].filePath != candidates[j].filePath {
			return candidates[i].filePath < candidates[j].filePath
		}
		return candidates[i].stmt.LineNumber < candidates[j].stmt.LineNumber
	})

	total := len(candidates)
	if limit >= 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	items := make([]model.ImportStatement, len(candidates))
	for i, c := range candidates {
		items[i] = c.stmt
	}

	result := model.QueryResult[model.ImportStatement]{
		Items:         items,
		TotalMatches:  total,
		QueryDuration: time.Since(start).Milliseconds(),
	}
	r.cache.put(key, result)
	return result
}

type exportCandidate struct {
	stmt     model.ExportStatement
	filePath string
	tier     matchTier
}

// FindExports implements spec §4.D's find_exports (substring/regex tiers
// only — no fuzzy parameter).
func (r *RepoMap) FindExports(pattern string, limit int) model.QueryResult[model.ExportStatement] {
	key := cacheKey("find_exports", pattern, limit, false)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.ExportStatement])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []exportCandidate
	for path, rec := range r.files {
		for _, exp := range rec.analysis.Exports {
			if tier, ok := classify(pattern, exp.ExportedItem); ok {
				candidates = append(candidates, exportCandidate{stmt: exp, filePath: path, tier: tier})
			}
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier < candidates[j].tier
		}
		if candidates[i].filePath != candidates[j].filePath {
			return candidates[i].filePath < candidates[j].filePath
		}
		return candidates[i].stmt.LineNumber < candidates[j].stmt.LineNumber
	})

	total := len(candidates)
	if limit >= 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	items := make([]model.ExportStatement, len(candidates))
	for i, c := range candidates {
		items[i] = c.stmt
	}

	result := model.QueryResult[model.ExportStatement]{
		Items:         items,
		TotalMatches:  total,
		QueryDuration: time.Since(start).Milliseconds(),
	}
	r.cache.put(key, result)
	return result
}

// FindCallers implements spec §4.D's find_callers: call_graph[name]
// truncated to limit, ordered by (file_path, line_number) for
// deterministic output.
func (r *RepoMap) FindCallers(functionName string, limit int) model.QueryResult[model.CallSite] {
	key := cacheKey("find_callers", functionName, limit, false)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.CallSite])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	sites := append([]model.CallSite(nil), r.callGraph[functionName]...)
	r.mu.RUnlock()

	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].FilePath != sites[j].FilePath {
			return sites[i].FilePath < sites[j].FilePath
		}
		return sites[i].LineNumber < sites[j].LineNumber
	})

	total := len(sites)
	if limit >= 0 && limit < len(sites) {
		sites = sites[:limit]
	}

	result := model.QueryResult[model.CallSite]{
		Items:         sites,
		TotalMatches:  total,
		QueryDuration: time.Since(start).Milliseconds(),
	}
	r.cache.put(key, result)
	return result
}

// GetFileDependencies returns the module paths a file imports, in the
// order they were recorded. Returns an empty, non-nil slice for an
// unknown path, per spec §4.D's "queries never fail" rule.
func (r *RepoMap) GetFileDependencies(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.files[path]
	if !ok {
		return []string{}
	}
	deps := make([]string, 0, len(rec.analysis.Imports))
	for _, imp := range rec.analysis.Imports {
		deps = append(deps, imp.ModulePath)
	}
	return deps
}

// GetFilesByLanguage returns every indexed path classified as lang,
// sorted for determinism.
func (r *RepoMap) GetFilesByLanguage(lang string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.langIndex[lang]
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GetChangedFilesSince returns every indexed path whose LastModified is
// at or after ts, sorted for determinism.
func (r *RepoMap) GetChangedFilesSince(ts time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var paths []string
	for p, rec := range r.files {
		if !rec.analysis.LastModified.Before(ts) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// FuzzyMatch is one result of fuzzy_search: a function or struct name
// paired with its similarity score.
type FuzzyMatch struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// FuzzySearch implements spec §4.D's fuzzy_search: Jaro-Winkler
// similarity (with exact-prefix bonus, see fuzzy.go) over the union of
// function and struct names, ordered by descending score.
func (r *RepoMap) FuzzySearch(query string, limit int) []FuzzyMatch {
	r.mu.RLock()
	names := make(map[string]struct{})
	for name := range r.funcNameIndex {
		names[name] = struct{}{}
	}
	for name := range r.structNameIndex {
		names[name] = struct{}{}
	}
	r.mu.RUnlock()

	matches := make([]FuzzyMatch, 0, len(names))
	for name := range names {
		score := fuzzyScore(query, name)
		if score >= fuzzyThreshold {
			matches = append(matches, FuzzyMatch{Label: name, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Label < matches[j].Label
	})

	if limit >= 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches
}
