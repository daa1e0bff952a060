package index

import (
	"sort"
	"time"

	"github.com/jward/loregrep/internal/model"
)

// FindFunctionsByLanguage is FindFunctions restricted to files whose
// language equals language (no restriction when language is ""). It
// backs the Tool Dispatcher's search_functions, which spec §4.E
// describes as find_functions "optionally post-filtered by language
// tag" — filtering happens before limit/total_matches are computed, so
// a narrower language still reports an accurate total.
func (r *RepoMap) FindFunctionsByLanguage(pattern string, limit int, fuzzy bool, language string) model.QueryResult[model.FunctionSignature] {
	if language == "" {
		return r.FindFunctions(pattern, limit, fuzzy)
	}

	key := cacheKey("find_functions:"+language, pattern, limit, fuzzy)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.FunctionSignature])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []funcCandidate
	for path, rec := range r.files {
		if rec.analysis.Language != language {
			continue
		}
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

// FindStructsByLanguage is the struct analogue of FindFunctionsByLanguage.
func (r *RepoMap) FindStructsByLanguage(pattern string, limit int, fuzzy bool, language string) model.QueryResult[model.StructSignature] {
	if language == "" {
		return r.FindStructs(pattern, limit, fuzzy)
	}

	key := cacheKey("find_structs:"+language, pattern, limit, fuzzy)
	if cached, ok := r.cache.get(key); ok {
		r.cacheHits.Add(1)
		return cached.(model.QueryResult[model.StructSignature])
	}
	r.cacheMisses.Add(1)

	start := time.Now()
	r.mu.RLock()
	var candidates []structCandidate
	for path, rec := range r.files {
		if rec.analysis.Language != language {
			continue
		}
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
