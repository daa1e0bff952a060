package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loregrep/internal/model"
)

func TestRepoMap_FindFunctionsByLanguage_FiltersByLanguage(t *testing.T) {
	r := New(0, 0)
	require.NoError(t, r.AddOrReplace(model.FileAnalysis{
		FilePath: "a.rs", Language: "rust",
		Functions: []model.FunctionSignature{{Name: "parse"}},
	}))
	require.NoError(t, r.AddOrReplace(model.FileAnalysis{
		FilePath: "b.py", Language: "python",
		Functions: []model.FunctionSignature{{Name: "parse"}},
	}))

	all := r.FindFunctionsByLanguage("parse", 10, false, "")
	assert.Equal(t, 2, all.TotalMatches)

	rustOnly := r.FindFunctionsByLanguage("parse", 10, false, "rust")
	require.Equal(t, 1, rustOnly.TotalMatches)
}

func TestRepoMap_FindStructsByLanguage_FiltersByLanguage(t *testing.T) {
	r := New(0, 0)
	require.NoError(t, r.AddOrReplace(model.FileAnalysis{
		FilePath: "a.rs", Language: "rust",
		Structs: []model.StructSignature{{Name: "Config"}},
	}))
	require.NoError(t, r.AddOrReplace(model.FileAnalysis{
		FilePath: "b.py", Language: "python",
		Structs: []model.StructSignature{{Name: "Config"}},
	}))

	pyOnly := r.FindStructsByLanguage("Config", 10, false, "python")
	require.Equal(t, 1, pyOnly.TotalMatches)

	rustOnly := r.FindStructsByLanguage("Config", 10, false, "rust")
	require.Equal(t, 1, rustOnly.TotalMatches)

	unrestricted := r.FindStructsByLanguage("Config", 10, false, "")
	assert.Equal(t, 2, unrestricted.TotalMatches)
}
