package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/lcgerke/gitflow/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{"1.2.3", Version{1, 2, 3}, false},
		{"v1.2.3", Version{1, 2, 3}, false},
		{"v0.0.0", Version{0, 0, 0}, false},
		{"v10.20.30", Version{10, 20, 30}, false},
		{"1.2", Version{}, true},
		{"1.2.3-rc.1", Version{}, true},
		{"garbage", Version{}, true},
		{"", Version{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, errs.IsValidation(err))
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestCompareOrdering(t *testing.T) {
	assert.Equal(t, 0, Compare(Version{1, 2, 3}, Version{1, 2, 3}))
	assert.Equal(t, -1, Compare(Version{1, 2, 3}, Version{2, 0, 0}))
	assert.Equal(t, 1, Compare(Version{1, 10, 0}, Version{1, 9, 9}))
	assert.Equal(t, -1, Compare(Version{1, 2, 3}, Version{1, 2, 4}))

	// Antisymmetry
	a, b := Version{1, 4, 0}, Version{1, 5, 2}
	assert.Equal(t, -Compare(b, a), Compare(a, b))

	// Transitivity over a sorted chain
	chain := []Version{{0, 9, 9}, {1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {2, 0, 0}}
	for i := 0; i < len(chain)-1; i++ {
		for j := i + 1; j < len(chain); j++ {
			assert.Equal(t, -1, Compare(chain[i], chain[j]))
		}
	}
}

func TestIncrementAlwaysIncreases(t *testing.T) {
	base := Version{1, 2, 3}

	for _, kind := range []IncrementKind{IncrementMajor, IncrementMinor, IncrementPatch} {
		next, err := base.Increment(kind)
		require.NoError(t, err)
		assert.Equal(t, 1, Compare(next, base), "%s increment must increase", kind)
	}

	major, _ := base.Increment(IncrementMajor)
	assert.Equal(t, Version{2, 0, 0}, major)
	minor, _ := base.Increment(IncrementMinor)
	assert.Equal(t, Version{1, 3, 0}, minor)
	patch, _ := base.Increment(IncrementPatch)
	assert.Equal(t, Version{1, 2, 4}, patch)

	_, err := base.Increment("weekly")
	require.Error(t, err)
}

func TestManagerSetCurrent(t *testing.T) {
	m := NewManager()

	v, err := m.SetCurrent("v1.2.0")
	require.NoError(t, err)
	assert.Equal(t, Version{1, 2, 0}, v)
	assert.Equal(t, "v1.2.0", m.Tag(m.Current()))

	// Moving forward is fine
	_, err = m.SetCurrent("1.3.0")
	require.NoError(t, err)

	// Regressions are rejected
	_, err = m.SetCurrent("1.0.0")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, Version{1, 3, 0}, m.Current())

	// Unparseable input is rejected
	_, err = m.SetCurrent("not-semver")
	require.Error(t, err)
}

func TestLatestFromTags(t *testing.T) {
	latest, ok := LatestFromTags([]string{"v1.0.0", "v1.2.0", "garbage", "v1.1.5"})
	require.True(t, ok)
	assert.Equal(t, "1.2.0", latest.String())

	_, ok = LatestFromTags([]string{"garbage", "also-garbage"})
	assert.False(t, ok)

	_, ok = LatestFromTags(nil)
	assert.False(t, ok)
}

func TestSuggestNext(t *testing.T) {
	candidates := SuggestNext([]string{"v1.2.3"})
	assert.Equal(t, Version{2, 0, 0}, candidates[0])
	assert.Equal(t, Version{1, 3, 0}, candidates[1])
	assert.Equal(t, Version{1, 2, 4}, candidates[2])

	// No valid tags: suggestions start from 0.0.0
	candidates = SuggestNext(nil)
	assert.Equal(t, Version{1, 0, 0}, candidates[0])
	assert.Equal(t, Version{0, 1, 0}, candidates[1])
	assert.Equal(t, Version{0, 0, 1}, candidates[2])
}
