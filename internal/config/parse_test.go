package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftab/surftab/internal/types"
)

func TestParseMiller(t *testing.T) {
	cases := []struct {
		in   string
		want types.Miller
		ok   bool
	}{
		{"1,0,0", types.Miller{H: 1, K: 0, L: 0}, true},
		{" 1, -1, 2 ", types.Miller{H: 1, K: -1, L: 2}, true},
		{"100", types.Miller{H: 1, K: 0, L: 0}, true},
		{"1-10", types.Miller{H: 1, K: -1, L: 0}, true},
		{"-111", types.Miller{H: -1, K: 1, L: 1}, true},
		{"", types.Miller{}, false},
		{"1,0", types.Miller{}, false},
		{"1,0,0,0", types.Miller{}, false},
		{"12", types.Miller{}, false},
		{"1--0", types.Miller{}, false},
		{"1a0", types.Miller{}, false},
		{"110-", types.Miller{}, false},
	}
	for _, c := range cases {
		got, err := ParseMiller(c.in)
		if c.ok {
			require.NoError(t, err, "input %q", c.in)
			assert.Equal(t, c.want, got, "input %q", c.in)
		} else {
			assert.Error(t, err, "input %q", c.in)
		}
	}
}

func TestParseFacetEntries(t *testing.T) {
	fm, err := ParseFacetEntries([]string{"1,0,0=slabs/100", "110=slabs/110"})
	require.NoError(t, err)
	assert.Equal(t, 2, fm.Len())
	d, ok := fm.Get(types.Miller{H: 1, K: 1, L: 0})
	require.True(t, ok)
	assert.Equal(t, "slabs/110", d)

	_, err = ParseFacetEntries([]string{"1,0,0"})
	assert.Error(t, err, "missing path separator")

	_, err = ParseFacetEntries([]string{"bad=path"})
	assert.Error(t, err, "unparseable key")

	_, err = ParseFacetEntries([]string{"1,0,0=  "})
	assert.Error(t, err, "empty path")
}

func TestParseOxStates(t *testing.T) {
	for _, ok := range []string{"", "4,4,-2,-2", "Sn:4,O:-2", " Fe : 3 , O : -2 "} {
		_, err := ParseOxStates(ok)
		require.NoError(t, err, "input %q", ok)
	}
	for _, bad := range []string{"Sn:4,O", "1,x,3", "Sn:abc", ":4"} {
		_, err := ParseOxStates(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"Sn", "Sn", "O"}, ParseList(" Sn, Sn , O"))
	assert.Nil(t, ParseList(""))
	assert.Nil(t, ParseList(" , ,"))
}
