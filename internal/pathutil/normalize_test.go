package pathutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/", "/"},
		{"A//B", "A/B"},
		{"A/./B", "A/B"},
		{"A/foo/../B", "A/B"},
		{"///A/foo/../B", "/A/B"},
		{"//", "/"},
		{"", "."},
		{".", "."},
		{"./", "."},
		{"a/b/c", "a/b/c"},
		{"a/b/c/", "a/b/c"},
		{"/a/b/../../c", "/c"},
		// parent references never cancel each other
		{"a/../../b", "../b"},
		{"../..", "../.."},
		{"../../a", "../../a"},
		// absolute paths cannot escape the root
		{"/..", "/"},
		{"/../a", "/a"},
		{"/a/../../../b", "/b"},
		{"a/..", "."},
		{"~/x/./y", "~/x/y"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"/", "A//B", "a/../../b", "///A/foo/../B", "", "./x/../y", "/a/b/c", "../..",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "Normalize(%q) not idempotent", in)
	}
}
