package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustRender(t *testing.T, c *Command) Rendered {
	t.Helper()
	r, err := c.Render()
	require.NoError(t, err)
	return r
}

func TestRenderEmpty(t *testing.T) {
	r := mustRender(t, New("proj"))
	require.Equal(t, "proj", r.Dir)
	require.Empty(t, r.Args)
}

func TestRenderDeterministic(t *testing.T) {
	c := New("proj").
		AllowPath("lib").
		AddMapping("b", "/p2").
		AddMapping("a", "/p1").
		AddSource("contracts/A.sol").
		SetOutputDir("build").
		Overwrite()
	require.NoError(t, c.RequestSeparate(SeparateABI))

	first := mustRender(t, c)
	second := mustRender(t, c)
	require.Equal(t, first, second)
}

func TestRenderTokenOrder(t *testing.T) {
	c := New("/proj").
		AllowPath("lib").
		AllowPath("vendor").
		AddMapping("oz", "lib/oz").
		AddSource("contracts/B.sol").
		AddSource("contracts/A.sol").
		Link("libs.txt").
		Overwrite().
		SetOutputDir("build")
	require.NoError(t, c.RequestSeparate(SeparateBin))
	require.NoError(t, c.RequestSeparate(SeparateABI))

	r := mustRender(t, c)
	require.Equal(t, []string{
		"--allow-paths", "lib", "vendor",
		"oz=lib/oz",
		"--bin", "--abi",
		"--libraries", "build/libs.txt",
		"--overwrite",
		"-o", "build",
		"contracts/B.sol", "contracts/A.sol",
	}, r.Args)
	require.Equal(t, "/proj", r.Dir)
}

func TestSeparateCanonicalOrder(t *testing.T) {
	// requested out of order, rendered in the artifact table's order
	c := New(".")
	for _, a := range []SeparateArtifact{SeparateMetadata, SeparateABI, SeparateAST} {
		require.NoError(t, c.RequestSeparate(a))
	}

	r := mustRender(t, c)
	require.Equal(t, []string{"--ast", "--abi", "--metadata"}, r.Args)
}

func TestCombinedInputOrder(t *testing.T) {
	c := New(".")
	for _, a := range []CombinedArtifact{CombinedBin, CombinedABI, CombinedSourceMap, CombinedBin} {
		require.NoError(t, c.RequestCombined(a))
	}

	// input order preserved, duplicate dropped
	r := mustRender(t, c)
	require.Equal(t, []string{"--combined-json", "bin,abi,srcmap"}, r.Args)
}

func TestConflictingOutputModes(t *testing.T) {
	c := New(".")
	require.NoError(t, c.RequestSeparate(SeparateABI))
	require.ErrorIs(t, c.RequestCombined(CombinedBin), ErrConflictingOutputMode)

	// prior state must be untouched
	r := mustRender(t, c)
	require.Equal(t, []string{"--abi"}, r.Args)

	c = New(".")
	require.NoError(t, c.RequestCombined(CombinedBin))
	require.ErrorIs(t, c.RequestSeparate(SeparateABI), ErrConflictingOutputMode)

	r = mustRender(t, c)
	require.Equal(t, []string{"--combined-json", "bin"}, r.Args)
}

func TestMappingToken(t *testing.T) {
	c := New(".")
	c.AddMapping("lib", "path/to/lib")
	require.Contains(t, mustRender(t, c).Args, "lib=path/to/lib")
}

func TestMappingsSortedByName(t *testing.T) {
	c := New(".")
	c.AddMapping("b", "/p2")
	c.AddMapping("a", "/p1")
	require.Equal(t, []string{"a=/p1", "b=/p2"}, mustRender(t, c).Args)

	// insertion order must not matter
	c = New(".")
	c.AddMapping("a", "/p1")
	c.AddMapping("b", "/p2")
	require.Equal(t, []string{"a=/p1", "b=/p2"}, mustRender(t, c).Args)
}

func TestMappingLastWriteWins(t *testing.T) {
	c := New(".")
	c.AddMapping("lib", "old")
	c.AddMapping("lib", "new")
	require.Equal(t, []string{"lib=new"}, mustRender(t, c).Args)
}

func TestLinkWithoutLibraryFile(t *testing.T) {
	// "link requested, nothing to link yet" renders no --libraries flag
	c := New(".").Link("").SetOutputDir("build")
	require.NotContains(t, mustRender(t, c).Args, "--libraries")
}

func TestLinkJoinsOutputDir(t *testing.T) {
	c := New(".").Link("libs.txt").SetOutputDir("build//out/.")
	args := mustRender(t, c).Args
	require.Equal(t, []string{"--libraries", "build/out/libs.txt", "-o", "build/out"}, args)
}

func TestLinkWithoutOutputDir(t *testing.T) {
	c := New(".").Link("libs.txt")
	_, err := c.Render()
	require.ErrorIs(t, err, ErrUnresolvedOutputDir)

	_, err = c.LibrariesPath()
	require.ErrorIs(t, err, ErrUnresolvedOutputDir)
}

func TestLibrariesPath(t *testing.T) {
	c := New(".").Link("libs.txt").SetOutputDir("build")
	path, err := c.LibrariesPath()
	require.NoError(t, err)
	require.Equal(t, "build/libs.txt", path)
}

func TestNoLibrariesFlagWithoutLink(t *testing.T) {
	c := New(".").SetOutputDir("build")
	require.NotContains(t, mustRender(t, c).Args, "--libraries")
}

func TestRerenderSeesMutation(t *testing.T) {
	c := New(".")
	before := mustRender(t, c)
	c.AddSource("contracts/A.sol")
	require.Empty(t, before.Args)
	require.Equal(t, []string{"contracts/A.sol"}, mustRender(t, c).Args)
}

func TestAllowPathDuplicates(t *testing.T) {
	c := New(".").AllowPath("lib").AllowPath("lib")
	require.Equal(t, []string{"--allow-paths", "lib", "lib"}, mustRender(t, c).Args)
}

func TestRenderedString(t *testing.T) {
	c := New(".").AddSource("A.sol")
	require.NoError(t, c.RequestSeparate(SeparateABI))
	require.Equal(t, "solc --abi A.sol", mustRender(t, c).String())
}
