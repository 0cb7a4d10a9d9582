package pathutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeResolver(cwd, home string) Resolver {
	return Resolver{
		Cwd:  func() (string, error) { return cwd, nil },
		Home: func() (string, error) { return home, nil },
	}
}

func TestAbsExpandsHome(t *testing.T) {
	r := fakeResolver("/work", "/home/u")

	got, err := r.Abs("~/x")
	require.NoError(t, err)
	require.Equal(t, "/home/u/x", got)

	got, err = r.Abs("~")
	require.NoError(t, err)
	require.Equal(t, "/home/u", got)
}

func TestAbsPrefixesCwd(t *testing.T) {
	r := fakeResolver("/a/b", "/home/u")

	got, err := r.Abs("../y")
	require.NoError(t, err)
	require.Equal(t, "/a/y", got)

	got, err = r.Abs("z")
	require.NoError(t, err)
	require.Equal(t, "/a/b/z", got)
}

func TestAbsNormalizesAbsoluteInput(t *testing.T) {
	r := fakeResolver("/unused", "/unused")

	got, err := r.Abs("//tmp/./proj//src")
	require.NoError(t, err)
	require.Equal(t, "/tmp/proj/src", got)
}

func TestAbsHomeNotExpandedMidPath(t *testing.T) {
	r := fakeResolver("/work", "/home/u")

	// only a leading ~ is a home reference
	got, err := r.Abs("a/~/b")
	require.NoError(t, err)
	require.Equal(t, "/work/a/~/b", got)
}

func TestAbsProviderErrors(t *testing.T) {
	boom := errors.New("boom")
	r := Resolver{
		Cwd:  func() (string, error) { return "", boom },
		Home: func() (string, error) { return "", boom },
	}

	_, err := r.Abs("~/x")
	require.ErrorIs(t, err, boom)

	_, err = r.Abs("relative")
	require.ErrorIs(t, err, boom)

	// absolute paths never consult the providers
	got, err := r.Abs("/ok")
	require.NoError(t, err)
	require.Equal(t, "/ok", got)
}

func TestJoin(t *testing.T) {
	require.Equal(t, "out/libs.txt", Join("out", "libs.txt"))
	require.Equal(t, "/root/out/libs.txt", Join("/root", "out/libs.txt"))
	require.Equal(t, "libs.txt", Join("", "libs.txt"))
	require.Equal(t, "/abs", Join("base", "/abs"))
	require.Equal(t, "out/b", Join("out//", "./b"))
}
