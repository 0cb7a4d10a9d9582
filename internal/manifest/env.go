package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Env is the expression environment visible to conditional sections, {{...}}
// interpolations and prebuild scripts.
type Env struct {
	TargetOS   string            `expr:"target_os"`
	TargetArch string            `expr:"target_arch"`
	Profile    string            `expr:"profile"`
	Environ    map[string]string `expr:"environ"`
	basedir    string
}

// NewEnv builds the environment for a project directory, snapshotting the
// process environment.
func NewEnv(basedir, profile string) Env {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return Env{
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Profile:    profile,
		Environ:    environ,
		basedir:    basedir,
	}
}

// Patch applies a unidiff patch to a file in the project directory, for
// prebuild scripts that need to fix up vendored contracts before solc sees
// them. Returns whether anything was applied.
func (env Env) Patch(path, patchText string) bool {
	fullPath := filepath.Join(env.basedir, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		panic(err)
	}
	origText := string(data)

	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		panic(err)
	}
	patchedText, results := dmp.PatchApply(patches, origText)
	for _, ok := range results {
		if ok {
			goto applied
		}
	}
	return false // nothing was applied, nothing to write

applied:
	err = os.WriteFile(fullPath, []byte(patchedText), 0o644)
	if err != nil {
		panic(err)
	}

	return true
}

// ReadFile reads a file relative to the project directory.
func (env Env) ReadFile(path string) (string, error) {
	fullPath := filepath.Join(env.basedir, path)
	if _, err := filepath.Rel(env.basedir, fullPath); err != nil {
		panic(fmt.Sprintf("path %q is outside of project directory %q", path, env.basedir))
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		panic(err)
	}

	return string(data), nil
}
