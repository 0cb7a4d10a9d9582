package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func scaffold(t *testing.T, manifestBody string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Solbuild.toml"), []byte(manifestBody), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "contracts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contracts", "Greeter.sol"), []byte("contract Greeter {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contracts", "Token.sol"), []byte("contract Token {}"), 0o644))
	return dir
}

const fullManifest = `
[package]
name = "greeter"

[contract]
sources = ["contracts/**.sol"]
allow-paths = ["lib"]

[contract.remappings]
"@oz" = "lib/oz"

[contract.libraries]
Math = "0x5fbdb2315678afecb367f032d93f642f64180aa3"

[output]
dir = "build"
overwrite = true
artifacts = ["abi", "bin"]
`

func TestAssemble(t *testing.T) {
	dir := scaffold(t, fullManifest)

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	cmd, s, err := p.Assemble(Options{Profile: "debug"})
	require.NoError(t, err)

	r, err := cmd.Render()
	require.NoError(t, err)
	require.Equal(t, []string{
		"--allow-paths", "lib",
		"@oz=lib/oz",
		"--abi", "--bin",
		"--libraries", "build/libs.txt",
		"--overwrite",
		"-o", "build",
		"contracts/Greeter.sol", "contracts/Token.sol",
	}, r.Args)

	require.Len(t, s.Libraries(), 1)
	require.Equal(t, "Math", s.Libraries()[0].Name)
}

func TestAssembleModeOverride(t *testing.T) {
	dir := scaffold(t, fullManifest)

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	cmd, _, err := p.Assemble(Options{Profile: "debug", Mode: "combined"})
	require.NoError(t, err)

	r, err := cmd.Render()
	require.NoError(t, err)
	require.Contains(t, r.Args, "--combined-json")
	require.Contains(t, r.Args, "abi,bin")
}

func TestAssembleOutputDirOverride(t *testing.T) {
	dir := scaffold(t, fullManifest)

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	cmd, _, err := p.Assemble(Options{Profile: "debug", OutputDir: "artifacts"})
	require.NoError(t, err)

	r, err := cmd.Render()
	require.NoError(t, err)
	require.Contains(t, r.Args, "artifacts")
	require.NotContains(t, r.Args, "build")
}

func TestAssembleUnknownArtifact(t *testing.T) {
	dir := scaffold(t, `
[contract]
sources = ["contracts/**.sol"]

[output]
artifacts = ["wasm"]
`)

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	_, _, err = p.Assemble(Options{Profile: "debug"})
	require.ErrorContains(t, err, `unknown separate output "wasm"`)
}

func TestAssembleNoSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Solbuild.toml"), []byte(`
[contract]
sources = ["contracts/**.sol"]
`), 0o644))

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	_, _, err = p.Assemble(Options{Profile: "debug"})
	require.ErrorContains(t, err, "no sources matched")
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(t.TempDir(), "debug")
	require.Error(t, err)
}

func TestCompileDryRun(t *testing.T) {
	dir := scaffold(t, fullManifest)

	p, err := Load(dir, "debug")
	require.NoError(t, err)

	// dry run renders but must not write anything into the project
	require.NoError(t, p.Compile(context.Background(), Options{Profile: "debug", DryRun: true}))
	_, err = os.Stat(filepath.Join(dir, "build"))
	require.True(t, os.IsNotExist(err))
}
