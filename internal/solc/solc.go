// Package solc wraps the Solidity compiler binary: locating it, running
// rendered commands, emitting the library file for linking, and loading the
// artifacts the compiler leaves in the output directory.
package solc

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/solbuild/solbuild/internal/compiler"
	"github.com/solbuild/solbuild/internal/pathutil"
)

// DefaultLibFile is the library file name used when none is configured.
const DefaultLibFile = "libs.txt"

var (
	// ErrNoOutputDir is returned by operations that need the artifact
	// directory when none has been set.
	ErrNoOutputDir = errors.New("no output directory set")
	// ErrNotFound is returned when no solc executable can be located.
	ErrNotFound = errors.New("solc executable not found (set $SOLC or install solc)")
)

// LibraryMapping binds a library name to the address substituted at link
// time. Mappings keep the order they were added in.
type LibraryMapping struct {
	Name    string
	Address compiler.Address
}

// Solc drives the compiler in a fixed root directory. The root is made
// absolute at construction; the output directory is relative to it.
type Solc struct {
	root      string
	OutputDir string
	LibFile   string
	libraries []LibraryMapping
}

// New resolves root against the process environment and returns a wrapper
// operating there.
func New(root string) (*Solc, error) {
	return NewWithResolver(root, pathutil.DefaultResolver())
}

// NewWithResolver is New with injected cwd/home providers.
func NewWithResolver(root string, r pathutil.Resolver) (*Solc, error) {
	abs, err := r.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	return &Solc{root: abs, LibFile: DefaultLibFile}, nil
}

// Root returns the absolute compiler working directory.
func (s *Solc) Root() string { return s.root }

// AddLibraryAddress records a library address for linking.
func (s *Solc) AddLibraryAddress(name string, addr compiler.Address) {
	s.libraries = append(s.libraries, LibraryMapping{Name: name, Address: addr})
}

// Libraries returns the recorded mappings in insertion order.
func (s *Solc) Libraries() []LibraryMapping { return s.libraries }

// Command returns a compile command preconfigured with the wrapper's root and
// output directory. Callers add sources and outputs and render it.
func (s *Solc) Command() *compiler.Command {
	cmd := compiler.New(s.root)
	if s.OutputDir != "" {
		cmd.SetOutputDir(s.OutputDir)
	}
	return cmd
}

// PrepareLink writes the library file consumed by --libraries: one
// `name:0xaddress` line per mapping, in insertion order. The file goes to
// <root>/<output dir>/<lib file>.
func (s *Solc) PrepareLink() error {
	if s.OutputDir == "" {
		return ErrNoOutputDir
	}

	var sb strings.Builder
	for _, lib := range s.libraries {
		sb.WriteString(lib.Name)
		sb.WriteByte(':')
		sb.WriteString(lib.Address.String())
		sb.WriteByte('\n')
	}

	path := pathutil.Join(s.root, pathutil.Join(s.OutputDir, s.LibFile))
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write library file: %w", err)
	}
	return nil
}

// artifactPath computes <root>/<output dir>/<name>.
func (s *Solc) artifactPath(name string) (string, error) {
	if s.OutputDir == "" {
		return "", ErrNoOutputDir
	}
	return pathutil.Join(s.root, pathutil.Join(s.OutputDir, name)), nil
}

// LoadBytecode reads a .bin artifact from the output directory and decodes
// the hex into raw bytecode. Only linked bytecode decodes cleanly; unlinked
// output still contains placeholder markers and fails here.
func (s *Solc) LoadBytecode(name string) ([]byte, error) {
	raw, err := s.loadArtifact(name)
	if err != nil {
		return nil, err
	}
	code, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode bytecode %s: %w", name, err)
	}
	return code, nil
}

// LoadABI reads an artifact file from the output directory as raw bytes.
func (s *Solc) LoadABI(name string) ([]byte, error) {
	return s.loadArtifact(name)
}

func (s *Solc) loadArtifact(name string) ([]byte, error) {
	path, err := s.artifactPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// solc release binaries and the npm fallback
var solcNames = []string{"solc", "solcjs"}

// Find locates the compiler executable. $SOLC overrides the PATH search.
func Find() (string, error) {
	if exe := os.Getenv("SOLC"); exe != "" {
		return exe, nil
	}
	for _, name := range solcNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Run spawns the rendered command in its working directory with stdio passed
// through.
func Run(ctx context.Context, r compiler.Rendered) error {
	exe, err := Find()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, exe, r.Args...)
	cmd.Dir = r.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
