// Package compiler builds solc invocations. A Command accumulates the
// compilation configuration and renders it into the exact argument list;
// nothing in this package touches the filesystem or spawns processes, so the
// rendered command line can be asserted on without a compiler installed.
package compiler

import (
	"errors"
	"slices"
	"strings"

	"github.com/solbuild/solbuild/internal/pathutil"
)

var (
	// ErrConflictingOutputMode is returned when a separate-files output is
	// requested on a command already in combined-JSON mode, or vice versa.
	ErrConflictingOutputMode = errors.New("cannot mix separate and combined output modes")
	// ErrUnresolvedOutputDir is returned when the library file path must be
	// computed but no output directory has been set.
	ErrUnresolvedOutputDir = errors.New("output directory is not set")
)

// Command accumulates a solc compilation request. All paths are taken as
// given; the output directory and library file are normalized at render time.
// A Command belongs to a single caller and is not safe for concurrent use.
type Command struct {
	root       string
	allowPaths []string
	mappings   map[string]string
	sources    []string

	libFile string
	link    bool

	mode     outputMode
	separate [numSeparateArtifacts]bool
	combined []CombinedArtifact

	overwrite bool
	outputDir string
}

// New returns a Command that will run in the given root directory.
func New(root string) *Command {
	return &Command{root: root, mappings: make(map[string]string)}
}

// SetRoot sets the working directory for the compiler process. Existence is
// not checked here; the process spawn will fail on a bad root.
func (c *Command) SetRoot(path string) *Command {
	c.root = path
	return c
}

// Root returns the working directory the rendered command will run in.
func (c *Command) Root() string { return c.root }

// AllowPath authorizes solc to read includes from path. Order is preserved
// and duplicates are allowed.
func (c *Command) AllowPath(path string) *Command {
	c.allowPaths = append(c.allowPaths, path)
	return c
}

// AddSource appends a source file. Insertion order is preserved exactly,
// since it determines solc's diagnostics ordering.
func (c *Command) AddSource(path string) *Command {
	c.sources = append(c.sources, path)
	return c
}

// Sources returns the source list in insertion order.
func (c *Command) Sources() []string { return slices.Clone(c.sources) }

// AddMapping adds an import remapping. The last path written for a name wins.
func (c *Command) AddMapping(name, path string) *Command {
	c.mappings[name] = path
	return c
}

// RequestSeparate adds an artifact to emit as its own file. It fails if the
// command is already in combined-JSON mode, leaving the command unchanged.
func (c *Command) RequestSeparate(a SeparateArtifact) error {
	if c.mode == outputCombined {
		return ErrConflictingOutputMode
	}
	c.mode = outputSeparate
	c.separate[a] = true
	return nil
}

// RequestCombined adds an artifact to the combined-JSON manifest, keeping the
// caller's order. It fails if the command is already in separate mode.
func (c *Command) RequestCombined(a CombinedArtifact) error {
	if c.mode == outputSeparate {
		return ErrConflictingOutputMode
	}
	c.mode = outputCombined
	if !slices.Contains(c.combined, a) {
		c.combined = append(c.combined, a)
	}
	return nil
}

// Link marks the compilation for linking and records the library file name,
// relative to the output directory.
func (c *Command) Link(libFile string) *Command {
	c.link = true
	c.libFile = libFile
	return c
}

// Overwrite allows solc to replace existing output files.
func (c *Command) Overwrite() *Command {
	c.overwrite = true
	return c
}

// SetOutputDir sets where artifacts are written. The path is kept verbatim
// and normalized when rendered.
func (c *Command) SetOutputDir(path string) *Command {
	c.outputDir = path
	return c
}

// LibrariesPath computes the library file location inside the output
// directory. Fails with ErrUnresolvedOutputDir when no output directory is
// set.
func (c *Command) LibrariesPath() (string, error) {
	if c.outputDir == "" {
		return "", ErrUnresolvedOutputDir
	}
	return pathutil.Join(c.outputDir, c.libFile), nil
}

// Rendered is a frozen command line: the argument list and the directory the
// process must be spawned in. Mutating the Command after rendering does not
// affect it; render again instead.
type Rendered struct {
	Dir  string
	Args []string
}

// Render serializes the configuration into solc's argument order:
// allow-paths, remappings (sorted by name), output flags, libraries file,
// overwrite, output dir, sources. It is a pure function of the configuration
// and renders identically for identical state.
//
// Linking without a library file is permitted and emits nothing: "link
// requested, nothing to link yet". Linking with a library file but no output
// directory is an error, since the file's location cannot be computed.
func (c *Command) Render() (Rendered, error) {
	var args []string

	if len(c.allowPaths) > 0 {
		args = append(args, "--allow-paths")
		args = append(args, c.allowPaths...)
	}

	names := make([]string, 0, len(c.mappings))
	for name := range c.mappings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		args = append(args, name+"="+c.mappings[name])
	}

	switch c.mode {
	case outputSeparate:
		for a := SeparateArtifact(0); a < numSeparateArtifacts; a++ {
			if c.separate[a] {
				args = append(args, a.Flag())
			}
		}
	case outputCombined:
		tokens := make([]string, len(c.combined))
		for i, a := range c.combined {
			tokens[i] = a.Token()
		}
		args = append(args, "--combined-json", strings.Join(tokens, ","))
	}

	if c.link && c.libFile != "" {
		libPath, err := c.LibrariesPath()
		if err != nil {
			return Rendered{}, err
		}
		args = append(args, "--libraries", libPath)
	}

	if c.overwrite {
		args = append(args, "--overwrite")
	}

	if c.outputDir != "" {
		args = append(args, "-o", pathutil.Normalize(c.outputDir))
	}

	args = append(args, c.sources...)

	return Rendered{Dir: c.root, Args: args}, nil
}

// String formats the command line for diagnostics and --dry-run output.
func (r Rendered) String() string {
	return strings.Join(append([]string{"solc"}, r.Args...), " ")
}
