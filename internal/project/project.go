// Package project ties the manifest to the compiler: it collects sources,
// assembles the compile command, and drives solc, skipping compiles whose
// inputs have not changed.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/solbuild/solbuild/internal/compiler"
	"github.com/solbuild/solbuild/internal/manifest"
	"github.com/solbuild/solbuild/internal/msg"
	"github.com/solbuild/solbuild/internal/solc"
)

// Project is a loaded Solbuild.toml and the directory it lives in.
type Project struct {
	cfg     *manifest.Config
	basedir string
	env     manifest.Env
}

// Options adjust a single compile run.
type Options struct {
	Profile   string
	OutputDir string // overrides [output] dir
	Mode      string // overrides the packaging mode
	Overwrite bool   // forces --overwrite on
	Force     bool   // compile even when the state says nothing changed
	DryRun    bool   // print the rendered command instead of running it
}

// Load parses the manifest in the given directory for the given profile.
func Load(path, profile string) (*Project, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	env := manifest.NewEnv(path, profile)
	cfg, err := manifest.ParseFile(filepath.Join(path, manifest.Filename), env)
	if err != nil {
		return nil, err
	}
	return &Project{cfg: cfg, basedir: path, env: env}, nil
}

// Config returns the parsed manifest.
func (p *Project) Config() *manifest.Config { return p.cfg }

// Dir returns the absolute project directory.
func (p *Project) Dir() string { return p.basedir }

// collectSources expands the [contract] source globs against the project
// directory. Results are project-relative, which is what solc wants given
// that it runs with the project as its working directory.
func (p *Project) collectSources() ([]string, error) {
	fsys := os.DirFS(p.basedir)

	var files []string
	for _, pat := range p.cfg.Contract.Sources {
		matches, err := doublestar.Glob(fsys, pat, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pat, err)
		}
		// glob order is not contractual, sort for reproducible command lines
		slices.Sort(matches)
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no sources matched %v", p.cfg.Contract.Sources)
	}
	return files, nil
}

// Locator returns a solc wrapper rooted at the project with the artifact
// directory configured, for reading back compiler outputs. An empty
// outputDir falls back to the manifest's [output] dir.
func (p *Project) Locator(outputDir string) (*solc.Solc, error) {
	s, err := solc.New(p.basedir)
	if err != nil {
		return nil, err
	}
	s.OutputDir = p.cfg.Output.Dir
	if outputDir != "" {
		s.OutputDir = outputDir
	}
	return s, nil
}

// Assemble turns the manifest into a ready-to-render compile command and the
// solc wrapper holding the library mappings.
func (p *Project) Assemble(opts Options) (*compiler.Command, *solc.Solc, error) {
	s, err := p.Locator(opts.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	cmd := s.Command()

	for _, path := range p.cfg.Contract.AllowPaths {
		cmd.AllowPath(path)
	}
	for name, path := range p.cfg.Contract.Remappings {
		cmd.AddMapping(name, path)
	}

	mode, artifacts, err := p.cfg.Outputs(opts.Profile)
	if err != nil {
		return nil, nil, err
	}
	if opts.Mode != "" {
		mode = opts.Mode
	}
	switch mode {
	case "separate":
		for _, name := range artifacts {
			a, err := compiler.ParseSeparateArtifact(name)
			if err != nil {
				return nil, nil, err
			}
			if err := cmd.RequestSeparate(a); err != nil {
				return nil, nil, err
			}
		}
	case "combined":
		for _, name := range artifacts {
			a, err := compiler.ParseCombinedArtifact(name)
			if err != nil {
				return nil, nil, err
			}
			if err := cmd.RequestCombined(a); err != nil {
				return nil, nil, err
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown output mode %q (want separate or combined)", mode)
	}

	// library names render in a stable order even though the manifest table
	// is unordered
	libNames := make([]string, 0, len(p.cfg.Contract.Libraries))
	for name := range p.cfg.Contract.Libraries {
		libNames = append(libNames, name)
	}
	slices.Sort(libNames)
	for _, name := range libNames {
		addr, err := compiler.ParseAddress(p.cfg.Contract.Libraries[name])
		if err != nil {
			return nil, nil, fmt.Errorf("library %q: %w", name, err)
		}
		s.AddLibraryAddress(name, addr)
	}
	if len(libNames) > 0 {
		cmd.Link(s.LibFile)
	}

	if p.cfg.Output.Overwrite || opts.Overwrite {
		cmd.Overwrite()
	}

	sources, err := p.collectSources()
	if err != nil {
		return nil, nil, err
	}
	for _, src := range sources {
		cmd.AddSource(src)
	}

	return cmd, s, nil
}

// Compile runs the full pipeline: prebuild script, incremental check, library
// file emission, and the solc process itself.
func (p *Project) Compile(ctx context.Context, opts Options) error {
	cmd, s, err := p.Assemble(opts)
	if err != nil {
		return err
	}

	if err := p.cfg.RunPrebuild(p.env); err != nil {
		return err
	}

	rendered, err := cmd.Render()
	if err != nil {
		return err
	}

	if opts.DryRun {
		fmt.Println(rendered.String())
		return nil
	}

	var statePath string
	if s.OutputDir != "" {
		outDir := filepath.Join(p.basedir, filepath.FromSlash(s.OutputDir))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		statePath = filepath.Join(outDir, StateFile)
	}

	hashes, err := hashSources(p.basedir, cmd.Sources())
	if err != nil {
		return err
	}

	if statePath != "" && !opts.Force {
		if prev, err := loadState(statePath); err == nil && prev.upToDate(hashes, rendered.Args) {
			msg.Info("%s is up to date (build %s)", p.cfg.Package.Name, prev.BuildID)
			return nil
		}
	}

	if len(s.Libraries()) > 0 {
		if err := s.PrepareLink(); err != nil {
			return err
		}
	}

	if err := solc.Run(ctx, rendered); err != nil {
		return fmt.Errorf("solc: %w", err)
	}

	if statePath != "" {
		state := newState(hashes, rendered.Args)
		if err := state.save(statePath); err != nil {
			msg.Warn("failed to save build state: %v", err)
		} else {
			msg.Info("compiled %s (build %s)", p.cfg.Package.Name, state.BuildID)
		}
	}
	return nil
}
