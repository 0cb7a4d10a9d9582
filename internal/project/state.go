package project

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// StateFile records the inputs of the last successful compile, next to the
// artifacts it produced.
const StateFile = "solbuild_state.json"

// State is the persisted form of one compile: source hashes plus the rendered
// argument list. If both match, rerunning solc would reproduce what is
// already on disk.
type State struct {
	BuildID string            `json:"build_id"`
	Sources map[string]string `json:"sources,omitempty"` // source file -> sha256
	Args    []string          `json:"args,omitempty"`
}

func newState(hashes map[string]string, args []string) *State {
	return &State{
		BuildID: uuid.New().String(),
		Sources: hashes,
		Args:    args,
	}
}

func (s *State) upToDate(hashes map[string]string, args []string) bool {
	return maps.Equal(s.Sources, hashes) && slices.Equal(s.Args, args)
}

func loadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *State) save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// hashSources computes the sha256 of every source concurrently.
func hashSources(basedir string, sources []string) (map[string]string, error) {
	hashes := make([]string, len(sources))

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		eg.Go(func() error {
			f, err := os.Open(filepath.Join(basedir, filepath.FromSlash(src)))
			if err != nil {
				return err
			}
			defer f.Close()

			h := sha256.New()
			if _, err := io.Copy(h, f); err != nil {
				return err
			}
			hashes[i] = hex.EncodeToString(h.Sum(nil))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(sources))
	for i, src := range sources {
		out[src] = hashes[i]
	}
	return out, nil
}
