package beam

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smaximov/elixir-sense/pkg/docs"
)

// Store locates compiled modules on a set of code paths and serves their
// EEP-48 documentation. It implements both docs.Store and
// docs.BehaviourResolver.
type Store struct {
	codePaths []string
}

// NewStore builds a Store searching the given code paths in order.
func NewStore(codePaths ...string) *Store {
	return &Store{codePaths: codePaths}
}

// Fetch reads the Docs chunk of a module. A module that cannot be located,
// or was compiled without documentation, yields docs.ErrUnavailable.
func (s *Store) Fetch(module string) (*docs.ModuleDocs, error) {
	path, ok := s.resolve(module)
	if !ok {
		return nil, fmt.Errorf("%w: module %s not found on code paths", docs.ErrUnavailable, module)
	}
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	chunk, ok := f.Chunk(DocsChunk)
	if !ok {
		return nil, fmt.Errorf("%w: module %s compiled without docs", docs.ErrUnavailable, module)
	}
	return DecodeDocs(chunk)
}

// BehavioursOf reads the behaviour declarations from a module's Attr chunk.
// Lookup failures yield an empty list; behaviour resolution is best-effort
// and never blocks a documentation query.
func (s *Store) BehavioursOf(module string) []string {
	path, ok := s.resolve(module)
	if !ok {
		return nil
	}
	f, err := ReadFile(path)
	if err != nil {
		return nil
	}
	chunk, ok := f.Chunk(AttrChunk)
	if !ok {
		return nil
	}
	behaviours, err := DecodeBehaviours(chunk)
	if err != nil {
		return nil
	}
	return behaviours
}

// resolve maps a module name onto a .beam file. Elixir modules compile to
// Elixir.<Name>.beam, Erlang modules to <name>.beam; both are tried under
// each code path and its ebin/ subdirectory.
func (s *Store) resolve(module string) (string, bool) {
	names := []string{"Elixir." + module + ".beam", module + ".beam"}
	for _, cp := range s.codePaths {
		for _, dir := range []string{cp, filepath.Join(cp, "ebin")} {
			for _, name := range names {
				path := filepath.Join(dir, name)
				if info, err := os.Stat(path); err == nil && !info.IsDir() {
					return path, true
				}
			}
		}
	}
	return "", false
}
