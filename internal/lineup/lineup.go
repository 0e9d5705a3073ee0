// Package lineup loads match setups from CUE or YAML files.
//
// Both formats describe the same document:
//
//	overs: 20
//	teams: [
//		{name: "Rovers", players: [{id: "r1", name: "Ali"}, ...]},
//		{name: "Strikers", players: [...]},
//	]
//
// The first team bats first. Every lineup is checked against the CUE schema
// in schema.cue regardless of its source format, so YAML and CUE lineups
// reject the same mistakes.
package lineup

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/crease/internal/engine"
)

//go:embed schema.cue
var schemaCUE string

// File is the on-disk lineup document.
type File struct {
	Overs int    `json:"overs" yaml:"overs"`
	Teams []Team `json:"teams" yaml:"teams"`
}

// Team is one side.
type Team struct {
	Name    string   `json:"name" yaml:"name"`
	Players []Player `json:"players" yaml:"players"`
}

// Player is a rostered player. Name defaults to the ID.
type Player struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Error is a lineup that failed to load or validate.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Load reads a lineup from a .cue, .yaml or .yml file.
func Load(path string) (engine.Setup, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".cue" && ext != ".yaml" && ext != ".yml" {
		return engine.Setup{}, &Error{Path: path, Message: "unsupported lineup format, want .cue, .yaml or .yml"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Setup{}, &Error{Path: path, Message: err.Error()}
	}

	if ext == ".cue" {
		return ParseCUE(path, data)
	}
	return ParseYAML(path, data)
}

// ParseCUE compiles a CUE lineup and checks it against the schema.
func ParseCUE(path string, data []byte) (engine.Setup, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return engine.Setup{}, cueError(path, err)
	}
	return validate(ctx, path, v)
}

// ParseYAML decodes a YAML lineup. Unknown fields are rejected.
func ParseYAML(path string, data []byte) (engine.Setup, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return engine.Setup{}, &Error{Path: path, Message: fmt.Sprintf("parse yaml: %v", err)}
	}
	return FromFile(path, f)
}

// FromFile validates an already decoded lineup, such as one embedded in a
// scenario file.
func FromFile(path string, f File) (engine.Setup, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(f)
	if err := v.Err(); err != nil {
		return engine.Setup{}, cueError(path, err)
	}
	return validate(ctx, path, v)
}

func validate(ctx *cue.Context, path string, v cue.Value) (engine.Setup, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return engine.Setup{}, fmt.Errorf("lineup schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Lineup")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return engine.Setup{}, cueError(path, err)
	}

	var f File
	if err := unified.Decode(&f); err != nil {
		return engine.Setup{}, cueError(path, err)
	}

	setup := toSetup(f)
	if err := checkUniqueIDs(setup); err != nil {
		return engine.Setup{}, &Error{Path: path, Message: err.Error()}
	}
	return setup, nil
}

func toSetup(f File) engine.Setup {
	setup := engine.Setup{Overs: f.Overs}
	for i, t := range f.Teams {
		if i > 1 {
			break
		}
		roster := engine.Roster{Name: t.Name}
		for _, p := range t.Players {
			name := p.Name
			if name == "" {
				name = p.ID
			}
			roster.Players = append(roster.Players, engine.PlayerRef{ID: p.ID, Name: name})
		}
		setup.Teams[i] = roster
	}
	return setup
}

// checkUniqueIDs rejects a player ID used twice, within or across teams.
func checkUniqueIDs(setup engine.Setup) error {
	seen := make(map[string]string)
	for _, team := range setup.Teams {
		for _, p := range team.Players {
			if other, dup := seen[p.ID]; dup {
				if other == team.Name {
					return fmt.Errorf("player id %q appears twice in %s", p.ID, team.Name)
				}
				return fmt.Errorf("player id %q appears in both %s and %s", p.ID, other, team.Name)
			}
			seen[p.ID] = team.Name
		}
	}
	return nil
}

// cueError keeps the position of the first CUE error.
func cueError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: path, Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
