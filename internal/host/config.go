package host

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tickscript/internal/grammar"
)

// worldSchema constrains world files. Definitions are closed, so unknown
// fields are rejected.
const worldSchema = `
world: #World

#World: {
	ticks:    *10 | (int & >=0)
	machines: *[] | [...#Machine]
	crystals: *[] | [...#Crystal]
}

#Machine: {
	name:   *"" | string
	script: string & !=""
	x:      *0 | int
	y:      *0 | int
	seed:   *{} | {[string]: int}
}

#Crystal: {
	x:    int
	y:    int
	tier: *"gray" | "beige"
}
`

// Config is a decoded world file.
type Config struct {
	Ticks    int             `json:"ticks"`
	Machines []MachineConfig `json:"machines"`
	Crystals []CrystalConfig `json:"crystals"`

	// Dir is the directory script paths are resolved against.
	Dir string `json:"-"`
}

// MachineConfig places one scripted machine.
type MachineConfig struct {
	Name   string         `json:"name"`
	Script string         `json:"script"`
	X      int            `json:"x"`
	Y      int            `json:"y"`
	Seed   map[string]int `json:"seed"`
}

// CrystalConfig places one crystal.
type CrystalConfig struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Tier string `json:"tier"`
}

// ConfigError reports a problem in a world file.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadConfig reads and validates a CUE world file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "file", Message: err.Error()}
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes world file contents. filename is used in error
// positions only.
func ParseConfig(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(worldSchema, cue.Filename("world-schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !user.LookupPath(cue.ParsePath("world")).Exists() {
		return nil, &ConfigError{Field: "world", Message: "world is required", Pos: user.Pos()}
	}

	v := schema.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := v.LookupPath(cue.ParsePath("world")).Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

// BuildWorld creates a world from cfg. Crystals are placed first, then
// machines in file order, each reading its script relative to cfg.Dir.
func BuildWorld(cfg *Config, opts ...Option) (*World, error) {
	w := NewWorld(opts...)

	for i, c := range cfg.Crystals {
		if _, err := w.AddCrystal(c.Tier, Point{X: c.X, Y: c.Y}); err != nil {
			return nil, fmt.Errorf("crystals[%d]: %w", i, err)
		}
	}

	for i, mc := range cfg.Machines {
		path := mc.Script
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Dir, path)
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("machines[%d]: read script: %w", i, err)
		}
		program, err := grammar.Parse(string(source))
		if err != nil {
			return nil, fmt.Errorf("machines[%d]: %s: %w", i, mc.Script, err)
		}
		if _, err := w.AddMachine(mc.Name, program, Point{X: mc.X, Y: mc.Y}, mc.Seed); err != nil {
			return nil, fmt.Errorf("machines[%d]: %w", i, err)
		}
	}

	return w, nil
}

// LoadWorld loads a world file and builds the world it describes.
func LoadWorld(path string, opts ...Option) (*World, *Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	w, err := BuildWorld(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return w, cfg, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &ConfigError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &ConfigError{Field: "cue", Message: first.Error()}
}
