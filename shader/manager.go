package shader

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/gogpu/gridflow/internal/cache"
	"github.com/gogpu/gridflow/internal/logging"
)

// Manager creates shaders and libraries.
type Manager interface {
	// CreateVertexShader compiles source, prefixed by the global libraries
	// and libs, into a vertex shader declaring vars.
	CreateVertexShader(name, source string, vars []Variable, libs ...*Library) (*VertexShader, error)

	// CreateFragmentShader is the fragment counterpart of CreateVertexShader.
	CreateFragmentShader(name, source string, vars []Variable, libs ...*Library) (*FragmentShader, error)

	// CreateLibrary registers shared WGSL functions.
	CreateLibrary(name, source string) *Library
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithValidation toggles naga IR validation. It is on by default.
func WithValidation(enabled bool) CompilerOption {
	return func(c *Compiler) { c.validate = enabled }
}

// WithCacheSize bounds the number of compiled modules kept in memory.
func WithCacheSize(n int) CompilerOption {
	return func(c *Compiler) { c.cacheSize = n }
}

// WithLogger overrides the shared gridflow logger.
func WithLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) { c.log = l }
}

// Compiler is the Manager that compiles WGSL with naga. Identical sources
// are compiled once. Compiler is safe for concurrent use.
type Compiler struct {
	validate  bool
	cacheSize int
	log       *slog.Logger

	modules *cache.Cache[string, []uint32]

	mu        sync.Mutex
	libraries []*Library
}

var _ Manager = (*Compiler)(nil)

// NewCompiler returns a Compiler with validation on.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{validate: true}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.Or(c.log)
	c.modules = cache.New[string, []uint32](c.cacheSize)
	return c
}

// CreateLibrary implements Manager.
func (c *Compiler) CreateLibrary(name, source string) *Library {
	l := &Library{name: name, source: source}
	c.mu.Lock()
	c.libraries = append(c.libraries, l)
	c.mu.Unlock()
	return l
}

// CreateVertexShader implements Manager.
func (c *Compiler) CreateVertexShader(name, source string, vars []Variable, libs ...*Library) (*VertexShader, error) {
	s, err := c.build(name, StageVertex, source, vars, libs)
	if err != nil {
		return nil, err
	}
	return &VertexShader{Shader: s}, nil
}

// CreateFragmentShader implements Manager.
func (c *Compiler) CreateFragmentShader(name, source string, vars []Variable, libs ...*Library) (*FragmentShader, error) {
	s, err := c.build(name, StageFragment, source, vars, libs)
	if err != nil {
		return nil, err
	}
	return &FragmentShader{Shader: s}, nil
}

// CacheStats reports how often compiled modules were reused.
func (c *Compiler) CacheStats() cache.Stats { return c.modules.Stats() }

func (c *Compiler) build(name string, stage Stage, source string, vars []Variable, libs []*Library) (Shader, error) {
	if err := checkVariables(vars); err != nil {
		return Shader{}, err
	}

	full := c.assemble(source, libs)
	words, err := c.compile(name, stage, full)
	if err != nil {
		return Shader{}, err
	}

	return Shader{
		name:      name,
		stage:     stage,
		variables: append([]Variable(nil), vars...),
		source:    full,
		spirv:     words,
	}, nil
}

func (c *Compiler) compile(name string, stage Stage, full string) ([]uint32, error) {
	words, err := c.modules.GetOrCreate(full, func() ([]uint32, error) {
		c.log.Debug("shader: compiling", "name", name, "stage", stage.String(), "bytes", len(full))
		return Compile(full, c.validate)
	})
	if err != nil {
		c.log.Warn("shader: compile failed", "name", name, "stage", stage.String(), "err", err)
		return nil, err
	}
	return words, nil
}

// assemble prepends the global libraries, then libs, to source. Each
// library appears once.
func (c *Compiler) assemble(source string, libs []*Library) string {
	c.mu.Lock()
	ordered := make([]*Library, 0, len(c.libraries)+len(libs))
	for _, l := range c.libraries {
		if l.IsGlobal() {
			ordered = append(ordered, l)
		}
	}
	c.mu.Unlock()
	ordered = append(ordered, libs...)

	var sb strings.Builder
	seen := make(map[*Library]bool, len(ordered))
	for _, l := range ordered {
		if l == nil || seen[l] {
			continue
		}
		seen[l] = true
		sb.WriteString("// library ")
		sb.WriteString(l.name)
		sb.WriteByte('\n')
		sb.WriteString(l.source)
		sb.WriteByte('\n')
	}
	sb.WriteString(source)
	return sb.String()
}
