package shader

import (
	"fmt"
	"runtime"

	"github.com/gogpu/gridflow/internal/parallel"
)

// Source is a WGSL module to compile ahead of use.
type Source struct {
	Name      string
	Stage     Stage
	WGSL      string
	Libraries []*Library
}

// Precompile compiles sources concurrently into the module cache, so that
// later Create calls with the same source and libraries do not compile
// again. Every source is attempted; the failures are joined.
func (c *Compiler) Precompile(sources []Source) error {
	if len(sources) == 0 {
		return nil
	}
	pool := parallel.NewPool(min(len(sources), runtime.GOMAXPROCS(0)))
	defer pool.Close()

	return pool.Do(len(sources), func(i int) error {
		s := sources[i]
		if _, err := c.compile(s.Name, s.Stage, c.assemble(s.WGSL, s.Libraries)); err != nil {
			return fmt.Errorf("shader %q: %w", s.Name, err)
		}
		return nil
	})
}
