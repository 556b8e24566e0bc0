package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// Compile compiles a WGSL module to SPIR-V words. When validate is set
// naga validates the IR before generating code.
func Compile(wgsl string, validate bool) ([]uint32, error) {
	opts := naga.DefaultOptions()
	opts.Validate = validate

	b, err := naga.CompileWithOptions(wgsl, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d is not a multiple of 4", ErrCompile, len(b))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}
