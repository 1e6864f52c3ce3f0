//go:build llama

package engine

// cgo link directives for the in-process llama backend.
// - We set an rpath of $ORIGIN so the runtime loader finds libllama.so and
//   libggml*.so in the same directory as the built binary (./bin).
// - We add -L${SRCDIR}/../../bin so the linker finds libllama.so at link time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"

// LlamaBuilt reports whether the binary carries the llama backend.
func LlamaBuilt() bool { return llamaBuilt }
