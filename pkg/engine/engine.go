// Package engine provides the Lisp construction engine for map scripts.
// It wraps zygomys in a sandboxed environment and produces a scene world
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/deadsy/sdfx/sdf"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/ktelfer/quarry/pkg/geo"
	"github.com/ktelfer/quarry/pkg/scene"
)

// DefaultWorldBounds is the build volume for brushes created by scripts.
var DefaultWorldBounds = geo.CubeBox(16384)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for map script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	worldBounds sdf.Box3

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an engine building into the default world bounds.
func NewEngine() *Engine {
	return &Engine{worldBounds: DefaultWorldBounds}
}

// NewEngineWithBounds creates an engine with a custom build volume.
func NewEngineWithBounds(worldBounds sdf.Box3) *Engine {
	return &Engine{worldBounds: worldBounds}
}

// Evaluate takes Lisp source code and produces a new scene world.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns world + nil errors + nil error
//   - On parse/eval failure: returns nil world + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.WorldNode, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		world, evalErrs, err := e.evaluate(source)
		ch <- evalResult{world: world, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scene.WorldNode, []EvalError, error) {
	// Empty source is a valid program that produces an empty world.
	if strings.TrimSpace(source) == "" {
		return scene.NewWorldNode(), nil, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	world := scene.NewWorldNode()
	registerBuiltins(env, world, e.worldBounds)

	// Load and compile the preprocessed source into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	// Execute the compiled bytecode; builtins populate the world.
	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return world, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
