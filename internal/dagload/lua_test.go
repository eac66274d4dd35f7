package dagload

import (
	"errors"
	"testing"

	"github.com/fidgetcore/fidgetcore/internal/tape"
)

func TestLoadLuaProgramBuildsSphere(t *testing.T) {
	nodes, root, err := LoadLuaProgram(`surface = sphere(0, 0, 0, 1)`)
	if err != nil {
		t.Fatalf("LoadLuaProgram: %v", err)
	}
	c := tape.NewCompiler()
	if _, err := c.Compile(nodes, root); err != nil {
		t.Fatalf("compile lua-built sphere: %v", err)
	}
}

func TestLoadLuaProgramBuildsUnion(t *testing.T) {
	src := `
a = circle(-1, 0, 1)
b = circle(1, 0, 1)
surface = union(a, b)
`
	nodes, root, err := LoadLuaProgram(src)
	if err != nil {
		t.Fatalf("LoadLuaProgram: %v", err)
	}
	c := tape.NewCompiler()
	tp, err := c.Compile(nodes, root)
	if err != nil {
		t.Fatalf("compile lua-built union: %v", err)
	}
	if tape.Terminal(tp.Clauses) {
		t.Fatalf("union tape should not be terminal")
	}
}

func TestLoadLuaProgramMissingSurfaceErrors(t *testing.T) {
	_, _, err := LoadLuaProgram(`x_unused = sphere(0, 0, 0, 1)`)
	if err == nil {
		t.Fatalf("expected error when script does not set global 'surface'")
	}
}

func TestLoadLuaProgramSyntaxErrorWraps(t *testing.T) {
	_, _, err := LoadLuaProgram(`this is not lua (((`)
	if err == nil {
		t.Fatalf("expected error for invalid lua source")
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("expected the lua error to be wrapped, got %v", err)
	}
}
