package dagload

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/fidgetcore/fidgetcore/internal/tape"
)

const nodeTypeName = "exprnode"

// LoadLuaProgram runs src as a Lua program that builds one expression
// DAG via the node constructors registered below, then returns it
// already Topo-sorted for tape.Compiler.Compile. This is the thin
// scripting front end the domain stack calls for: a Lua program wires
// named builder functions together the way the teacher's own
// coprocessor scripts wire together a sequence of named operations.
//
// The script must leave its result surface in the Lua global
// "surface" before returning.
func LoadLuaProgram(src string) (nodes []tape.Node, root tape.Node, err error) {
	L := lua.NewState()
	defer L.Close()

	registerBuiltins(L)

	if err := L.DoString(src); err != nil {
		return nil, nil, fmt.Errorf("dagload: lua program failed: %w", err)
	}

	gv := L.GetGlobal("surface")
	ud, ok := gv.(*lua.LUserData)
	if !ok {
		return nil, nil, fmt.Errorf("dagload: lua program did not set global 'surface' to a node")
	}
	n, ok := ud.Value.(*exprNode)
	if !ok {
		return nil, nil, fmt.Errorf("dagload: global 'surface' is not an expression node")
	}
	nodes, root = Topo(n)
	return nodes, root, nil
}

func pushNode(L *lua.LState, n *exprNode) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = n
	L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
	return ud
}

func argNode(L *lua.LState, pos int) *exprNode {
	ud := L.CheckUserData(pos)
	n, ok := ud.Value.(*exprNode)
	if !ok {
		L.ArgError(pos, "expected expression node")
		return nil
	}
	return n
}

// registerBuiltins installs the node-constructor API as Lua globals:
// axis terminals and constants (x, y, z, c), the arithmetic and CSG
// builders (add, sub, mul, div, min, max, neg, sqrt, square, sin, cos,
// asin, acos, atan, exp, abs, log), and the primitive/combinator
// helpers (sphere, circle, box, union, intersect, difference).
func registerBuiltins(L *lua.LState) {
	mt := L.NewTypeMetatable(nodeTypeName)
	L.SetGlobal(nodeTypeName, mt)

	reg1 := func(name string, f func(*exprNode) *exprNode) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(pushNode(L, f(argNode(L, 1))))
			return 1
		}))
	}
	reg2 := func(name string, f func(*exprNode, *exprNode) *exprNode) {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(pushNode(L, f(argNode(L, 1), argNode(L, 2))))
			return 1
		}))
	}

	L.SetGlobal("x", L.NewFunction(func(L *lua.LState) int { L.Push(pushNode(L, X())); return 1 }))
	L.SetGlobal("y", L.NewFunction(func(L *lua.LState) int { L.Push(pushNode(L, Y())); return 1 }))
	L.SetGlobal("z", L.NewFunction(func(L *lua.LState) int { L.Push(pushNode(L, Z())); return 1 }))
	L.SetGlobal("c", L.NewFunction(func(L *lua.LState) int {
		v := L.CheckNumber(1)
		L.Push(pushNode(L, Const(float64(v))))
		return 1
	}))

	reg2("add", Add)
	reg2("sub", Sub)
	reg2("mul", Mul)
	reg2("div", Div)
	reg2("min", Min)
	reg2("max", Max)
	reg2("union", Union)
	reg2("intersect", Intersect)
	reg2("difference", Difference)

	reg1("neg", Neg)
	reg1("sqrt", Sqrt)
	reg1("square", Square)
	reg1("sin", Sin)
	reg1("cos", Cos)
	reg1("asin", Asin)
	reg1("acos", Acos)
	reg1("atan", Atan)
	reg1("exp", Exp)
	reg1("abs", Abs)
	reg1("log", Log)

	L.SetGlobal("sphere", L.NewFunction(func(L *lua.LState) int {
		cx, cy, cz, r := float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
		L.Push(pushNode(L, Sphere(cx, cy, cz, r)))
		return 1
	}))
	L.SetGlobal("circle", L.NewFunction(func(L *lua.LState) int {
		cx, cy, r := float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
		L.Push(pushNode(L, Circle(cx, cy, r)))
		return 1
	}))
	L.SetGlobal("box", L.NewFunction(func(L *lua.LState) int {
		hx, hy, hz := float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
		L.Push(pushNode(L, Box(hx, hy, hz)))
		return 1
	}))
}
