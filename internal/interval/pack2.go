package interval

import "math"

// Pack2 evaluates two adjacent voxels jointly (§4.1) to amortize memory
// traffic in the per-voxel pre-normal pass; each lane's semantics match
// the scalar float evaluator exactly.
type Pack2 struct {
	A, B float64
}

func ConstPack2(v float64) Pack2 { return Pack2{v, v} }

func AddPack2(a, b Pack2) Pack2 { return Pack2{a.A + b.A, a.B + b.B} }
func SubPack2(a, b Pack2) Pack2 { return Pack2{a.A - b.A, a.B - b.B} }
func MulPack2(a, b Pack2) Pack2 { return Pack2{a.A * b.A, a.B * b.B} }
func DivPack2(a, b Pack2) Pack2 { return Pack2{a.A / b.A, a.B / b.B} }
func NegPack2(a Pack2) Pack2    { return Pack2{-a.A, -a.B} }
func MinPack2(a, b Pack2) Pack2 { return Pack2{math.Min(a.A, b.A), math.Min(a.B, b.B)} }
func MaxPack2(a, b Pack2) Pack2 { return Pack2{math.Max(a.A, b.A), math.Max(a.B, b.B)} }
func SquarePack2(a Pack2) Pack2 { return Pack2{a.A * a.A, a.B * a.B} }
func SqrtPack2(a Pack2) Pack2   { return Pack2{math.Sqrt(a.A), math.Sqrt(a.B)} }
func AbsPack2(a Pack2) Pack2    { return Pack2{math.Abs(a.A), math.Abs(a.B)} }
func ExpPack2(a Pack2) Pack2    { return Pack2{math.Exp(a.A), math.Exp(a.B)} }
func LogPack2(a Pack2) Pack2    { return Pack2{math.Log(a.A), math.Log(a.B)} }
func SinPack2(a Pack2) Pack2    { return Pack2{math.Sin(a.A), math.Sin(a.B)} }
func CosPack2(a Pack2) Pack2    { return Pack2{math.Cos(a.A), math.Cos(a.B)} }
func AsinPack2(a Pack2) Pack2   { return Pack2{math.Asin(a.A), math.Asin(a.B)} }
func AcosPack2(a Pack2) Pack2   { return Pack2{math.Acos(a.A), math.Acos(a.B)} }
func AtanPack2(a Pack2) Pack2   { return Pack2{math.Atan(a.A), math.Atan(a.B)} }
