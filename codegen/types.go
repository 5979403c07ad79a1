package codegen

import (
	"github.com/strager/axc/ast"
	"github.com/strager/axc/ir"
)

// IRType maps a language type to its IR representation. Invalid types map
// to ir.Void.
func IRType(t ast.Type) ir.Type {
	switch t {
	case ast.TypeBool:
		return ir.Bool
	case ast.TypeInt16:
		return ir.Int16
	case ast.TypeInt32:
		return ir.Int32
	case ast.TypeInt64:
		return ir.Int64
	case ast.TypeFloat:
		return ir.Float32
	case ast.TypeDouble:
		return ir.Float64
	case ast.TypeString:
		return ir.String
	}
	if t.IsVector() {
		return ir.Vec(IRType(t.Elem()).Kind, t.Len())
	}
	return ir.Void
}

// rank orders scalar types for promotion: bool < short < int < long < float
// < double. Vectors rank by their element type.
func rank(t ast.Type) int {
	switch t.Elem() {
	case ast.TypeBool:
		return 0
	case ast.TypeInt16:
		return 1
	case ast.TypeInt32:
		return 2
	case ast.TypeInt64:
		return 3
	case ast.TypeFloat:
		return 4
	case ast.TypeDouble:
		return 5
	}
	return -1
}

// isScalarNumber reports whether t is bool, integral or floating.
func isScalarNumber(t ast.Type) bool {
	switch t.Category() {
	case ast.CategoryBoolean, ast.CategoryIntegral, ast.CategoryFloating:
		return true
	}
	return false
}

func higher(a, b ast.Type) ast.Type {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// commonType is the type both operands of a binary operation promote to.
func commonType(a, b ast.Type) (ast.Type, bool) {
	if a == b {
		return a, a != ast.TypeInvalid
	}
	switch {
	case a == ast.TypeString || b == ast.TypeString:
		return ast.TypeInvalid, false
	case isScalarNumber(a) && isScalarNumber(b):
		return higher(a, b), true
	case a.IsVector() && b.IsVector():
		if a.Len() != b.Len() {
			return ast.TypeInvalid, false
		}
		return ast.VectorOf(higher(a.Elem(), b.Elem()), a.Len()), true
	case a.IsVector() && isScalarNumber(b):
		return broadcastType(a, b), true
	case b.IsVector() && isScalarNumber(a):
		return broadcastType(b, a), true
	}
	return ast.TypeInvalid, false
}

// broadcastType is the vector type a vector and a scalar combine into. The
// vector keeps its type unless the scalar's type is a wider lane type.
func broadcastType(vec, scalar ast.Type) ast.Type {
	if rank(scalar) <= rank(vec.Elem()) {
		return vec
	}
	if t := ast.VectorOf(scalar, vec.Len()); t != ast.TypeInvalid {
		return t
	}
	return vec
}

// implicitlyConvertible reports whether from may be converted to to without
// a cast.
func implicitlyConvertible(from, to ast.Type) bool {
	switch {
	case from == to:
		return true
	case from == ast.TypeString || to == ast.TypeString:
		return false
	case isScalarNumber(from) && isScalarNumber(to):
		return true
	case isScalarNumber(from) && to.IsVector():
		return true
	case from.IsVector() && to.IsVector():
		return from.Len() == to.Len()
	}
	return false
}

// narrows reports whether converting from to to may lose information.
func narrows(from, to ast.Type) bool {
	return rank(to) < rank(from)
}
