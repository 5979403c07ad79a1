package ir

import "fmt"

// Kind is the machine-level category of a Type.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindPtr
	KindVector
)

// Type describes a value. Vectors set Kind to KindVector with Elem and Len
// describing the lanes; all other types leave Elem and Len zero.
type Type struct {
	Kind Kind
	Elem Kind
	Len  int
}

var (
	Void    = Type{Kind: KindVoid}
	Bool    = Type{Kind: KindBool}
	Int16   = Type{Kind: KindInt16}
	Int32   = Type{Kind: KindInt32}
	Int64   = Type{Kind: KindInt64}
	Float32 = Type{Kind: KindFloat32}
	Float64 = Type{Kind: KindFloat64}
	String  = Type{Kind: KindString}
	Ptr     = Type{Kind: KindPtr}
)

// Vec returns the vector type of n lanes of elem.
func Vec(elem Kind, n int) Type {
	return Type{Kind: KindVector, Elem: elem, Len: n}
}

func (t Type) IsVector() bool {
	return t.Kind == KindVector
}

// ElemType returns the lane type of a vector, or t for scalars.
func (t Type) ElemType() Type {
	if t.Kind == KindVector {
		return Type{Kind: t.Elem}
	}
	return t
}

// IsInteger reports whether t, or its lanes, are integers.
func (t Type) IsInteger() bool {
	switch t.ElemType().Kind {
	case KindInt16, KindInt32, KindInt64:
		return true
	}
	return false
}

// IsFloat reports whether t, or its lanes, are floating point.
func (t Type) IsFloat() bool {
	switch t.ElemType().Kind {
	case KindFloat32, KindFloat64:
		return true
	}
	return false
}

func (t Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// Bits is the width of an integer or float kind.
func (k Kind) Bits() int {
	switch k {
	case KindBool:
		return 1
	case KindInt16:
		return 16
	case KindInt32, KindFloat32:
		return 32
	case KindInt64, KindFloat64:
		return 64
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "i1"
	case KindInt16:
		return "i16"
	case KindInt32:
		return "i32"
	case KindInt64:
		return "i64"
	case KindFloat32:
		return "f32"
	case KindFloat64:
		return "f64"
	case KindString:
		return "str"
	case KindPtr:
		return "ptr"
	case KindVector:
		return "vec"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (t Type) String() string {
	if t.Kind == KindVector {
		return fmt.Sprintf("<%d x %s>", t.Len, t.Elem)
	}
	return t.Kind.String()
}
