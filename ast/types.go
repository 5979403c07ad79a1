package ast

// Type is one of the language's core value types.
type Type int

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat
	TypeDouble
	TypeVec2i
	TypeVec2f
	TypeVec2d
	TypeVec3i
	TypeVec3f
	TypeVec3d
	TypeVec4i
	TypeVec4f
	TypeVec4d
	TypeString
)

// Category groups types by how code generation treats them.
type Category int

const (
	CategoryInvalid Category = iota
	CategoryBoolean
	CategoryIntegral
	CategoryFloating
	CategoryVector
	CategoryString
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt16:   "short",
	TypeInt32:   "int",
	TypeInt64:   "long",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeVec2i:   "vec2i",
	TypeVec2f:   "vec2f",
	TypeVec2d:   "vec2d",
	TypeVec3i:   "vec3i",
	TypeVec3f:   "vec3f",
	TypeVec3d:   "vec3d",
	TypeVec4i:   "vec4i",
	TypeVec4f:   "vec4f",
	TypeVec4d:   "vec4d",
	TypeString:  "string",
}

// Name returns the keyword spelling of the type.
func (t Type) Name() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "invalid"
	}
	return typeNames[t]
}

func (t Type) String() string {
	return t.Name()
}

// Category reports the arithmetic category of t.
func (t Type) Category() Category {
	switch t {
	case TypeBool:
		return CategoryBoolean
	case TypeInt16, TypeInt32, TypeInt64:
		return CategoryIntegral
	case TypeFloat, TypeDouble:
		return CategoryFloating
	case TypeString:
		return CategoryString
	case TypeInvalid:
		return CategoryInvalid
	default:
		return CategoryVector
	}
}

func (t Type) IsVector() bool {
	return t.Category() == CategoryVector
}

// Elem returns the element type of a vector type, or t itself for scalars.
func (t Type) Elem() Type {
	switch t {
	case TypeVec2i, TypeVec3i, TypeVec4i:
		return TypeInt32
	case TypeVec2f, TypeVec3f, TypeVec4f:
		return TypeFloat
	case TypeVec2d, TypeVec3d, TypeVec4d:
		return TypeDouble
	default:
		return t
	}
}

// Len returns the number of lanes of a vector type, or 0 for scalars.
func (t Type) Len() int {
	switch t {
	case TypeVec2i, TypeVec2f, TypeVec2d:
		return 2
	case TypeVec3i, TypeVec3f, TypeVec3d:
		return 3
	case TypeVec4i, TypeVec4f, TypeVec4d:
		return 4
	default:
		return 0
	}
}

// VectorOf returns the vector type with n lanes of elem, or TypeInvalid.
func VectorOf(elem Type, n int) Type {
	for t := TypeVec2i; t <= TypeVec4d; t++ {
		if t.Elem() == elem && t.Len() == n {
			return t
		}
	}
	return TypeInvalid
}

var typeAliases = map[string]Type{
	"int16": TypeInt16,
	"int32": TypeInt32,
	"int64": TypeInt64,
}

// TypeFromName maps a type keyword to its Type.
func TypeFromName(name string) (Type, bool) {
	for t := TypeBool; t <= TypeString; t++ {
		if typeNames[t] == name {
			return t, true
		}
	}
	if t, ok := typeAliases[name]; ok {
		return t, true
	}
	return TypeInvalid, false
}

// TypeFromPrefix maps the short attribute/external prefixes (f@, i@, s@, v@).
func TypeFromPrefix(prefix string) (Type, bool) {
	switch prefix {
	case "f":
		return TypeFloat, true
	case "i":
		return TypeInt32, true
	case "s":
		return TypeString, true
	case "v":
		return TypeVec3f, true
	}
	return TypeFromName(prefix)
}
