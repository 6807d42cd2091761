package xmsg

import (
	"fmt"
)

// Kind identifies which variant a Payload holds.
type Kind int

const (
	KindInvalid Kind = iota // zero value; never sendable
	KindInt
	KindFloat
	KindChar
	KindBool
	KindObject
	KindVec2
	KindVec3
	KindVec4
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindFloat:   "float",
	KindChar:    "char",
	KindBool:    "bool",
	KindObject:  "object",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Vec2 is a 2-component vector value.
type Vec2 struct{ X, Y float32 }

// Vec3 is a 3-component vector value.
type Vec3 struct{ X, Y, Z float32 }

// Vec4 is a 4-component vector value.
type Vec4 struct{ X, Y, Z, W float32 }

// value is the closed set of payload variants. The kind is derived from the
// concrete variant, so a Payload's tag and stored value cannot disagree.
type value interface {
	kind() Kind
}

type (
	intValue    int
	floatValue  float32
	charValue   rune
	boolValue   bool
	objectValue struct{ ref any }
	vec2Value   Vec2
	vec3Value   Vec3
	vec4Value   Vec4
)

func (intValue) kind() Kind    { return KindInt }
func (floatValue) kind() Kind  { return KindFloat }
func (charValue) kind() Kind   { return KindChar }
func (boolValue) kind() Kind   { return KindBool }
func (objectValue) kind() Kind { return KindObject }
func (vec2Value) kind() Kind   { return KindVec2 }
func (vec3Value) kind() Kind   { return KindVec3 }
func (vec4Value) kind() Kind   { return KindVec4 }

// Payload is an immutable tagged value carried by a Message.
// The zero Payload has KindInvalid.
type Payload struct {
	v value
}

func NewInt(v int) Payload       { return Payload{v: intValue(v)} }
func NewFloat(v float32) Payload { return Payload{v: floatValue(v)} }
func NewChar(v rune) Payload     { return Payload{v: charValue(v)} }
func NewBool(v bool) Payload     { return Payload{v: boolValue(v)} }
func NewVec2(v Vec2) Payload     { return Payload{v: vec2Value(v)} }
func NewVec3(v Vec3) Payload     { return Payload{v: vec3Value(v)} }
func NewVec4(v Vec4) Payload     { return Payload{v: vec4Value(v)} }

// NewObject wraps an object handle. The payload does not own ref; the
// producer and consumer manage the referenced object's lifetime.
func NewObject(ref any) Payload { return Payload{v: objectValue{ref: ref}} }

// PayloadOf builds a Payload from a dynamically typed value. Only the exact Go
// types accepted by the New* constructors are supported; use NewObject to
// carry anything else as a handle.
func PayloadOf(v any) (Payload, error) {
	switch x := v.(type) {
	case Payload:
		if !x.IsValid() {
			return Payload{}, ErrInvalidPayload
		}
		return x, nil
	case int:
		return NewInt(x), nil
	case float32:
		return NewFloat(x), nil
	case rune:
		return NewChar(x), nil
	case bool:
		return NewBool(x), nil
	case Vec2:
		return NewVec2(x), nil
	case Vec3:
		return NewVec3(x), nil
	case Vec4:
		return NewVec4(x), nil
	default:
		return Payload{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

// Kind returns the payload kind, KindInvalid for the zero Payload.
func (p Payload) Kind() Kind {
	if p.v == nil {
		return KindInvalid
	}
	return p.v.kind()
}

func (p Payload) IsValid() bool  { return p.v != nil }
func (p Payload) Is(k Kind) bool { return p.Kind() == k }
func (p Payload) IsInt() bool    { return p.Is(KindInt) }
func (p Payload) IsFloat() bool  { return p.Is(KindFloat) }
func (p Payload) IsChar() bool   { return p.Is(KindChar) }
func (p Payload) IsBool() bool   { return p.Is(KindBool) }
func (p Payload) IsObject() bool { return p.Is(KindObject) }
func (p Payload) IsVec2() bool   { return p.Is(KindVec2) }
func (p Payload) IsVec3() bool   { return p.Is(KindVec3) }
func (p Payload) IsVec4() bool   { return p.Is(KindVec4) }

func (p Payload) mismatch(want Kind) error {
	return &TypeMismatchError{Want: want, Got: p.Kind()}
}

// Int returns the int value or a *TypeMismatchError.
func (p Payload) Int() (int, error) {
	if v, ok := p.v.(intValue); ok {
		return int(v), nil
	}
	return 0, p.mismatch(KindInt)
}

func (p Payload) Float() (float32, error) {
	if v, ok := p.v.(floatValue); ok {
		return float32(v), nil
	}
	return 0, p.mismatch(KindFloat)
}

func (p Payload) Char() (rune, error) {
	if v, ok := p.v.(charValue); ok {
		return rune(v), nil
	}
	return 0, p.mismatch(KindChar)
}

func (p Payload) Bool() (bool, error) {
	if v, ok := p.v.(boolValue); ok {
		return bool(v), nil
	}
	return false, p.mismatch(KindBool)
}

// Object returns the carried handle. A nil handle is a valid object payload.
func (p Payload) Object() (any, error) {
	if v, ok := p.v.(objectValue); ok {
		return v.ref, nil
	}
	return nil, p.mismatch(KindObject)
}

func (p Payload) Vec2() (Vec2, error) {
	if v, ok := p.v.(vec2Value); ok {
		return Vec2(v), nil
	}
	return Vec2{}, p.mismatch(KindVec2)
}

func (p Payload) Vec3() (Vec3, error) {
	if v, ok := p.v.(vec3Value); ok {
		return Vec3(v), nil
	}
	return Vec3{}, p.mismatch(KindVec3)
}

func (p Payload) Vec4() (Vec4, error) {
	if v, ok := p.v.(vec4Value); ok {
		return Vec4(v), nil
	}
	return Vec4{}, p.mismatch(KindVec4)
}

// Must* accessors panic with a *TypeMismatchError on a kind mismatch.

func (p Payload) MustInt() int       { return must(p.Int()) }
func (p Payload) MustFloat() float32 { return must(p.Float()) }
func (p Payload) MustChar() rune     { return must(p.Char()) }
func (p Payload) MustBool() bool     { return must(p.Bool()) }
func (p Payload) MustObject() any    { return must(p.Object()) }
func (p Payload) MustVec2() Vec2     { return must(p.Vec2()) }
func (p Payload) MustVec3() Vec3     { return must(p.Vec3()) }
func (p Payload) MustVec4() Vec4     { return must(p.Vec4()) }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the payload as kind(value) for diagnostics.
func (p Payload) String() string {
	switch v := p.v.(type) {
	case nil:
		return "invalid()"
	case charValue:
		return fmt.Sprintf("char(%q)", rune(v))
	case objectValue:
		return fmt.Sprintf("object(%T)", v.ref)
	case vec2Value:
		return fmt.Sprintf("vec2(%g, %g)", v.X, v.Y)
	case vec3Value:
		return fmt.Sprintf("vec3(%g, %g, %g)", v.X, v.Y, v.Z)
	case vec4Value:
		return fmt.Sprintf("vec4(%g, %g, %g, %g)", v.X, v.Y, v.Z, v.W)
	default:
		return fmt.Sprintf("%s(%v)", v.kind(), v)
	}
}
