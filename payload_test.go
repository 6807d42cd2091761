package xmsg

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle struct{ id int }

// accessors reads p through every kind's accessor.
func accessors(p Payload) map[Kind]error {
	errs := make(map[Kind]error, 8)
	_, errs[KindInt] = p.Int()
	_, errs[KindFloat] = p.Float()
	_, errs[KindChar] = p.Char()
	_, errs[KindBool] = p.Bool()
	_, errs[KindObject] = p.Object()
	_, errs[KindVec2] = p.Vec2()
	_, errs[KindVec3] = p.Vec3()
	_, errs[KindVec4] = p.Vec4()
	return errs
}

func TestPayload_RoundTrip(t *testing.T) {
	obj := &handle{id: 7}

	tests := []struct {
		name string
		p    Payload
		kind Kind
		read func(Payload) (any, error)
		want any
	}{
		{"int", NewInt(-42), KindInt, func(p Payload) (any, error) { return p.Int() }, -42},
		{"float", NewFloat(3.25), KindFloat, func(p Payload) (any, error) { return p.Float() }, float32(3.25)},
		{"char", NewChar('x'), KindChar, func(p Payload) (any, error) { return p.Char() }, 'x'},
		{"bool", NewBool(true), KindBool, func(p Payload) (any, error) { return p.Bool() }, true},
		{"object", NewObject(obj), KindObject, func(p Payload) (any, error) { return p.Object() }, obj},
		{"vec2", NewVec2(Vec2{1, 2}), KindVec2, func(p Payload) (any, error) { return p.Vec2() }, Vec2{1, 2}},
		{"vec3", NewVec3(Vec3{1, 2, 3}), KindVec3, func(p Payload) (any, error) { return p.Vec3() }, Vec3{1, 2, 3}},
		{"vec4", NewVec4(Vec4{1, 2, 3, 4}), KindVec4, func(p Payload) (any, error) { return p.Vec4() }, Vec4{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.p.IsValid())
			assert.Equal(t, tt.kind, tt.p.Kind())
			assert.True(t, tt.p.Is(tt.kind))

			got, err := tt.read(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			for k, err := range accessors(tt.p) {
				if k == tt.kind {
					assert.NoError(t, err, "accessor %s", k)
					continue
				}
				require.Error(t, err, "accessor %s on %s payload", k, tt.kind)
				assert.ErrorIs(t, err, ErrTypeMismatch)

				var tm *TypeMismatchError
				require.True(t, errors.As(err, &tm))
				assert.Equal(t, k, tm.Want)
				assert.Equal(t, tt.kind, tm.Got)
			}
		})
	}
}

func TestPayload_FloatBitExact(t *testing.T) {
	for _, f := range []float32{0, float32(math.Copysign(0, -1)), math.SmallestNonzeroFloat32, math.MaxFloat32, float32(math.Inf(-1))} {
		got := NewFloat(f).MustFloat()
		assert.Equal(t, math.Float32bits(f), math.Float32bits(got))
	}
	nan := float32(math.NaN())
	assert.Equal(t, math.Float32bits(nan), math.Float32bits(NewFloat(nan).MustFloat()))
}

func TestPayload_NoCoercion(t *testing.T) {
	_, err := NewInt(1).Float()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewFloat(1).Int()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewChar('1').Int()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// Each vector accessor checks its own kind.
	_, err = NewVec2(Vec2{1, 2}).Vec3()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = NewVec2(Vec2{1, 2}).Vec4()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = NewVec3(Vec3{1, 2, 3}).Vec3()
	assert.NoError(t, err)
	_, err = NewVec4(Vec4{1, 2, 3, 4}).Vec4()
	assert.NoError(t, err)
}

func TestPayload_Zero(t *testing.T) {
	var p Payload
	assert.False(t, p.IsValid())
	assert.Equal(t, KindInvalid, p.Kind())
	assert.Equal(t, "invalid", p.Kind().String())
	for k, err := range accessors(p) {
		assert.ErrorIs(t, err, ErrTypeMismatch, "accessor %s", k)
	}
}

func TestPayload_MustPanics(t *testing.T) {
	p := NewBool(false)
	assert.NotPanics(t, func() { _ = p.MustBool() })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), "want vec3, got bool")
	}()
	_ = p.MustVec3()
}

func TestPayload_NilObjectHandle(t *testing.T) {
	p := NewObject(nil)
	require.True(t, p.IsObject())
	ref, err := p.Object()
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestPayloadOf(t *testing.T) {
	p, err := PayloadOf(5)
	require.NoError(t, err)
	assert.Equal(t, 5, p.MustInt())

	p, err = PayloadOf('z')
	require.NoError(t, err)
	assert.True(t, p.IsChar())

	p, err = PayloadOf(Vec4{W: 1})
	require.NoError(t, err)
	assert.True(t, p.IsVec4())

	p, err = PayloadOf(NewBool(true))
	require.NoError(t, err)
	assert.True(t, p.MustBool())

	_, err = PayloadOf(Payload{})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = PayloadOf(1.5) // float64 is not a payload kind
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	_, err = PayloadOf("text")
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestPayload_String(t *testing.T) {
	assert.Equal(t, "int(3)", NewInt(3).String())
	assert.Equal(t, "bool(true)", NewBool(true).String())
	assert.Equal(t, "char('a')", NewChar('a').String())
	assert.Equal(t, "vec2(1, 2.5)", NewVec2(Vec2{1, 2.5}).String())
	assert.Equal(t, "object(*xmsg.handle)", NewObject(&handle{}).String())
	assert.Equal(t, "invalid()", Payload{}.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
