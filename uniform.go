package gpuimage

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// UniformType is the shader-side type of a uniform parameter.
type UniformType uint8

const (
	TypeFloat UniformType = iota + 1
	TypeInt
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat3
	TypeMat4
	// TypeFloatArray is a fixed-length float array, packed four to a vec4.
	TypeFloatArray
)

func (t UniformType) String() string {
	switch t {
	case TypeFloat:
		return "f32"
	case TypeInt:
		return "i32"
	case TypeVec2:
		return "vec2<f32>"
	case TypeVec3:
		return "vec3<f32>"
	case TypeVec4:
		return "vec4<f32>"
	case TypeMat3:
		return "mat3x3<f32>"
	case TypeMat4:
		return "mat4x4<f32>"
	case TypeFloatArray:
		return "array"
	default:
		return fmt.Sprintf("UniformType(%d)", t)
	}
}

// align and size follow the WGSL uniform address space layout rules.
func (t UniformType) align() int {
	switch t {
	case TypeFloat, TypeInt:
		return 4
	case TypeVec2:
		return 8
	default:
		return 16
	}
}

func (t UniformType) size(count int) int {
	switch t {
	case TypeFloat, TypeInt:
		return 4
	case TypeVec2:
		return 8
	case TypeVec3:
		return 12
	case TypeVec4:
		return 16
	case TypeMat3:
		return 48
	case TypeMat4:
		return 64
	case TypeFloatArray:
		return arrayVec4s(count) * 16
	default:
		return 0
	}
}

func arrayVec4s(count int) int {
	return (count + 3) / 4
}

// UniformDecl declares one parameter in an effect's schema.
type UniformDecl struct {
	Name  string
	Type  UniformType
	Count int // element count, TypeFloatArray only
}

// UniformField is a declared parameter with its resolved block offset.
type UniformField struct {
	UniformDecl
	Offset int
	Size   int
}

// OutputSizeUniform is the built-in first member of every uniform block.
// It holds the output size in pixels.
const OutputSizeUniform = "outputSize"

// UniformLayout maps parameter names to offsets in a uniform block.
type UniformLayout struct {
	fields []UniformField
	index  map[string]int
	size   int
}

// NewUniformLayout lays out decls after the built-in outputSize member.
func NewUniformLayout(decls []UniformDecl) (*UniformLayout, error) {
	l := &UniformLayout{index: make(map[string]int, len(decls)+1)}
	all := make([]UniformDecl, 0, len(decls)+1)
	all = append(all, UniformDecl{Name: OutputSizeUniform, Type: TypeVec2})
	all = append(all, decls...)

	cursor, maxAlign := 0, 4
	for _, d := range all {
		if d.Name == "" {
			return nil, fmt.Errorf("gpuimage: uniform with empty name")
		}
		if _, dup := l.index[d.Name]; dup {
			return nil, fmt.Errorf("gpuimage: duplicate uniform %q", d.Name)
		}
		if d.Type < TypeFloat || d.Type > TypeFloatArray {
			return nil, fmt.Errorf("gpuimage: uniform %q: invalid type %v", d.Name, d.Type)
		}
		if d.Type == TypeFloatArray && d.Count <= 0 {
			return nil, fmt.Errorf("gpuimage: uniform %q: array needs a positive count", d.Name)
		}
		a := d.Type.align()
		maxAlign = max(maxAlign, a)
		off := roundUp(cursor, a)
		sz := d.Type.size(d.Count)
		l.index[d.Name] = len(l.fields)
		l.fields = append(l.fields, UniformField{UniformDecl: d, Offset: off, Size: sz})
		cursor = off + sz
	}
	l.size = roundUp(cursor, maxAlign)
	return l, nil
}

func roundUp(n, a int) int {
	return (n + a - 1) / a * a
}

// Size returns the block size in bytes.
func (l *UniformLayout) Size() int { return l.size }

// BufferSize returns the size to allocate for the block's buffer.
func (l *UniformLayout) BufferSize() int { return roundUp(l.size, 16) }

// Fields returns the fields in declaration order.
func (l *UniformLayout) Fields() []UniformField { return l.fields }

// Field looks up a field by name.
func (l *UniformLayout) Field(name string) (UniformField, bool) {
	i, ok := l.index[name]
	if !ok {
		return UniformField{}, false
	}
	return l.fields[i], true
}

// WGSL renders the layout as a WGSL struct declaration named Params.
func (l *UniformLayout) WGSL() string {
	var b strings.Builder
	b.WriteString("struct Params {\n")
	for _, f := range l.fields {
		typ := f.Type.String()
		if f.Type == TypeFloatArray {
			typ = fmt.Sprintf("array<vec4<f32>, %d>", arrayVec4s(f.Count))
		}
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name, typ)
	}
	b.WriteString("};\n")
	return b.String()
}

// UniformLocation is a resolved handle to one field of a uniform block.
// The zero value is invalid.
type UniformLocation struct {
	index  int
	offset int
	typ    UniformType
	count  int
	valid  bool
}

// Valid reports whether the location was resolved.
func (l UniformLocation) Valid() bool { return l.valid }

// Type returns the field type.
func (l UniformLocation) Type() UniformType { return l.typ }

// Value is a typed uniform value. Implemented by Float, Int, Vec2, Vec3,
// Vec4, Mat3, Mat4 and Floats.
type Value interface {
	Type() UniformType
	encode(dst []byte, count int)
}

type (
	// Float is a 32-bit float uniform.
	Float float32
	// Int is a 32-bit signed integer uniform.
	Int int32
	// Vec2 is a two component vector.
	Vec2 [2]float32
	// Vec3 is a three component vector.
	Vec3 [3]float32
	// Vec4 is a four component vector; kernels also use it for colors.
	Vec4 [4]float32
	// Mat3 is a column-major 3x3 matrix.
	Mat3 [9]float32
	// Mat4 is a column-major 4x4 matrix.
	Mat4 [16]float32
	// Floats is a float array; extra elements are dropped, missing ones keep
	// their previous value.
	Floats []float32
)

func (Float) Type() UniformType  { return TypeFloat }
func (Int) Type() UniformType    { return TypeInt }
func (Vec2) Type() UniformType   { return TypeVec2 }
func (Vec3) Type() UniformType   { return TypeVec3 }
func (Vec4) Type() UniformType   { return TypeVec4 }
func (Mat3) Type() UniformType   { return TypeMat3 }
func (Mat4) Type() UniformType   { return TypeMat4 }
func (Floats) Type() UniformType { return TypeFloatArray }

func putF32(dst []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
}

func getF32(src []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
}

func (v Float) encode(dst []byte, _ int) { putF32(dst, 0, float32(v)) }
func (v Int) encode(dst []byte, _ int) {
	binary.LittleEndian.PutUint32(dst, uint32(v)) //nolint:gosec // two's complement bit pattern
}

func (v Vec2) encode(dst []byte, _ int) {
	for i, c := range v {
		putF32(dst, i*4, c)
	}
}

func (v Vec3) encode(dst []byte, _ int) {
	for i, c := range v {
		putF32(dst, i*4, c)
	}
}

func (v Vec4) encode(dst []byte, _ int) {
	for i, c := range v {
		putF32(dst, i*4, c)
	}
}

// mat3x3 columns are padded to 16 bytes.
func (v Mat3) encode(dst []byte, _ int) {
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			putF32(dst, col*16+row*4, v[col*3+row])
		}
	}
}

func (v Mat4) encode(dst []byte, _ int) {
	for i, c := range v {
		putF32(dst, i*4, c)
	}
}

func (v Floats) encode(dst []byte, count int) {
	for i := 0; i < len(v) && i < count; i++ {
		putF32(dst, i*4, v[i])
	}
}

// UniformBlock is the CPU-side staging copy of a program's uniforms.
type UniformBlock struct {
	layout *UniformLayout
	data   []byte
}

// NewUniformBlock allocates a zeroed block for layout.
func NewUniformBlock(layout *UniformLayout) *UniformBlock {
	return &UniformBlock{layout: layout, data: make([]byte, layout.BufferSize())}
}

// LoadUniformBlock wraps a packed block received by a device. The bytes are
// copied.
func LoadUniformBlock(layout *UniformLayout, data []byte) *UniformBlock {
	b := NewUniformBlock(layout)
	copy(b.data, data)
	return b
}

// Layout returns the block's layout.
func (b *UniformBlock) Layout() *UniformLayout { return b.layout }

// Bytes returns the packed block. Callers must not retain it across writes.
func (b *UniformBlock) Bytes() []byte { return b.data }

// Set writes v at loc. It reports false when the value type does not match
// the field type.
func (b *UniformBlock) Set(loc UniformLocation, v Value) bool {
	if !loc.valid || v == nil || v.Type() != loc.typ {
		return false
	}
	v.encode(b.data[loc.offset:], loc.count)
	return true
}

func (b *UniformBlock) field(name string, t UniformType) (UniformField, bool) {
	f, ok := b.layout.Field(name)
	if !ok || f.Type != t {
		return UniformField{}, false
	}
	return f, true
}

// Float reads a float field; missing fields read as zero.
func (b *UniformBlock) Float(name string) float32 {
	f, ok := b.field(name, TypeFloat)
	if !ok {
		return 0
	}
	return getF32(b.data, f.Offset)
}

// Int reads an int field.
func (b *UniformBlock) Int(name string) int32 {
	f, ok := b.field(name, TypeInt)
	if !ok {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b.data[f.Offset:])) //nolint:gosec // two's complement bit pattern
}

// Vec2 reads a vec2 field.
func (b *UniformBlock) Vec2(name string) Vec2 {
	var v Vec2
	if f, ok := b.field(name, TypeVec2); ok {
		for i := range v {
			v[i] = getF32(b.data, f.Offset+i*4)
		}
	}
	return v
}

// Vec3 reads a vec3 field.
func (b *UniformBlock) Vec3(name string) Vec3 {
	var v Vec3
	if f, ok := b.field(name, TypeVec3); ok {
		for i := range v {
			v[i] = getF32(b.data, f.Offset+i*4)
		}
	}
	return v
}

// Vec4 reads a vec4 field.
func (b *UniformBlock) Vec4(name string) Vec4 {
	var v Vec4
	if f, ok := b.field(name, TypeVec4); ok {
		for i := range v {
			v[i] = getF32(b.data, f.Offset+i*4)
		}
	}
	return v
}

// Mat3 reads a mat3x3 field.
func (b *UniformBlock) Mat3(name string) Mat3 {
	var m Mat3
	if f, ok := b.field(name, TypeMat3); ok {
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				m[col*3+row] = getF32(b.data, f.Offset+col*16+row*4)
			}
		}
	}
	return m
}

// Mat4 reads a mat4x4 field.
func (b *UniformBlock) Mat4(name string) Mat4 {
	var m Mat4
	if f, ok := b.field(name, TypeMat4); ok {
		for i := range m {
			m[i] = getF32(b.data, f.Offset+i*4)
		}
	}
	return m
}

// FloatAt reads element i of a float array field.
func (b *UniformBlock) FloatAt(name string, i int) float32 {
	f, ok := b.field(name, TypeFloatArray)
	if !ok || i < 0 || i >= f.Count {
		return 0
	}
	return getF32(b.data, f.Offset+i*4)
}

// Floats reads a whole float array field.
func (b *UniformBlock) Floats(name string) []float32 {
	f, ok := b.field(name, TypeFloatArray)
	if !ok {
		return nil
	}
	out := make([]float32, f.Count)
	for i := range out {
		out[i] = getF32(b.data, f.Offset+i*4)
	}
	return out
}
