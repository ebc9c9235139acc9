// Package sim provides the datapath component graph and its
// cycle-accurate execution and timing engine.
package sim

// WordBits is the width of a machine word, in bits.
const WordBits = 32

// WordBytes is the width of a machine word, in bytes. Instruction
// addresses advance by this amount.
const WordBytes = WordBits / 8

// Mask returns a bit mask covering the lowest size bits.
func Mask(size int) uint32 {
	if size >= 32 {
		return 0xffffffff
	}
	return (1 << uint(size)) - 1
}

// A Value is a fixed-width bus value. The zero value is a 1-bit zero.
type Value struct {
	size int
	bits uint32
}

// NewValue creates a Value of the given width, truncating v to fit.
func NewValue(size int, v uint32) Value {
	return Value{size: size, bits: v & Mask(size)}
}

// Size returns the width of the value, in bits.
func (v Value) Size() int {
	if v.size == 0 {
		return 1
	}
	return v.size
}

// Uint returns the raw, zero-extended bits of the value.
func (v Value) Uint() uint32 {
	return v.bits
}

// Int returns the value sign-extended to a full word.
func (v Value) Int() int32 {
	size := v.Size()
	if size < 32 && v.bits&(1<<uint(size-1)) != 0 {
		return int32(v.bits | ^Mask(size))
	}
	return int32(v.bits)
}

// Bit reports whether bit i of the value is set.
func (v Value) Bit(i int) bool {
	return v.bits&(1<<uint(i)) != 0
}

// Slice extracts bits msb..lsb (inclusive) as a new value of width
// msb-lsb+1.
func (v Value) Slice(msb, lsb int) Value {
	size := msb - lsb + 1
	return NewValue(size, v.bits>>uint(lsb))
}
