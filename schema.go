package ledger

import "unsafe"

// PageSchema binds a Go type T to a fixed-width on-disk row layout. The
// engine never inspects a row's fields; it only ever moves exactly
// RowSize() bytes, so Encode and Decode are the only place row contents
// are interpreted.
//
// A schema's RowSize must stay constant for the lifetime of a ledger:
// it determines how many rows fit on a page, and therefore how row ids
// map to (page, slot) pairs. Changing it invalidates every row id
// already handed out.
type PageSchema[T any] interface {
	// RowSize is the fixed number of bytes one encoded row occupies.
	RowSize() int

	// RowsPerPage is the schema's preferred row density, used unless an
	// Options.RowsPerPage override takes precedence. Zero means the
	// schema has no preference; if Options has none either, Open falls
	// back to DefaultRowsPerPage.
	RowsPerPage() int

	// Encode writes v's wire representation into dst, which is exactly
	// RowSize() bytes.
	Encode(v *T, dst []byte) error

	// Decode reconstructs a T from src, which is exactly RowSize()
	// bytes.
	Decode(src []byte) (T, error)

	// DeletedRow returns the sentinel bytes written over a row's cell
	// when it is logically deleted. A nil or empty result means rows of
	// this schema are never deleted in place.
	DeletedRow() []byte
}

// IdentityEncode copies v's in-memory representation verbatim into
// dst. It is only correct when every field of T is already in its
// on-disk wire form, e.g. byte arrays and fixed-width fields accessed
// through little-endian getters rather than native Go integers — see
// examples/filemanifest for the pattern. Most generated PageSchema
// implementations can just call this from Encode.
func IdentityEncode[T any](v *T, dst []byte) {
	src := unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	copy(dst, src)
}

// IdentityDecode is the inverse of IdentityEncode: it builds a T by
// copying src's bytes directly into a zero value's memory.
func IdentityDecode[T any](src []byte) T {
	var v T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
	copy(dst, src)
	return v
}

// rowAt reinterprets the RowSize()-byte slice at src as a *T, aliasing
// its memory rather than copying it. Callers use this for zero-copy
// read and in-place mutation; it relies on the same wire-form-fields
// discipline as IdentityEncode/IdentityDecode.
func rowAt[T any](src []byte) *T {
	return (*T)(unsafe.Pointer(&src[0]))
}
