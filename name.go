package ledger

import (
	"encoding/base64"
	"fmt"
)

// NameSize is the fixed width, in bytes, of a ledger's name field.
const NameSize = 9

// DescriptionSize is the fixed width, in bytes, of a ledger's free-text
// description field.
const DescriptionSize = 32

var nameEncoding = base64.URLEncoding.WithPadding(base64.NoPadding)

// Name is a ledger's fixed-width identifier. It doubles as the basis
// for the on-disk file name: a Name's String form is the URL-safe,
// unpadded base64 encoding of its 9 raw bytes, always 12 characters.
type Name [NameSize]byte

// BlankName is the blank Name: 9 space bytes.
var BlankName = NewName("")

// NewName builds a Name from s, space-padding or truncating to
// NameSize bytes as needed.
func NewName(s string) Name {
	var n Name
	return Name(newFixedASCII(n[:], s))
}

// String returns the URL-safe, unpadded base64 encoding of n, suitable
// for use as a filename.
func (n Name) String() string {
	return nameEncoding.EncodeToString(n[:])
}

// ParseName decodes s, the base64 form produced by String, back into a
// Name.
func ParseName(s string) (Name, error) {
	b, err := nameEncoding.DecodeString(s)
	if err != nil {
		return Name{}, fmt.Errorf("ledger: parse name %q: %w", s, err)
	}
	if len(b) != NameSize {
		return Name{}, fmt.Errorf("ledger: parse name %q: decoded length %d, want %d", s, len(b), NameSize)
	}
	var n Name
	copy(n[:], b)
	return n, nil
}

// MustParseName is ParseName for call sites building a Name from a
// literal known-good filename.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Description is a ledger's fixed-width free-text description.
type Description [DescriptionSize]byte

// BlankDescription is the blank Description: 32 space bytes.
var BlankDescription = NewDescription("")

// NewDescription builds a Description from s, space-padding or
// truncating to DescriptionSize bytes as needed.
func NewDescription(s string) Description {
	var d Description
	return Description(newFixedASCII(d[:], s))
}

// String returns d with trailing padding spaces trimmed.
func (d Description) String() string {
	return trimFixedASCII(d[:])
}

// newFixedASCII copies s into dst, space-padding or truncating to
// len(dst) bytes, and returns dst.
func newFixedASCII(dst []byte, s string) []byte {
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, s)
	return dst
}

func trimFixedASCII(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}
