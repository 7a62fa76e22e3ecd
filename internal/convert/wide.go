package convert

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/markb/odbcconv/internal/sqlstate"
)

// wide is the host encoding of WCHAR buffers.
var wide = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// toWide transcodes UTF-8 to UTF-16LE. Invalid input bytes become U+FFFD.
func toWide(s []byte) []byte {
	// invalid input is replaced, never rejected
	out, _ := wide.NewEncoder().Bytes(s)
	return out
}

// fromWide transcodes UTF-16LE host text to UTF-8.
func fromWide(b []byte) ([]byte, error) {
	if len(b)%2 != 0 {
		return nil, sqlstate.New(sqlstate.InvalidBufferLength, "odd wide character length %d", len(b))
	}
	out, err := wide.NewDecoder().Bytes(b)
	if err != nil {
		return nil, sqlstate.New(sqlstate.InvalidCharValue, "%v", err)
	}
	return out, nil
}

// wideLen returns the length of b up to its first NUL code unit.
func wideLen(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}
	return len(b) &^ 1
}

// putWide writes as much of s as fits in buf as NUL terminated UTF-16LE.
// Surrogate pairs are never split. It returns how many bytes of s were
// written and the full UTF-16 length of s in bytes.
func putWide(buf, s []byte) (consumed, full int) {
	enc := toWide(s)
	full = len(enc)
	if buf == nil {
		return 0, full
	}

	room := 0
	if len(buf) >= 2 {
		room = (len(buf) - 2) / 2
	}
	units := 0
	for consumed < len(s) {
		r, size := utf8.DecodeRune(s[consumed:])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > room {
			break
		}
		units += n
		consumed += size
	}

	copy(buf, enc[:units*2])
	if len(buf) >= 2 {
		buf[units*2], buf[units*2+1] = 0, 0
	}
	return consumed, full
}
