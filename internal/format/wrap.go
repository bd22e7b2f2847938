// Package format applies Markdown emphasis markers around a selection.
//
// Selections arrive as UTF-16 code unit offsets, the unit used by browser
// text inputs, and are mapped onto the Go string before any slicing.
package format

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type Marker string

const (
	Bold   Marker = "**"
	Italic Marker = "*"
)

// ParseMarker maps a marker name from the API onto its Markdown text.
func ParseMarker(name string) (Marker, bool) {
	switch strings.ToLower(name) {
	case "bold":
		return Bold, true
	case "italic":
		return Italic, true
	}
	return "", false
}

// Shortcut resolves a keyboard chord. Ctrl or Cmd plus B or I are the only
// formatting chords.
func Shortcut(key string, ctrl, meta bool) (Marker, bool) {
	if !ctrl && !meta {
		return "", false
	}
	switch strings.ToLower(key) {
	case "b":
		return Bold, true
	case "i":
		return Italic, true
	}
	return "", false
}

type Result struct {
	Text     string
	SelStart int
	SelEnd   int
}

// ToggleWrap removes m from both sides of the selection when it is already
// wrapped and adds it otherwise. A caret (empty selection) receives an
// empty pair with the caret placed inside it. Returned offsets are UTF-16.
func ToggleWrap(buf string, selStart, selEnd int, m Marker) Result {
	if selStart > selEnd {
		selStart, selEnd = selEnd, selStart
	}
	start := utf16ToByte(buf, selStart, false)
	end := utf16ToByte(buf, selEnd, true)
	s16 := ByteToUTF16(buf, start)
	e16 := ByteToUTF16(buf, end)

	mk := string(m)
	if mk == "" {
		return Result{Text: buf, SelStart: s16, SelEnd: e16}
	}
	width := UTF16Len(mk)
	before, sel, after := buf[:start], buf[start:end], buf[end:]

	if wrapped(before, after, mk) {
		return Result{
			Text:     before[:len(before)-len(mk)] + sel + after[len(mk):],
			SelStart: s16 - width,
			SelEnd:   e16 - width,
		}
	}

	return Result{
		Text:     before + mk + sel + mk + after,
		SelStart: s16 + width,
		SelEnd:   e16 + width,
	}
}

// wrapped reports whether the selection sits inside mk. Markers share one
// character, so the shorter of the runs around the selection is read as
// nested pairs of width len(mk): "**a**" is bold, not italic, and
// "***a***" is both.
func wrapped(before, after, mk string) bool {
	c := mk[0]
	run := min(trailingRun(before, c), leadingRun(after, c))
	return (run/len(mk))%2 == 1
}

func trailingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == c {
		n++
	}
	return n
}

func leadingRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// UTF16Len counts the UTF-16 code units needed to encode s.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// UTF16ToByte maps a UTF-16 offset onto a byte offset in s. Offsets past the
// end clamp to len(s); an offset inside a surrogate pair rounds down to the
// start of that character.
func UTF16ToByte(s string, off int) int {
	return utf16ToByte(s, off, false)
}

// ByteToUTF16 maps a byte offset in s onto a UTF-16 offset.
func ByteToUTF16(s string, off int) int {
	if off > len(s) {
		off = len(s)
	}
	if off < 0 {
		return 0
	}
	return UTF16Len(s[:off])
}

func utf16ToByte(s string, off int, roundUp bool) int {
	if off <= 0 {
		return 0
	}
	units := 0
	for i := 0; i < len(s); {
		if units >= off {
			return i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := runeWidth(r)
		if units+w > off {
			if roundUp {
				return i + size
			}
			return i
		}
		units += w
		i += size
	}
	return len(s)
}

func runeWidth(r rune) int {
	if n := len(utf16.Encode([]rune{r})); n > 0 {
		return n
	}
	// Invalid UTF-8 decodes to RuneError, which encodes as a single unit.
	return 1
}
