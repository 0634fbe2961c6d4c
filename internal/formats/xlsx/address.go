package xlsx

import "errors"

// ErrInvalidAddress is returned when a column index cannot be encoded as a
// letter label.
var ErrInvalidAddress = errors.New("column index must be non-negative")

// IndexToLetters converts a 0-based column index to its spreadsheet letter
// label ("A", "B", ... "Z", "AA", ...). Column letters are a bijective
// base-26 encoding: there is no digit for zero, so the index is shifted by
// one before each division.
func IndexToLetters(index int) (string, error) {
	if index < 0 {
		return "", ErrInvalidAddress
	}

	var buf [8]byte
	i := len(buf)
	n := index + 1
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:]), nil
}

// LettersToIndex converts the leading letter run of a label to a 0-based
// column index. A trailing digit run (as in a full cell reference like
// "B12") is ignored, so the function can be pointed directly at a cell's r
// attribute. Returns -1 when the label carries no leading letters; callers
// treat that as "no column" and skip the cell.
func LettersToIndex(label string) int {
	index := 0
	seen := false
	for i := 0; i < len(label); i++ {
		c := label[i] | 0x20 // fold to lowercase
		if c < 'a' || c > 'z' {
			break
		}
		index = index*26 + int(c-'a') + 1
		seen = true
	}
	if !seen {
		return -1
	}
	return index - 1
}
