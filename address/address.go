// Package address maps between 0-indexed grid coordinates and spreadsheet
// cell references such as "A1" or "BX75".
//
// Columns use bijective base-26: there is no zero digit, so column 1 is "A",
// 26 is "Z", 27 is "AA", 52 is "AZ" and 53 is "BA".
package address

import (
	"fmt"
	"strconv"
	"strings"
)

// Gutter is the sentinel x coordinate of the reserved row-number column. It
// always addresses column "A".
const Gutter = -1

// Worksheet limits of the xlsx format.
const (
	MaxColumns = 16384 // XFD
	MaxRows    = 1048576
)

// maxColumnLetters bounds ColumnNumber input so the result fits an int.
const maxColumnLetters = 7

// Column returns the letters for the 1-indexed column n. It returns "" for
// n < 1.
func Column(n int) string {
	var chars []byte
	for n > 0 {
		d := n % 26
		n /= 26
		if d == 0 {
			// borrow: digit value 26 instead of 0
			d = 26
			n--
		}
		chars = append(chars, byte('A'+d-1))
	}
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

// ColumnNumber is the inverse of Column. Letters are case-insensitive.
func ColumnNumber(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}
	if len(letters) > maxColumnLetters {
		return 0, fmt.Errorf("column %q too long", letters)
	}
	n := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		n = n*26 + int(r-'A') + 1
	}
	return n, nil
}

// Row returns the 1-indexed row label for grid row y.
func Row(y int) string {
	return strconv.Itoa(y + 1)
}

// Cell returns the reference of grid coordinate (x, y). Any negative x
// addresses the gutter column "A".
func Cell(x, y int) string {
	if x < 0 {
		return "A" + Row(y)
	}
	return Column(x+1) + Row(y)
}

// Parse is the inverse of Cell for x >= 0. It accepts references like "b12"
// and returns 0-indexed coordinates.
func Parse(ref string) (x, y int, err error) {
	ref = strings.TrimSpace(ref)
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	col, err := ColumnNumber(ref[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	if col > MaxColumns {
		return 0, 0, fmt.Errorf("invalid cell reference %q: column beyond %s", ref, Column(MaxColumns))
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 || strings.ContainsAny(ref[i:], "+-") {
		return 0, 0, fmt.Errorf("invalid cell reference %q: bad row", ref)
	}
	if row > MaxRows {
		return 0, 0, fmt.Errorf("invalid cell reference %q: row beyond %d", ref, MaxRows)
	}
	return col - 1, row - 1, nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Rect is an inclusive rectangle of 0-indexed grid coordinates.
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width is the number of columns covered.
func (r Rect) Width() int { return r.MaxX - r.MinX + 1 }

// Height is the number of rows covered.
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

func (r Rect) String() string {
	return Cell(r.MinX, r.MinY) + ":" + Cell(r.MaxX, r.MaxY)
}

// Region parses two opposite corners, given in either order, into a Rect.
func Region(a, b string) (Rect, error) {
	ax, ay, err := Parse(a)
	if err != nil {
		return Rect{}, err
	}
	bx, by, err := Parse(b)
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		MinX: min(ax, bx),
		MinY: min(ay, by),
		MaxX: max(ax, bx),
		MaxY: max(ay, by),
	}, nil
}
