package models

import (
	"strconv"
	"strings"
)

type floorKind uint8

const (
	floorNumber floorKind = iota
	floorText
)

// Floor is either a floor number or, when the site shows a named floor
// such as "Stuen", its translated text.
type Floor struct {
	kind   floorKind
	number int
	text   string
}

// FloorNumber builds a numeric floor.
func FloorNumber(n int) Floor {
	return Floor{kind: floorNumber, number: n}
}

// FloorText builds a named floor.
func FloorText(s string) Floor {
	return Floor{kind: floorText, text: s}
}

// ParseFloorCell reads a floor back from a record file cell.
func ParseFloorCell(s string) Floor {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return FloorNumber(n)
	}
	return FloorText(s)
}

// Number returns the floor number and whether the floor is numeric.
func (f Floor) Number() (int, bool) {
	return f.number, f.kind == floorNumber
}

// IsText reports whether the floor is a named floor.
func (f Floor) IsText() bool {
	return f.kind == floorText
}

func (f Floor) String() string {
	if f.kind == floorText {
		return f.text
	}
	return strconv.Itoa(f.number)
}
