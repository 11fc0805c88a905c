package domain

import "fmt"

// RRClass is a DNS class. Answers are always IN.
type RRClass uint16

const (
	RRClassIN  RRClass = 1
	RRClassCH  RRClass = 3
	RRClassANY RRClass = 255
)

func (c RRClass) String() string {
	switch c {
	case RRClassIN:
		return "IN"
	case RRClassCH:
		return "CH"
	case RRClassANY:
		return "ANY"
	default:
		return fmt.Sprintf("CLASS%d", uint16(c))
	}
}
