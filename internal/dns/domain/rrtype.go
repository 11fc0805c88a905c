package domain

import "fmt"

// RRType is a DNS resource record type code.
type RRType uint16

const (
	RRTypeA     RRType = 1
	RRTypeNS    RRType = 2
	RRTypeCNAME RRType = 5
	RRTypeSOA   RRType = 6
	RRTypePTR   RRType = 12
	RRTypeMX    RRType = 15
	RRTypeTXT   RRType = 16
	RRTypeAAAA  RRType = 28
	RRTypeSRV   RRType = 33
	RRTypeOPT   RRType = 41
	RRTypeHTTPS RRType = 65
	RRTypeANY   RRType = 255
	RRTypeCAA   RRType = 257
)

var rrTypeNames = map[RRType]string{
	RRTypeA:     "A",
	RRTypeNS:    "NS",
	RRTypeCNAME: "CNAME",
	RRTypeSOA:   "SOA",
	RRTypePTR:   "PTR",
	RRTypeMX:    "MX",
	RRTypeTXT:   "TXT",
	RRTypeAAAA:  "AAAA",
	RRTypeSRV:   "SRV",
	RRTypeOPT:   "OPT",
	RRTypeHTTPS: "HTTPS",
	RRTypeANY:   "ANY",
	RRTypeCAA:   "CAA",
}

// String returns the mnemonic, or "UNKNOWN(<code>)" for unnamed codes.
func (t RRType) String() string {
	if s, ok := rrTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
}

// MetricLabel returns the mnemonic, or "OTHER" for unnamed codes, so label
// values stay within the named set whatever clients send.
func (t RRType) MetricLabel() string {
	if s, ok := rrTypeNames[t]; ok {
		return s
	}
	return "OTHER"
}

// IsAnswerable reports whether the gateway can synthesize records of type t.
func (t RRType) IsAnswerable() bool {
	switch t {
	case RRTypeA, RRTypeAAAA, RRTypeTXT:
		return true
	}
	return false
}

// IsAddress reports whether t carries an IP address.
func (t RRType) IsAddress() bool {
	return t == RRTypeA || t == RRTypeAAAA
}
