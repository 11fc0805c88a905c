package wire

import "fmt"

// Opcode is the 4-bit operation code of a message. Values other than the
// named constants are preserved as-is so they survive a decode/encode pass.
type Opcode uint8

const (
	OpcodeQuery Opcode = 0
)

// Known reports whether o is one of the named opcodes.
func (o Opcode) Known() bool {
	return o == OpcodeQuery
}

func (o Opcode) String() string {
	if o == OpcodeQuery {
		return "QUERY"
	}
	return fmt.Sprintf("OTHER(%d)", uint8(o))
}

// RCode is the 4-bit response code. Like Opcode it is open: unnamed values
// round-trip unchanged.
type RCode uint8

const (
	RCodeNoError       RCode = 0
	RCodeFormatError   RCode = 1
	RCodeServerFailure RCode = 2
)

// Known reports whether r is one of the named response codes.
func (r RCode) Known() bool {
	switch r {
	case RCodeNoError, RCodeFormatError, RCodeServerFailure:
		return true
	}
	return false
}

func (r RCode) String() string {
	switch r {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormatError:
		return "FORMERR"
	case RCodeServerFailure:
		return "SERVFAIL"
	default:
		return fmt.Sprintf("OTHER(%d)", uint8(r))
	}
}

const (
	flagQR       uint16 = 0x8000
	flagOpcode   uint16 = 0x7800
	opcodeShift         = 11
	flagAA       uint16 = 0x0400
	flagTC       uint16 = 0x0200
	flagRD       uint16 = 0x0100
	flagRA       uint16 = 0x0080
	flagRCode    uint16 = 0x000F
	fieldMask4          = 0x0F
	flagsWireLen        = 2
)

// Flags is the decoded second 16-bit word of the header. The Z bit and the
// reserved bits between RA and RCODE are not kept and are written as zero.
type Flags struct {
	QR     bool
	Opcode Opcode
	AA     bool
	TC     bool
	RD     bool
	RA     bool
	RCode  RCode
}

// FlagsFromUint16 unpacks a raw flags word.
func FlagsFromUint16(v uint16) Flags {
	return Flags{
		QR:     v&flagQR != 0,
		Opcode: Opcode((v & flagOpcode) >> opcodeShift),
		AA:     v&flagAA != 0,
		TC:     v&flagTC != 0,
		RD:     v&flagRD != 0,
		RA:     v&flagRA != 0,
		RCode:  RCode(v & flagRCode),
	}
}

// Uint16 packs f into its wire word. Opcode and RCode are truncated to 4 bits.
func (f Flags) Uint16() uint16 {
	var v uint16
	if f.QR {
		v |= flagQR
	}
	v |= (uint16(f.Opcode) & fieldMask4) << opcodeShift
	if f.AA {
		v |= flagAA
	}
	if f.TC {
		v |= flagTC
	}
	if f.RD {
		v |= flagRD
	}
	if f.RA {
		v |= flagRA
	}
	v |= uint16(f.RCode) & fieldMask4
	return v
}

// ParseFlags decodes the 2-byte flags word from the front of b.
func ParseFlags(b []byte) ([]byte, Flags, error) {
	rest, v, err := readUint16(b, "flags")
	if err != nil {
		return b, Flags{}, err
	}
	return rest, FlagsFromUint16(v), nil
}

func (f Flags) Serialize() []byte {
	v := f.Uint16()
	return []byte{byte(v >> 8), byte(v)}
}
