package result

import (
	"errors"
	"math"
)

// Divide returns num/den, or None when den is zero.
func Divide(num, den float32) Option[float32] {
	if den == 0 {
		return None[float32]()
	}
	return Some(num / den)
}

// HandleOption encodes Divide. It returns Sentinel when den is zero, to
// signal an undefined ratio; otherwise OK, with the ratio written to out.
func HandleOption(num, den float32, out *float32) Code {
	return EncodeOption(Divide(num, den), out)
}

// Version is a recognized header version.
type Version int

const (
	Version1 Version = iota + 1
	Version2
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "v1"
	case Version2:
		return "v2"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidHeaderLength = errors.New("invalid header length")
	ErrInvalidVersion      = errors.New("invalid version")
)

// ParseVersion recognizes "v1" and "v2".
func ParseVersion(header string) Result[Version] {
	switch header {
	case "":
		return Err[Version](ErrInvalidHeaderLength)
	case "v1":
		return Ok(Version1)
	case "v2":
		return Ok(Version2)
	default:
		return Err[Version](ErrInvalidVersion)
	}
}

// HandleResult encodes ParseVersion. It returns Sentinel when header is nil
// or when parsing fails to match a recognized version.
func HandleResult(header *string) Code {
	if header == nil {
		return Sentinel
	}
	return ParseVersion(*header).Code()
}

// AddChecked returns a+b, or None when the sum overflows int32.
func AddChecked(a, b int32) Option[int32] {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 || sum < math.MinInt32 {
		return None[int32]()
	}
	return Some(int32(sum))
}

// SumChecked folds AddChecked over xs. It is None as soon as one step
// overflows.
func SumChecked(xs []int32) Option[int32] {
	var acc int32
	for _, x := range xs {
		next, ok := AddChecked(acc, x).Get()
		if !ok {
			return None[int32]()
		}
		acc = next
	}
	return Some(acc)
}

// HexNibble returns the value of one hexadecimal digit, 0 to 15, or
// Sentinel when c is not a hexadecimal digit.
func HexNibble(c byte) Code {
	switch {
	case c >= '0' && c <= '9':
		return Code(c - '0')
	case c >= 'A' && c <= 'F':
		return Code(c - 'A' + 10)
	case c >= 'a' && c <= 'f':
		return Code(c - 'a' + 10)
	default:
		return Sentinel
	}
}
