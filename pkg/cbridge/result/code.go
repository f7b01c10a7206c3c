package result

import (
	"errors"
	"fmt"
)

// Code is the primitive carried across the boundary.
type Code int32

const (
	// OK reports success or presence.
	OK Code = 0
	// Sentinel reports failure or absence. It is outside the domain of
	// every payload encoded as a Code.
	Sentinel Code = -1
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case Sentinel:
		return "sentinel"
	default:
		return fmt.Sprintf("code(%d)", int32(c))
	}
}

// ErrSentinel is what DecodeResult returns for Sentinel.
var ErrSentinel = errors.New("result: sentinel returned")

// EncodeResult maps nil to OK and any error to Sentinel.
func EncodeResult(err error) Code {
	if err != nil {
		return Sentinel
	}
	return OK
}

// DecodeResult maps Sentinel to ErrSentinel. Every other code, including
// non-negative payloads, decodes as success.
func DecodeResult(c Code) error {
	if c == Sentinel {
		return ErrSentinel
	}
	return nil
}

// Result is the Go side of Ok(value) / Err(reason).
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful result.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Err returns a failed result. A nil err is replaced by ErrSentinel.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = ErrSentinel
	}
	return Result[T]{err: err}
}

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Unwrap returns the value or the error.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// Code encodes r with EncodeResult.
func (r Result[T]) Code() Code { return EncodeResult(r.err) }

// Option is the Go side of Some(value) / None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present option.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an absent option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// EncodeOption returns OK and writes the payload to out when o is present.
// It returns Sentinel and leaves out untouched when o is absent. out may be
// nil when the caller only needs the discriminator.
func EncodeOption[T any](o Option[T], out *T) Code {
	v, ok := o.Get()
	if !ok {
		return Sentinel
	}
	if out != nil {
		*out = v
	}
	return OK
}

// DecodeOption rebuilds an option from a code and the payload written by
// EncodeOption.
func DecodeOption[T any](c Code, payload T) Option[T] {
	if c == Sentinel {
		return None[T]()
	}
	return Some(payload)
}
