// Package contract defines the contract-violation taxonomy of the boundary.
//
// A violation is a caller bug: releasing a string through the wrong
// allocator, destroying a handle twice, using a handle after destroy, or
// letting a panic reach the C side. Violations are never returned as errors.
// They are raised with Raise, which panics with a *Violation, so they fail
// loudly inside Go. At the C boundary the result.Guard converts them into a
// process abort with a diagnostic instead of unwinding into C.
//
// Encodable failures (null input, division by zero, unknown discriminator)
// are not violations and are handled by the result package.
package contract
