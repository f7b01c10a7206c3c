// Package secp holds a secp256k1 signing and verification context as a
// scoped resource with an explicit lifetime.
//
// A Context is created with the capabilities it needs and closed when the
// caller is done with it:
//
//	ctx, err := secp.NewContext(secp.ContextSign)
//	if err != nil { ... }
//	defer ctx.Close()
//	pub, err := ctx.PublicKey(priv)
//
// There is no process-wide context. Secret inputs are copied into the
// context's own buffers and wiped once an operation completes; the caller
// still owns and must wipe its own copy.
package secp
