package secp

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
)

// Flags selects the capabilities of a Context. The values match the
// libsecp256k1 context flags.
type Flags uint32

const (
	flagTypeContext = 1 << 0
	flagVerify      = 1 << 8
	flagSign        = 1 << 9

	ContextNone   Flags = flagTypeContext
	ContextVerify Flags = flagTypeContext | flagVerify
	ContextSign   Flags = flagTypeContext | flagSign
)

// Has reports whether f includes every capability in other.
func (f Flags) Has(other Flags) bool { return f&other == other }

// PrivateKeySize is the length of a serialized private key.
const PrivateKeySize = 32

var (
	ErrContextClosed    = errors.New("secp: context closed")
	ErrInvalidFlags     = errors.New("secp: invalid context flags")
	ErrNotPermitted     = errors.New("secp: operation not permitted by context flags")
	ErrInvalidKey       = errors.New("secp: invalid private key")
	ErrInvalidPublicKey = errors.New("secp: invalid public key")
	ErrInvalidSignature = errors.New("secp: invalid signature")
	ErrInvalidHex       = errors.New("secp: invalid hex key")
)

// Context is a scoped secp256k1 context.
type Context struct {
	mu      sync.Mutex
	id      uuid.UUID
	flags   Flags
	closed  bool
	zeroize bool
	logger  logging.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the context logger. Key material is never logged.
func WithLogger(l logging.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithZeroize controls whether copied secrets are wiped after use. It is on
// by default.
func WithZeroize(on bool) Option {
	return func(c *Context) { c.zeroize = on }
}

// NewContext returns a context with the given capabilities.
func NewContext(flags Flags, opts ...Option) (*Context, error) {
	if !flags.Has(ContextNone) || flags&^(ContextVerify|ContextSign) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFlags, uint32(flags))
	}
	c := &Context{id: uuid.New(), flags: flags, zeroize: true}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.Ensure(c.logger).With("secp_context", c.id.String())
	return c, nil
}

// Flags returns the capabilities the context was created with.
func (c *Context) Flags() Flags { return c.flags }

// Close ends the context. It is idempotent.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Context) check(need Flags) error {
	if c.closed {
		return ErrContextClosed
	}
	if !c.flags.Has(need) {
		return ErrNotPermitted
	}
	return nil
}

func wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// withKey parses a private key from a private copy of priv and wipes both
// the copy and the parsed scalar after fn returns.
func (c *Context) withKey(priv []byte, fn func(*btcec.PrivateKey) error) error {
	if len(priv) != PrivateKeySize {
		return fmt.Errorf("%w: length %d", ErrInvalidKey, len(priv))
	}
	buf := make([]byte, PrivateKeySize)
	copy(buf, priv)
	if c.zeroize {
		defer wipe(buf)
	}

	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(buf)
	zero := scalar.IsZero()
	scalar.Zero()
	if overflow || zero {
		return ErrInvalidKey
	}

	key, _ := btcec.PrivKeyFromBytes(buf)
	if c.zeroize {
		defer key.Zero()
	}
	return fn(key)
}

// PublicKey derives the public key of priv. It needs ContextSign.
func (c *Context) PublicKey(priv []byte) (*PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(ContextSign); err != nil {
		return nil, err
	}
	var pub *PublicKey
	err := c.withKey(priv, func(k *btcec.PrivateKey) error {
		pub = &PublicKey{key: k.PubKey()}
		return nil
	})
	return pub, err
}

// Sign returns the DER-encoded ECDSA signature of hash. It needs
// ContextSign.
func (c *Context) Sign(priv, hash []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(ContextSign); err != nil {
		return nil, err
	}
	var sig []byte
	err := c.withKey(priv, func(k *btcec.PrivateKey) error {
		sig = ecdsa.Sign(k, hash).Serialize()
		return nil
	})
	return sig, err
}

// Verify checks a DER-encoded signature of hash. It needs ContextVerify.
func (c *Context) Verify(pub *PublicKey, hash, sig []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(ContextVerify); err != nil {
		return false, err
	}
	if pub == nil || pub.key == nil {
		return false, ErrInvalidPublicKey
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return parsed.Verify(hash, pub.key), nil
}

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// ParsePublicKey parses a compressed or uncompressed public key.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	k, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return &PublicKey{key: k}, nil
}

// Compressed returns the 33-byte serialization. Each call returns a new
// slice.
func (p *PublicKey) Compressed() []byte { return p.key.SerializeCompressed() }

// Uncompressed returns the 65-byte serialization. Each call returns a new
// slice.
func (p *PublicKey) Uncompressed() []byte { return p.key.SerializeUncompressed() }

// DecodeHexKey decodes a 64-digit hexadecimal private key. The caller owns
// the result and should wipe it when done.
func DecodeHexKey(s string) ([]byte, error) {
	if len(s) != 2*PrivateKeySize {
		return nil, fmt.Errorf("%w: %d digits", ErrInvalidHex, len(s))
	}
	out := make([]byte, PrivateKeySize)
	for i := 0; i < len(s); i += 2 {
		hi, lo := result.HexNibble(s[i]), result.HexNibble(s[i+1])
		if hi == result.Sentinel || lo == result.Sentinel {
			wipe(out)
			return nil, fmt.Errorf("%w: bad digit at offset %d", ErrInvalidHex, i)
		}
		out[i/2] = byte(hi<<4 | lo)
	}
	return out, nil
}
