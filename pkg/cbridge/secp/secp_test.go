package secp_test

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/secp"
)

const (
	generatorX = "79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"
	generatorY = "483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"
	// secp256k1 group order
	orderN = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"
)

func keyOne() []byte {
	k := make([]byte, secp.PrivateKeySize)
	k[len(k)-1] = 1
	return k
}

func TestFlagValues(t *testing.T) {
	assert.EqualValues(t, 513, secp.ContextSign)
	assert.EqualValues(t, 257, secp.ContextVerify)
	assert.True(t, (secp.ContextSign | secp.ContextVerify).Has(secp.ContextVerify))
}

func TestPublicKeyOfOneIsGenerator(t *testing.T) {
	ctx, err := secp.NewContext(secp.ContextSign)
	require.NoError(t, err)
	defer ctx.Close()

	pub, err := ctx.PublicKey(keyOne())
	require.NoError(t, err)
	assert.Equal(t, "02"+generatorX, strings.ToUpper(hex.EncodeToString(pub.Compressed())))
	assert.Equal(t, "04"+generatorX+generatorY, strings.ToUpper(hex.EncodeToString(pub.Uncompressed())))

	c := pub.Compressed()
	c[0] = 0xff
	assert.Equal(t, byte(0x02), pub.Compressed()[0], "serializations are copies")
}

func TestSignVerify(t *testing.T) {
	ctx, err := secp.NewContext(secp.ContextSign | secp.ContextVerify)
	require.NoError(t, err)
	defer ctx.Close()

	priv, err := secp.DecodeHexKey("9a9a6539856be209b8ea2adbd155c0919646d108515b60b7b13d6a79f1ae5174")
	require.NoError(t, err)
	hash := sha256.Sum256([]byte("boundary"))

	sig, err := ctx.Sign(priv, hash[:])
	require.NoError(t, err)
	pub, err := ctx.PublicKey(priv)
	require.NoError(t, err)

	ok, err := ctx.Verify(pub, hash[:], sig)
	require.NoError(t, err)
	assert.True(t, ok)

	other := sha256.Sum256([]byte("tampered"))
	ok, err = ctx.Verify(pub, other[:], sig)
	require.NoError(t, err)
	assert.False(t, ok)

	parsed, err := secp.ParsePublicKey(pub.Compressed())
	require.NoError(t, err)
	assert.Equal(t, pub.Uncompressed(), parsed.Uncompressed())
}

func TestFlagsGateOperations(t *testing.T) {
	verifyOnly, err := secp.NewContext(secp.ContextVerify)
	require.NoError(t, err)
	_, err = verifyOnly.PublicKey(keyOne())
	assert.ErrorIs(t, err, secp.ErrNotPermitted)
	_, err = verifyOnly.Sign(keyOne(), make([]byte, 32))
	assert.ErrorIs(t, err, secp.ErrNotPermitted)

	signOnly, err := secp.NewContext(secp.ContextSign)
	require.NoError(t, err)
	pub, err := signOnly.PublicKey(keyOne())
	require.NoError(t, err)
	_, err = signOnly.Verify(pub, make([]byte, 32), []byte{0x30})
	assert.ErrorIs(t, err, secp.ErrNotPermitted)

	_, err = secp.NewContext(0)
	assert.ErrorIs(t, err, secp.ErrInvalidFlags)
	_, err = secp.NewContext(secp.ContextSign | 1<<4)
	assert.ErrorIs(t, err, secp.ErrInvalidFlags)
}

func TestCloseIsScoped(t *testing.T) {
	ctx, err := secp.NewContext(secp.ContextSign)
	require.NoError(t, err)
	require.NoError(t, ctx.Close())
	require.NoError(t, ctx.Close())

	_, err = ctx.PublicKey(keyOne())
	assert.ErrorIs(t, err, secp.ErrContextClosed)
}

func TestInvalidKeys(t *testing.T) {
	ctx, err := secp.NewContext(secp.ContextSign)
	require.NoError(t, err)
	defer ctx.Close()

	n, err := hex.DecodeString(orderN)
	require.NoError(t, err)
	for name, k := range map[string][]byte{
		"zero":  make([]byte, 32),
		"order": n,
		"short": {1, 2, 3},
	} {
		_, err := ctx.PublicKey(k)
		assert.ErrorIs(t, err, secp.ErrInvalidKey, name)
	}
}

func TestCallerKeyIsNotWiped(t *testing.T) {
	ctx, err := secp.NewContext(secp.ContextSign)
	require.NoError(t, err)
	defer ctx.Close()

	k := keyOne()
	_, err = ctx.PublicKey(k)
	require.NoError(t, err)
	assert.Equal(t, keyOne(), k, "the context wipes its own copy only")
}

func TestDecodeHexKey(t *testing.T) {
	k, err := secp.DecodeHexKey(strings.Repeat("0", 63) + "F")
	require.NoError(t, err)
	assert.Equal(t, byte(0x0f), k[31])

	_, err = secp.DecodeHexKey("abc")
	assert.ErrorIs(t, err, secp.ErrInvalidHex)
	_, err = secp.DecodeHexKey(strings.Repeat("g", 64))
	assert.ErrorIs(t, err, secp.ErrInvalidHex)
}
