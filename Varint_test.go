package nodestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignedVarintRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 63, -64, 64, -65, 1000000, -1000000, 2147483647, -2147483648}
	for _, v := range values {
		s := newSink()
		writeSigned(s, v)
		require.Equal(t, computeSignedEncodedWidth(v), len(s.Bytes()))

		got, err := decodeSigned(newSource(s.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)

		got2, err := decodeSignedAt(s.Bytes(), 0)
		require.NoError(t, err)
		require.Equal(t, v, got2)
	}
}

func TestSignedLongVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		s := newSink()
		writeSignedLong(s, v)
		require.Equal(t, computeSignedLongEncodedWidth(v), len(s.Bytes()))

		got, err := decodeSignedLong(newSource(s.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestDeltaCodecRoundTrip(t *testing.T) {
	pairs := [][2]int64{{100, 100}, {0, 100}, {5000, 100}, {100, 5000}, {1 << 50, 1}}
	for _, p := range pairs {
		target, base := p[0], p[1]
		s := newSink()
		writeDelta(s, target, base)
		require.Equal(t, computeDeltaEncodedWidth(target, base), len(s.Bytes()))

		got, err := decodeDelta(newSource(s.Bytes()), base)
		require.NoError(t, err)
		require.Equal(t, target, got)

		got2, err := decodeDeltaAt(s.Bytes(), 0, base)
		require.NoError(t, err)
		require.Equal(t, target, got2)
	}
}

func TestFixedLongRoundTrip(t *testing.T) {
	s := newSink()
	writeLong(s, 0xDEADBEEFCAFEBABE)
	require.Len(t, s.Bytes(), 8)

	got, err := readLong(s.Bytes(), 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0xDEADBEEFCAFEBABE), got)
}

func TestReadLongTruncated(t *testing.T) {
	_, err := readLong([]byte{1, 2, 3}, 0)
	require.Error(t, err)
}

func TestVarintOverflow(t *testing.T) {
	// ten continuation bytes never terminated: always overflows a 64-bit varint
	bad := make([]byte, 11)
	for i := range bad {
		bad[i] = 0x80
	}
	_, err := decodeSignedLong(newSource(bad))
	require.Error(t, err)
}
