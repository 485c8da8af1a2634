package sha1e3

import (
	"bytes"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"strings"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
)

var _ hash.Hash = (*Hasher)(nil)

// chunkReader serves its content in reads of at most n bytes.
type chunkReader struct {
	data []byte
	n    int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func randomBytes(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(pcg.Uint32())
	}
	return buf
}

var vectors = []struct {
	input string
	hex   string
}{
	{"", "f0703ca16dedc7bf4da48d2b45ff96f9ca6d357ca66629da1db3e2907b561311"},
	{"A", "d5169fe1f674164e73ec93ad7f1e8cde817b9437c6148f48d56e4a44504804df"},
	{strings.Repeat("A", 64), "d7df2356783f5219dbbeb002f98eb4ff701742939674ce0a89537fdf69de229f"},
	{strings.Repeat("A", 65), "4e8f364bd2c01d1b4511324600c831d4335f8173010bd7f375a91cf4e03cbc95"},
}

func TestVectors(t *testing.T) {
	for _, tv := range vectors {
		assert.Equal(t, tv.hex, SumHex([]byte(tv.input)))

		h := New()
		h.WriteString(tv.input)
		assert.Equal(t, tv.hex, h.SumHex())

		hp := NewStrategy(Portable)
		hp.WriteString(tv.input)
		assert.Equal(t, tv.hex, hp.SumHex())
	}
}

func TestDeterminism(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 63, 64, 65, 127, 128, 130, 4096} {
		data := randomBytes(n)
		assert.Equal(t, SumHex(data), SumHex(data))

		h1, h2 := New(), New()
		h1.Write(data)
		h2.Write(data)
		assert.Equal(t, h1.SumHex(), h2.SumHex())
	}
}

func TestFixedLength(t *testing.T) {
	for _, n := range []int{0, 1, 64, 65, 1 << 20} {
		s := SumHex(make([]byte, n))
		assert.Equal(t, 64, len(s))

		raw, err := hex.DecodeString(s)
		assert.NoError(t, err)
		assert.Equal(t, 32, len(raw))
	}
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, SumHex(nil), SumHex([]byte{}))
	assert.Equal(t, 64, len(SumHex(nil)))

	h := New()
	assert.Equal(t, SumHex(nil), h.SumHex())
}

func TestStreamingEquivalence(t *testing.T) {
	// 130 bytes served in 37-byte reads crosses both the internal 64-byte
	// blocking and the final partial block
	data := randomBytes(130)

	want := SumHex(data)

	got, err := SumReaderHex(&chunkReader{data: data, n: 37})
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	sum, err := SumReader(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(sum[:]))

	// byte-at-a-time writes
	h := New()
	for _, b := range data {
		h.Write([]byte{b})
	}
	assert.Equal(t, want, h.SumHex())
}

func TestTwoBlockBoundary(t *testing.T) {
	a64 := bytes.Repeat([]byte("A"), 64)
	a65 := bytes.Repeat([]byte("A"), 65)

	s1 := SumHex([]byte("A"))
	s64 := SumHex(a64)
	s65 := SumHex(a65)

	assert.True(t, s1 != s64)
	assert.True(t, s64 != s65)
	assert.True(t, s1 != s65)
}

func TestSumKeepsState(t *testing.T) {
	data := randomBytes(200)

	h := New()
	h.Write(data[:90])
	first := h.SumHex()
	assert.Equal(t, first, h.SumHex())

	h.Write(data[90:])
	assert.Equal(t, SumHex(data), h.SumHex())
}

func TestSumAppends(t *testing.T) {
	h := New()
	h.WriteString("some data")

	prefix := []byte("prefix")
	out := h.Sum(prefix)
	assert.Equal(t, len(prefix)+32, len(out))
	assert.DeepEqual(t, prefix, out[:len(prefix)])
}

func TestReset(t *testing.T) {
	h := New()
	h.WriteString("some data")
	want := h.SumHex()

	h.Reset()
	h.WriteString("some data")
	assert.Equal(t, want, h.SumHex())

	h.Reset()
	assert.Equal(t, SumHex(nil), h.SumHex())
}

type failReader struct{ err error }

func (f failReader) Read([]byte) (int, error) { return 0, f.err }

func TestReaderErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := SumReader(failReader{err: boom})
	assert.True(t, errors.Is(err, boom))
}
