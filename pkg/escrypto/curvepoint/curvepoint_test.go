package curvepoint_test

import (
	"bytes"
	"crypto/elliptic"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/Lyavon/es6-crypto/pkg/escrypto/curvepoint"
)

func TestGeneratorMatchesStandardLibrary(t *testing.T) {
	g := curvepoint.Generator()
	params := elliptic.P256().Params()
	if g.X().Cmp(params.Gx) != 0 {
		t.Fatalf("generator X mismatch")
	}
	if g.Y().Cmp(params.Gy) != 0 {
		t.Fatalf("generator Y mismatch")
	}
	if !g.IsOnCurve() {
		t.Fatalf("generator not on curve")
	}
}

func TestOrderMatchesStandardLibrary(t *testing.T) {
	if curvepoint.Order().Cmp(elliptic.P256().Params().N) != 0 {
		t.Fatalf("group order mismatch")
	}
}

func TestMulGeneratorOne(t *testing.T) {
	d := make([]byte, 32)
	d[31] = 1
	p, err := curvepoint.MulGenerator(d)
	if err != nil {
		t.Fatalf("MulGenerator(1): %v", err)
	}
	g := curvepoint.Generator()
	if p.X().Cmp(g.X()) != 0 || p.Y().Cmp(g.Y()) != 0 {
		t.Fatalf("1*G != G")
	}
}

func TestMulGeneratorSmallScalars(t *testing.T) {
	curve := elliptic.P256()
	for k := int64(1); k <= 20; k++ {
		d := big.NewInt(k).FillBytes(make([]byte, 32))
		p, err := curvepoint.MulGenerator(d)
		if err != nil {
			t.Fatalf("MulGenerator(%d): %v", k, err)
		}
		wantX, wantY := curve.ScalarBaseMult(d)
		if p.X().Cmp(wantX) != 0 || p.Y().Cmp(wantY) != 0 {
			t.Fatalf("%d*G mismatch against standard library", k)
		}
		if !p.IsOnCurve() {
			t.Fatalf("%d*G not on curve", k)
		}
	}
}

func TestMulGeneratorRandomScalars(t *testing.T) {
	curve := elliptic.P256()
	for i := 0; i < 16; i++ {
		d := make([]byte, 32)
		if _, err := rand.Read(d); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		k := new(big.Int).SetBytes(d)
		k.Mod(k, curve.Params().N)
		if k.Sign() == 0 {
			continue
		}
		db := k.FillBytes(make([]byte, 32))

		p, err := curvepoint.MulGenerator(db)
		if err != nil {
			t.Fatalf("MulGenerator: %v", err)
		}
		wantX, wantY := curve.ScalarBaseMult(db)
		if p.X().Cmp(wantX) != 0 || p.Y().Cmp(wantY) != 0 {
			t.Fatalf("random scalar multiplication mismatch")
		}
	}
}

func TestMulGeneratorRejectsOutOfRange(t *testing.T) {
	zero := make([]byte, 32)
	if _, err := curvepoint.MulGenerator(zero); err == nil {
		t.Fatalf("MulGenerator(0) should fail")
	}
	n := curvepoint.Order().FillBytes(make([]byte, 32))
	if _, err := curvepoint.MulGenerator(n); err == nil {
		t.Fatalf("MulGenerator(n) should fail")
	}
	if _, err := curvepoint.MulGenerator(nil); err == nil {
		t.Fatalf("MulGenerator(nil) should fail")
	}
}

func TestCoordinateBytesArePadded(t *testing.T) {
	// Search a few small scalars; every result must still encode to exactly
	// 32 bytes per coordinate regardless of leading zero bytes.
	for k := int64(1); k <= 64; k++ {
		d := big.NewInt(k).FillBytes(make([]byte, 32))
		p, err := curvepoint.MulGenerator(d)
		if err != nil {
			t.Fatalf("MulGenerator(%d): %v", k, err)
		}
		xb, yb := p.XBytes(), p.YBytes()
		if len(xb) != 32 || len(yb) != 32 {
			t.Fatalf("coordinate width = (%d, %d), want (32, 32)", len(xb), len(yb))
		}
		if !bytes.Equal(xb, p.X().FillBytes(make([]byte, 32))) {
			t.Fatalf("XBytes disagrees with X")
		}
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		d := make([]byte, 32)
		if _, err := rand.Read(d); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		k := new(big.Int).SetBytes(d)
		k.Mod(k, curvepoint.Order())
		if k.Sign() == 0 {
			continue
		}
		p, err := curvepoint.MulGenerator(k.FillBytes(make([]byte, 32)))
		if err != nil {
			t.Fatalf("MulGenerator: %v", err)
		}

		compressed := p.Compressed()
		if len(compressed) != curvepoint.CompressedSize {
			t.Fatalf("compressed length = %d, want %d", len(compressed), curvepoint.CompressedSize)
		}
		wantPrefix := byte(0x02)
		if p.Y().Bit(0) == 1 {
			wantPrefix = 0x03
		}
		if compressed[0] != wantPrefix {
			t.Fatalf("prefix = %02x, want %02x", compressed[0], wantPrefix)
		}

		q, err := curvepoint.Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if q.X().Cmp(p.X()) != 0 || q.Y().Cmp(p.Y()) != 0 {
			t.Fatalf("compression round-trip mismatch")
		}
	}
}

func TestDecompressRejectsMalformed(t *testing.T) {
	g := curvepoint.Generator()
	compressed := g.Compressed()

	if _, err := curvepoint.Decompress(compressed[:32]); err == nil {
		t.Fatalf("short encoding should fail")
	}

	bad := append([]byte(nil), compressed...)
	bad[0] = 0x05
	if _, err := curvepoint.Decompress(bad); err == nil {
		t.Fatalf("bad prefix should fail")
	}
}

func TestNewPointRejectsOffCurve(t *testing.T) {
	g := curvepoint.Generator()
	bad := new(big.Int).Add(g.Y(), big.NewInt(1))
	if _, err := curvepoint.NewPoint(g.X(), bad); err == nil {
		t.Fatalf("NewPoint off-curve should fail")
	}
	if _, err := curvepoint.NewPoint(g.X(), g.Y()); err != nil {
		t.Fatalf("NewPoint(G): %v", err)
	}
}
