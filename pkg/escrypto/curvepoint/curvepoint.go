package curvepoint

import (
	"errors"
	"math/big"
)

// CoordinateSize is the byte width of a P-256 field element.
const CoordinateSize = 32

// P-256 domain parameters, big-endian hex per SEC 2 / FIPS 186-4.
var (
	p256P = mustBig("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
	p256A = mustBig("ffffffff00000001000000000000000000000000fffffffffffffffffffffffc")
	p256B = mustBig("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b")
	p256N = mustBig("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")
	p256X = mustBig("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296")
	p256Y = mustBig("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5")
)

var (
	// ErrScalarRange indicates a scalar outside [1, n-1] where n is the
	// P-256 group order.
	ErrScalarRange = errors.New("curvepoint: scalar out of range")

	// ErrInfinity indicates a computation degenerated to the point at
	// infinity, which has no affine encoding.
	ErrInfinity = errors.New("curvepoint: point at infinity")
)

func mustBig(hex string) *big.Int {
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("curvepoint: bad domain parameter constant")
	}
	return v
}

// Point is an affine point on P-256. The zero value is not valid; points are
// created through Generator, MulGenerator or NewPoint. Points are immutable.
type Point struct {
	x, y *big.Int
}

// NewPoint creates a Point from affine coordinates. The coordinates must
// satisfy the curve equation.
func NewPoint(x, y *big.Int) (*Point, error) {
	if x == nil || y == nil {
		return nil, errors.New("curvepoint: nil coordinate")
	}
	if !isOnCurve(x, y) {
		return nil, errors.New("curvepoint: point not on curve")
	}
	return &Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// Generator returns the fixed P-256 base point G.
func Generator() *Point {
	return &Point{x: new(big.Int).Set(p256X), y: new(big.Int).Set(p256Y)}
}

// Order returns the P-256 group order n as a defensive copy.
func Order() *big.Int {
	return new(big.Int).Set(p256N)
}

// X returns the x coordinate as a defensive copy.
func (p *Point) X() *big.Int {
	return new(big.Int).Set(p.x)
}

// Y returns the y coordinate as a defensive copy.
func (p *Point) Y() *big.Int {
	return new(big.Int).Set(p.y)
}

// XBytes returns the x coordinate as a fixed 32-byte big-endian value,
// left-padded with zeros when the natural encoding is shorter.
func (p *Point) XBytes() []byte {
	return p.x.FillBytes(make([]byte, CoordinateSize))
}

// YBytes returns the y coordinate as a fixed 32-byte big-endian value,
// left-padded with zeros when the natural encoding is shorter.
func (p *Point) YBytes() []byte {
	return p.y.FillBytes(make([]byte, CoordinateSize))
}

// MulGenerator computes d*G for a big-endian scalar d.
// Returns ErrScalarRange when d is zero or not below the group order.
func MulGenerator(d []byte) (*Point, error) {
	if len(d) == 0 {
		return nil, ErrScalarRange
	}
	k := new(big.Int).SetBytes(d)
	if k.Sign() == 0 || k.Cmp(p256N) >= 0 {
		return nil, ErrScalarRange
	}
	return Generator().Mul(k)
}

// Mul computes k*P by affine double-and-add.
// Returns ErrInfinity when the result has no affine representation.
func (p *Point) Mul(k *big.Int) (*Point, error) {
	if p == nil || p.x == nil || p.y == nil {
		return nil, errors.New("curvepoint: nil point")
	}
	if k == nil || k.Sign() <= 0 {
		return nil, ErrScalarRange
	}

	// Accumulator starts at infinity (nil coordinates).
	var rx, ry *big.Int
	qx := new(big.Int).Set(p.x)
	qy := new(big.Int).Set(p.y)

	for i := k.BitLen() - 1; i >= 0; i-- {
		rx, ry = pointDouble(rx, ry)
		if k.Bit(i) == 1 {
			rx, ry = pointAdd(rx, ry, qx, qy)
		}
	}
	if rx == nil {
		return nil, ErrInfinity
	}
	return &Point{x: rx, y: ry}, nil
}

// pointAdd adds two affine points where nil coordinates denote infinity.
func pointAdd(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	if x1 == nil {
		return cloneCoord(x2), cloneCoord(y2)
	}
	if x2 == nil {
		return cloneCoord(x1), cloneCoord(y1)
	}
	if x1.Cmp(x2) == 0 {
		if y1.Cmp(y2) == 0 {
			return pointDouble(x1, y1)
		}
		// P + (-P) = infinity.
		return nil, nil
	}

	// lambda = (y2 - y1) / (x2 - x1) mod p
	num := new(big.Int).Sub(y2, y1)
	den := new(big.Int).Sub(x2, x1)
	den.ModInverse(den, p256P)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, p256P)

	return chord(lambda, x1, y1, x2)
}

// pointDouble doubles an affine point where nil coordinates denote infinity.
func pointDouble(x, y *big.Int) (*big.Int, *big.Int) {
	if x == nil {
		return nil, nil
	}
	if y.Sign() == 0 {
		return nil, nil
	}

	// lambda = (3x^2 + a) / 2y mod p
	num := new(big.Int).Mul(x, x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, p256A)
	den := new(big.Int).Lsh(y, 1)
	den.ModInverse(den, p256P)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, p256P)

	return chord(lambda, x, y, x)
}

// chord computes the third intersection point for slope lambda through
// (x1, y1) and x2: x3 = lambda^2 - x1 - x2, y3 = lambda(x1 - x3) - y1.
func chord(lambda, x1, y1, x2 *big.Int) (*big.Int, *big.Int) {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, p256P)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, p256P)

	return x3, y3
}

func cloneCoord(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// isOnCurve reports whether y^2 = x^3 + ax + b mod p.
func isOnCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(p256P) >= 0 || y.Sign() < 0 || y.Cmp(p256P) >= 0 {
		return false
	}
	left := new(big.Int).Mul(y, y)
	left.Mod(left, p256P)

	right := new(big.Int).Mul(x, x)
	right.Mod(right, p256P)
	right.Mul(right, x)
	right.Add(right, new(big.Int).Mul(p256A, x))
	right.Add(right, p256B)
	right.Mod(right, p256P)

	return left.Cmp(right) == 0
}

// IsOnCurve reports whether the point satisfies the P-256 curve equation.
func (p *Point) IsOnCurve() bool {
	if p == nil || p.x == nil || p.y == nil {
		return false
	}
	return isOnCurve(p.x, p.y)
}

// CompressedSize is the byte width of a SEC1 compressed point.
const CompressedSize = 33

// Compressed returns the 33-byte SEC1 compressed encoding: 0x02 for even Y,
// 0x03 for odd Y, followed by the 32-byte X coordinate.
func (p *Point) Compressed() []byte {
	out := make([]byte, CompressedSize)
	if p.y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	p.x.FillBytes(out[1:])
	return out
}

// Decompress recovers a point from its 33-byte SEC1 compressed encoding.
// The square root uses y = (y^2)^((p+1)/4) mod p, valid because the P-256
// field prime satisfies p = 3 mod 4.
func Decompress(data []byte) (*Point, error) {
	if len(data) != CompressedSize {
		return nil, errors.New("curvepoint: compressed point must be 33 bytes")
	}
	prefix := data[0]
	if prefix != 0x02 && prefix != 0x03 {
		return nil, errors.New("curvepoint: bad compressed point prefix")
	}
	x := new(big.Int).SetBytes(data[1:])
	if x.Cmp(p256P) >= 0 {
		return nil, errors.New("curvepoint: x coordinate out of field")
	}

	// y^2 = x^3 + ax + b mod p
	y2 := new(big.Int).Mul(x, x)
	y2.Mod(y2, p256P)
	y2.Mul(y2, x)
	y2.Add(y2, new(big.Int).Mul(p256A, x))
	y2.Add(y2, p256B)
	y2.Mod(y2, p256P)

	exp := new(big.Int).Add(p256P, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(y2, exp, p256P)

	check := new(big.Int).Mul(y, y)
	check.Mod(check, p256P)
	if check.Cmp(y2) != 0 {
		return nil, errors.New("curvepoint: x has no point on curve")
	}

	if y.Bit(0) != uint(prefix&1) {
		y.Sub(p256P, y)
	}
	return &Point{x: x, y: y}, nil
}
