package series

import (
	"math"
	"math/big"
	"strings"

	"github.com/cznic/mathutil"
	"github.com/san-kum/pilab/internal/core"
)

// referenceGuard extra digits keep the truncated tail of the reference exact.
const referenceGuard = 10

// Reference returns π as "3." followed by digits correct decimal places (truncated).
func Reference(digits core.Digits) (string, error) {
	if err := digits.Validate(); err != nil {
		return "", err
	}
	n := int64(digits) + referenceGuard
	s := chudnovsky(n).String()
	return "3." + s[1:int(digits)+1], nil
}

// chudnovsky returns floor(π·10^n) using fixed-point integer arithmetic.
func chudnovsky(n int64) *big.Int {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
	c3Over24 := new(big.Int).Exp(big.NewInt(640320), big.NewInt(3), nil)
	c3Over24.Div(c3Over24, big.NewInt(24))

	ak := new(big.Int).Set(one)
	aSum := new(big.Int).Set(one)
	bSum := new(big.Int)
	t1, t2, t3, kCubed, tmp := new(big.Int), new(big.Int), new(big.Int), new(big.Int), new(big.Int)

	for k := int64(1); ; k++ {
		// -(6k-5)(2k-1)(6k-1)
		t1.SetInt64(6*k - 5)
		t2.SetInt64(2*k - 1)
		t3.SetInt64(6*k - 1)
		t1.Mul(t1, t2)
		t1.Mul(t1, t3)
		ak.Mul(ak, t1.Neg(t1))

		kCubed.SetInt64(k)
		kCubed.Exp(kCubed, big.NewInt(3), nil)
		ak.Quo(ak, kCubed.Mul(kCubed, c3Over24))

		aSum.Add(aSum, ak)
		bSum.Add(bSum, tmp.Mul(ak, big.NewInt(k)))

		if ak.Sign() == 0 {
			break
		}
	}

	total := new(big.Int).Mul(big.NewInt(13591409), aSum)
	total.Add(total, tmp.Mul(big.NewInt(545140134), bSum))

	// sqrt(10005·one²) = sqrt(10005)·one
	root := new(big.Int).Mul(big.NewInt(10005), one)
	root.Mul(root, one)
	root = mathutil.SqrtBig(root)

	pi := root.Mul(root, big.NewInt(426880))
	pi.Mul(pi, one)
	return pi.Quo(pi, total)
}

// AccurateDigits returns how many leading decimal places of result match reference.
func AccurateDigits(result, reference string) int {
	if !strings.HasPrefix(result, "3.") || !strings.HasPrefix(reference, "3.") {
		return 0
	}
	a, b := result[2:], reference[2:]
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// AbsError returns |value − π| where pi is a reference string at least as long as
// the precision of interest.
func AbsError(value *big.Float, pi string) float64 {
	ref, ok := new(big.Float).SetPrec(value.Prec()).SetString(pi)
	if !ok {
		return math.NaN()
	}
	diff := new(big.Float).SetPrec(value.Prec()).Sub(value, ref)
	f, _ := diff.Abs(diff).Float64()
	return f
}
