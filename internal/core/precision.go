package core

const (
	// BitsPerDigit over-provisions log2(10) ≈ 3.32 bits per requested digit.
	BitsPerDigit = 4
	// GuardBits absorbs rounding accumulated across many terms at small digit counts.
	GuardBits = 64

	DefaultTermsPerDigit = 10

	// CheckEvery is how many series terms run between context checks.
	CheckEvery = 256
)

// WorkingPrecision returns the big.Float mantissa size used for a digit count.
func WorkingPrecision(d Digits) uint {
	return uint(d)*BitsPerDigit + GuardBits
}

// TermCount returns the fixed number of Nilakantha terms summed for a digit count.
// The series error shrinks as O(1/n³), so high digit counts under-converge.
func TermCount(d Digits, termsPerDigit int) int {
	if termsPerDigit <= 0 {
		termsPerDigit = DefaultTermsPerDigit
	}
	return int(d) * termsPerDigit
}
