// Package series sums the Nilakantha series for π on the CPU.
//
//	π = 3 + 4/(2·3·4) − 4/(4·5·6) + 4/(6·7·8) − …
//
// The summation helpers ([Start], [Quotient], [Accumulate], [Render]) are shared
// with accelerated engines so every engine evaluates the same terms at the same
// precision in the same order and produces an identical digit string.
//
// [Reference] computes π independently with the Chudnovsky series and is used
// only to score how many digits of a result are correct.
package series
