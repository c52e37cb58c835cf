// Package core provides the shared primitives of the π computation path.
//
// The package defines the types every engine agrees on:
//
//   - [Digits]: requested number of decimal places
//   - [Result]: rendered digit string plus run metadata
//   - [Engine]: anything that can compute π to a digit count
//   - [Observer]: progress hook called between series terms
//
// # Precision
//
// Working precision is never process-wide. [WorkingPrecision] returns the bit
// budget for a digit count and every big.Float in an engine is created with it:
//
//	prec := core.WorkingPrecision(digits)
//	acc := new(big.Float).SetPrec(prec).SetInt64(3)
//
// Two computations with different digit counts can therefore run concurrently
// without sharing any mutable arithmetic state.
package core
