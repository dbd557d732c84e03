// Package twon is a (2, n) threshold secret-sharing scheme.
//
// The secret is the y-intercept of a line with a random slope,
// and every share is one point on that line:
//
//	y = m*x + secret
//
// Any two shares with different x-coordinates determine the line,
// and evaluating it at x=0 recovers the secret. A single share is
// consistent with every secret, so alone it tells nothing.
//
// All arithmetic is done over arbitrary-precision integers,
// divisions are checked to be exact. Use SplitInt64/RecoverInt64
// if you need fixed-width values, they report ErrNumericOverflow
// instead of wrapping.
//
// This is not Shamir's k-of-n scheme, and it does not work over
// a finite field. For a general threshold use a polynomial scheme.
package twon
