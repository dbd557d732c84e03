// Package threshold threshold secret sharing
//
// The secret is split into shares for distribution.
// Some of the shares must be combined to reconstruct the secret,
// fewer shares reveal nothing about it.
//
//   - `twon`: (2, n) sharing, every point on a random integer line is a share,
//     any two of them recover the intercept.
//
// Reference:
//
//   - https://en.wikipedia.org/wiki/Secret_sharing
//   - https://en.wikipedia.org/wiki/Threshold_cryptosystem
package threshold
