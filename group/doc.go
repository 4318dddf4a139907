// Package group defines abstract interfaces for the prime-order groups
// used by the Schnorr signature engine and the FROST threshold scheme.
//
// This package provides three core interfaces that abstract over the
// mathematical operations needed for Schnorr signatures:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design Philosophy
//
// The interfaces use a mutable receiver pattern for efficiency. Operations
// like Add, Mul, and ScalarMult set the receiver to the result and return it,
// allowing method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Decoding never panics: SetBytes rejects anything that is not the
// canonical encoding of a group element with [ErrInvalidEncoding].
//
// # Implementing a Group
//
// To implement these interfaces for a new elliptic curve:
//
//  1. Create a Scalar type that wraps your field element and implements [Scalar]
//  2. Create a Point type that wraps your curve point and implements [Point]
//  3. Create a Group type that implements [Group] as a factory
//
// The ristretto, bjj and secp256k1 packages are complete implementations.
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Point operations are constant-time where possible
//   - Random scalars are generated from cryptographically secure sources
//   - Invalid or small-subgroup points are rejected in SetBytes
//   - Scalar.Zero actually overwrites the backing memory
package group
