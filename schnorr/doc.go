// Package schnorr implements Schnorr signatures over a prime-order group
// with transcript-based (Fiat-Shamir) challenges, in the manner of
// sr25519.
//
// An [Engine] binds together the three pluggable parts of the scheme:
//
//   - a [group.Group] for curve arithmetic (ristretto255 by default),
//   - a [digest.Backend] producing 64-byte digests (SHA-512 by default),
//   - a [random.Source] for key seeds and nonce hedging
//     ([random.Default] unless overridden).
//
// # Key Generation
//
// A 32-byte seed is hashed with the digest backend and the 64-byte
// result is reduced to the secret scalar sk. The public key is P = sk*G.
// Seeds that reduce to zero are rejected; [Engine.GenerateKey] draws a
// new seed in that case.
//
// # Signing
//
// Given a message m and a key pair (sk, P):
//
//	nonce transcript "sr.nonce":  sign:sk, sign:msg, sign:witness (32 fresh random bytes)
//	r = derive "sign:nonce"
//	R = r*G
//	challenge transcript "sr.sign":  sign:ctx, sign:pk, sign:R, sign:msg
//	c = derive "sign:c"
//	s = r + c*sk
//
// The signature is (R, s), encoded as R || s. The nonce depends on the
// secret key and the message, so a failing random source cannot cause
// nonce reuse across messages, and the random witness hedges against
// fault attacks on purely deterministic nonces.
//
// # Verification
//
// The verifier recomputes c from (P, R, m) and accepts iff s*G = R + c*P.
// No special cases apply to an identity R or a zero s; the equation
// alone decides. A rejected signature is reported as
// [ErrInvalidSignature], which is an ordinary outcome rather than a
// fault.
//
// # VRF
//
// [Engine.VRFSign] hashes the message into the group as H and publishes
// the output O = sk*H together with a proof that O and the public key
// share a discrete logarithm. The output is deterministic for a given
// key, message and signing context; the proof is hedged. A verifier
// accepts with [Engine.VRFVerify] when the proof holds and the output's
// derived value is below a [VRFThreshold], then reads
// [Engine.VRFRandomness].
//
// # Key Lifetime
//
// A [KeyPair] owns its secret scalar. [KeyPair.Dispose] overwrites the
// secret with zeros and is terminal: signing with a disposed pair fails
// with [ErrKeyPairDisposed]. Callers must not dispose a pair while it is
// still signing on another goroutine.
//
//	kp, err := e.GenerateKey()
//	if err != nil {
//		return err
//	}
//	defer kp.Dispose()
//
//	sig, err := e.Sign(kp, msg)
package schnorr
