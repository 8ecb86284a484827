/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package simple

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/data"
	ipfe "github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

// RingIPFEParams holds the public parameters of the RNS scheme
// variant: the vector length L, the ring degree N = 2^Exp, the
// plaintext and function vector bounds, the plaintext modulus K, the
// prime chain, and the three Gaussian standard deviations (secret key
// and public key noise, encryption randomness, per-slot encryption
// noise).
type RingIPFEParams struct {
	L   int
	Sec int
	Exp int
	N   int

	BoundX *big.Int
	BoundY *big.Int
	K      *big.Int

	Primes []ring.ModPrime

	Sigma1 *big.Float
	Sigma2 *big.Float
	Sigma3 *big.Float
}

// RingIPFE represents the inner product functional encryption scheme
// based on the ring LWE assumption with an RNS modulus: every
// polynomial is kept as residues modulo a chain of word-size NTT
// primes. A function key for a vector y lets its holder learn exactly
// the inner products of y with the rows of an encrypted matrix, and
// nothing else about the matrix.
//
// The scheme is selectively secure under chosen plaintext attacks.
type RingIPFE struct {
	Params *RingIPFEParams

	mod       *ring.Modulus
	src       io.Reader
	fastGauss bool
}

// RingIPFESecKey is a master secret key: one small polynomial per
// vector slot, in the coefficient representation.
type RingIPFESecKey struct {
	Sk []*ring.Poly
}

// RingIPFEPubKey is a master public key: the shared uniform polynomial
// A and one polynomial per vector slot, all in the evaluation
// representation.
type RingIPFEPubKey struct {
	A  *ring.Poly
	Pk []*ring.Poly
}

// RingIPFEDerivedKey is a functional decryption key for a vector y:
// the residues of y modulo every chain prime, and the polynomial
// sum_i y_i * sk_i in the coefficient representation.
type RingIPFEDerivedKey struct {
	YCRT [][]uint64
	SkY  *ring.Poly
}

// RingIPFECipher encrypts up to N rows of length L under shared
// randomness. NumRows records how many rows carry data; all
// polynomials are in the coefficient representation.
type RingIPFECipher struct {
	NumRows int
	Ct0     *ring.Poly
	Ct      []*ring.Poly
}

// NewRingIPFE configures a new instance of the scheme. It accepts the
// security parameter sec, the length of input vectors l, the least
// number of simultaneously encrypted rows n, and the bounds on the
// coordinates of plaintext and function vectors. Scheme parameters are
// searched jointly so that decryption is correct for all admissible
// inputs and the primal lattice attack check passes; if no power-of-two
// ring degree below 2^20 works, an error is returned.
func NewRingIPFE(sec, l, n int, boundX, boundY *big.Int) (*RingIPFE, error) {
	found, err := searchRingParams(sec, l, n, boundX, boundY, false)
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate ring parameters")
	}

	params := &RingIPFEParams{
		L:      l,
		Sec:    sec,
		Exp:    found.exp,
		N:      found.n,
		BoundX: new(big.Int).Set(boundX),
		BoundY: new(big.Int).Set(boundY),
		K:      found.k,
		Primes: found.primes,
		Sigma1: found.sigma1,
		Sigma2: found.sigma2,
		Sigma3: found.sigma3,
	}

	return NewRingIPFEFromParams(params)
}

// NewRingIPFEFromParams reconstructs a scheme instance, including the
// modulus tables, from previously generated (e.g. deserialized)
// parameters.
func NewRingIPFEFromParams(params *RingIPFEParams) (*RingIPFE, error) {
	mod, err := ring.NewModulus(params.Primes, params.K)
	if err != nil {
		return nil, errors.Wrap(err, "cannot reconstruct modulus")
	}
	if mod.Exp != params.Exp || mod.N != params.N {
		return nil, ipfe.ErrMalformedInput
	}

	return &RingIPFE{
		Params: params,
		mod:    mod,
	}, nil
}

// SetSource replaces the scheme's entropy source. Passing a
// sample.KeyedPRNG makes key generation and encryption reproducible;
// a nil source restores the system's secure generator.
func (s *RingIPFE) SetSource(src io.Reader) {
	s.src = src
}

// SetFastGaussian toggles the rounded continuous Gaussian sampler in
// place of the constant-time rejection sampler. The fast path leaks
// timing information about the sampled noise and should only be used
// where that is acceptable.
func (s *RingIPFE) SetFastGaussian(fast bool) {
	s.fastGauss = fast
}

func (s *RingIPFE) source() io.Reader {
	if s.src == nil {
		return rand.Reader
	}

	return s.src
}

func (s *RingIPFE) gaussSampler(sigma *big.Float) sample.Sampler {
	if s.fastGauss {
		return sample.NewNormalRounded(sigma, s.src)
	}

	return sample.NewNormalDoubleConstant(sample.KForSigma(sigma), s.src)
}

func (s *RingIPFE) checkPoly(p *ring.Poly) bool {
	return p != nil && p.T == len(s.mod.Primes) && p.N == s.Params.N
}

func (s *RingIPFE) checkPolys(ps []*ring.Poly) bool {
	if len(ps) != s.Params.L {
		return false
	}
	for _, p := range ps {
		if !s.checkPoly(p) {
			return false
		}
	}

	return true
}

// GenerateSecretKey generates a master secret key for the scheme: for
// each of the l slots a polynomial sampled from the discrete Gaussian
// with standard deviation Sigma1.
func (s *RingIPFE) GenerateSecretKey() (*RingIPFESecKey, error) {
	sampler := s.gaussSampler(s.Params.Sigma1)

	sk := make([]*ring.Poly, s.Params.L)
	for i := range sk {
		sk[i] = s.mod.NewPoly()
		if err := s.mod.SampleGauss(sampler, sk[i]); err != nil {
			return nil, errors.Wrap(err, "secret key generation failed")
		}
	}

	return &RingIPFESecKey{Sk: sk}, nil
}

// GeneratePublicKey accepts a master secret key and generates the
// corresponding master public key: a uniform polynomial A and, for
// every slot, A * sk_i + e_i with fresh Gaussian noise e_i, all
// computed pointwise in the evaluation representation.
func (s *RingIPFE) GeneratePublicKey(secKey *RingIPFESecKey) (*RingIPFEPubKey, error) {
	if secKey == nil || !s.checkPolys(secKey.Sk) {
		return nil, ipfe.ErrMalformedSecKey
	}

	a := s.mod.NewPoly()
	if err := s.mod.SampleUniform(s.source(), a); err != nil {
		return nil, errors.Wrap(err, "public key generation failed")
	}

	sampler := s.gaussSampler(s.Params.Sigma1)
	pk := make([]*ring.Poly, s.Params.L)
	for i := range pk {
		e := s.mod.NewPoly()
		if err := s.mod.SampleGauss(sampler, e); err != nil {
			return nil, errors.Wrap(err, "public key generation failed")
		}
		s.mod.NTT(e)

		skHat := secKey.Sk[i].Copy()
		s.mod.NTT(skHat)

		pk[i] = s.mod.NewPoly()
		s.mod.MulCoeffs(a, skHat, pk[i])
		s.mod.Add(pk[i], e, pk[i])
	}

	return &RingIPFEPubKey{A: a, Pk: pk}, nil
}

// DeriveKey accepts a function vector y and the master secret key and
// derives the functional decryption key for y: the residues of y
// modulo every chain prime together with the polynomial
// sum_i y_i * sk_i.
func (s *RingIPFE) DeriveKey(y data.Vector, secKey *RingIPFESecKey) (*RingIPFEDerivedKey, error) {
	if len(y) != s.Params.L {
		return nil, ipfe.ErrMalformedInput
	}
	if err := y.CheckBound(s.Params.BoundY); err != nil {
		return nil, ipfe.ErrBoundViolation
	}
	if secKey == nil || !s.checkPolys(secKey.Sk) {
		return nil, ipfe.ErrMalformedSecKey
	}

	yCRT := make([][]uint64, len(s.mod.Primes))
	qj := new(big.Int)
	tmp := new(big.Int)
	for j, p := range s.mod.Primes {
		qj.SetUint64(p.Q)
		yCRT[j] = make([]uint64, s.Params.L)
		for i, yi := range y {
			yCRT[j][i] = tmp.Mod(yi, qj).Uint64()
		}
	}

	skY := s.mod.NewPoly()
	for j := range s.mod.Primes {
		for i := 0; i < s.Params.L; i++ {
			s.mod.MulScalarAdd(j, yCRT[j][i], secKey.Sk[i], skY)
		}
	}

	return &RingIPFEDerivedKey{YCRT: yCRT, SkY: skY}, nil
}

// Encrypt encrypts a single vector x of length l using the master
// public key. It is the one-row special case of EncryptMulti.
func (s *RingIPFE) Encrypt(x data.Vector, pubKey *RingIPFEPubKey) (*RingIPFECipher, error) {
	if len(x) != s.Params.L {
		return nil, ipfe.ErrMalformedInput
	}
	X, err := data.NewMatrix([]data.Vector{x})
	if err != nil {
		return nil, ipfe.ErrMalformedInput
	}

	return s.EncryptMulti(X, pubKey)
}

// EncryptMulti encrypts a matrix X of m <= n rows of length l
// simultaneously: all rows share the same encryption randomness r, so
// a single functional key recovers the inner product of y with every
// row. The k-th coefficient of the i-th slot polynomial carries
// X[k][i] scaled by floor(Q/K).
func (s *RingIPFE) EncryptMulti(X data.Matrix, pubKey *RingIPFEPubKey) (*RingIPFECipher, error) {
	numRows := X.Rows()
	if numRows < 1 || numRows > s.Params.N || X.Cols() != s.Params.L {
		return nil, ipfe.ErrMalformedInput
	}
	if err := X.CheckBound(s.Params.BoundX); err != nil {
		return nil, ipfe.ErrBoundViolation
	}
	if pubKey == nil || !s.checkPoly(pubKey.A) || !s.checkPolys(pubKey.Pk) {
		return nil, ipfe.ErrMalformedPubKey
	}

	sampler2 := s.gaussSampler(s.Params.Sigma2)
	sampler3 := s.gaussSampler(s.Params.Sigma3)

	rHat := s.mod.NewPoly()
	if err := s.mod.SampleGauss(sampler2, rHat); err != nil {
		return nil, errors.Wrap(err, "error in encrypt")
	}
	s.mod.NTT(rHat)

	f0 := s.mod.NewPoly()
	if err := s.mod.SampleGauss(sampler2, f0); err != nil {
		return nil, errors.Wrap(err, "error in encrypt")
	}

	ct0 := s.mod.NewPoly()
	s.mod.MulCoeffs(pubKey.A, rHat, ct0)
	s.mod.InvNTT(ct0)
	s.mod.Add(ct0, f0, ct0)

	ct := make([]*ring.Poly, s.Params.L)
	for i := range ct {
		fi := s.mod.NewPoly()
		if err := s.mod.SampleGauss(sampler3, fi); err != nil {
			return nil, errors.Wrap(err, "error in encrypt")
		}

		xPoly := s.mod.NewPoly()
		for k := 0; k < numRows; k++ {
			s.mod.SetCoeffScaled(xPoly, k, X[k][i])
		}

		ct[i] = s.mod.NewPoly()
		s.mod.MulCoeffs(pubKey.Pk[i], rHat, ct[i])
		s.mod.InvNTT(ct[i])
		s.mod.Add(ct[i], fi, ct[i])
		s.mod.Add(ct[i], xPoly, ct[i])
	}

	return &RingIPFECipher{NumRows: numRows, Ct0: ct0, Ct: ct}, nil
}

// Decrypt accepts a ciphertext and a functional decryption key for a
// vector y and returns the inner products of y with the encrypted
// rows. The noise is stripped by centering the CRT lift and rounding
// by floor(Q/K), ties to even.
func (s *RingIPFE) Decrypt(cipher *RingIPFECipher, key *RingIPFEDerivedKey) (data.Vector, error) {
	if err := s.checkCipher(cipher); err != nil {
		return nil, err
	}
	if key == nil || !s.checkPoly(key.SkY) || len(key.YCRT) != len(s.mod.Primes) {
		return nil, ipfe.ErrMalformedDecKey
	}
	for _, row := range key.YCRT {
		if len(row) != s.Params.L {
			return nil, ipfe.ErrMalformedDecKey
		}
	}

	dY := s.mod.NewPoly()
	for j := range s.mod.Primes {
		for i := 0; i < s.Params.L; i++ {
			s.mod.MulScalarAdd(j, key.YCRT[j][i], cipher.Ct[i], dY)
		}
	}

	conv := s.mod.NewPoly()
	s.mod.MulPoly(cipher.Ct0, key.SkY, conv)
	s.mod.Sub(dY, conv, dY)

	lifted := s.mod.Lift(dY)
	res := make(data.Vector, cipher.NumRows)
	for k := range res {
		res[k] = ipfe.RoundDiv(lifted[k], s.mod.Scale)
	}

	return res, nil
}

// DecryptAll recovers the full plaintext matrix from a ciphertext
// using the master secret key. It returns an error if a recovered
// entry falls outside the plaintext bound, which indicates a corrupted
// ciphertext or a bound violation at encryption time.
func (s *RingIPFE) DecryptAll(cipher *RingIPFECipher, secKey *RingIPFESecKey) (data.Matrix, error) {
	if err := s.checkCipher(cipher); err != nil {
		return nil, err
	}
	if secKey == nil || !s.checkPolys(secKey.Sk) {
		return nil, ipfe.ErrMalformedSecKey
	}

	rows := make([]data.Vector, cipher.NumRows)
	for k := range rows {
		rows[k] = make(data.Vector, s.Params.L)
	}

	d := s.mod.NewPoly()
	for i := 0; i < s.Params.L; i++ {
		s.mod.MulPoly(cipher.Ct0, secKey.Sk[i], d)
		s.mod.Sub(cipher.Ct[i], d, d)

		lifted := s.mod.Lift(d)
		for k := 0; k < cipher.NumRows; k++ {
			v := ipfe.RoundDiv(lifted[k], s.mod.Scale)
			if new(big.Int).Abs(v).Cmp(s.Params.BoundX) > 0 {
				return nil, ipfe.ErrDecryptionOutOfRange
			}
			rows[k][i] = v
		}
	}

	return data.NewMatrix(rows)
}

func (s *RingIPFE) checkCipher(cipher *RingIPFECipher) error {
	if cipher == nil || cipher.NumRows < 1 || cipher.NumRows > s.Params.N ||
		!s.checkPoly(cipher.Ct0) || !s.checkPolys(cipher.Ct) {
		return ipfe.ErrMalformedCipher
	}

	return nil
}
