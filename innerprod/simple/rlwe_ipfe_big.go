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

// RingIPFEBigParams holds the public parameters of the big-prime
// scheme variant: a single modulus Q of arbitrary bit length replaces
// the prime chain of RingIPFEParams.
type RingIPFEBigParams struct {
	L   int
	Sec int
	Exp int
	N   int

	BoundX *big.Int
	BoundY *big.Int
	K      *big.Int

	Q   *big.Int
	Phi *big.Int

	Sigma1 *big.Float
	Sigma2 *big.Float
	Sigma3 *big.Float
}

// RingIPFEBig is the single-prime variant of RingIPFE: polynomials are
// vectors of arbitrary-precision integers modulo one NTT-friendly
// prime. It computes the same mathematical objects as the RNS variant
// and exposes the same operations.
type RingIPFEBig struct {
	Params *RingIPFEBigParams

	mod       *ring.BigModulus
	src       io.Reader
	fastGauss bool
}

// RingIPFEBigSecKey is a master secret key: an l x n matrix whose
// rows are small polynomials in the coefficient representation,
// stored as canonical residues.
type RingIPFEBigSecKey struct {
	Sk data.Matrix
}

// RingIPFEBigPubKey is a master public key: the shared uniform
// polynomial A and one polynomial per slot, all in the evaluation
// representation.
type RingIPFEBigPubKey struct {
	A  data.Vector
	Pk data.Matrix
}

// RingIPFEBigDerivedKey is a functional decryption key: the vector y
// and the polynomial sum_i y_i * sk_i in the coefficient
// representation.
type RingIPFEBigDerivedKey struct {
	Y   data.Vector
	SkY data.Vector
}

// RingIPFEBigCipher encrypts up to N rows of length L under shared
// randomness; all polynomials are in the coefficient representation.
type RingIPFEBigCipher struct {
	NumRows int
	Ct0     data.Vector
	Ct      data.Matrix
}

// NewRingIPFEBig configures a new instance of the single-prime scheme.
// The parameter search mirrors NewRingIPFE, with the correctness bound
// widened by a factor l * boundY before the prime is selected.
func NewRingIPFEBig(sec, l, n int, boundX, boundY *big.Int) (*RingIPFEBig, error) {
	found, err := searchRingParams(sec, l, n, boundX, boundY, true)
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate ring parameters")
	}

	params := &RingIPFEBigParams{
		L:      l,
		Sec:    sec,
		Exp:    found.exp,
		N:      found.n,
		BoundX: new(big.Int).Set(boundX),
		BoundY: new(big.Int).Set(boundY),
		K:      found.k,
		Q:      found.q,
		Phi:    found.phi,
		Sigma1: found.sigma1,
		Sigma2: found.sigma2,
		Sigma3: found.sigma3,
	}

	return NewRingIPFEBigFromParams(params)
}

// NewRingIPFEBigFromParams reconstructs a scheme instance, including
// the transform tables, from previously generated (e.g. deserialized)
// parameters.
func NewRingIPFEBigFromParams(params *RingIPFEBigParams) (*RingIPFEBig, error) {
	mod, err := ring.NewBigModulus(params.Exp, params.Q, params.Phi, params.K)
	if err != nil {
		return nil, errors.Wrap(err, "cannot reconstruct modulus")
	}
	if mod.N != params.N {
		return nil, ipfe.ErrMalformedInput
	}

	return &RingIPFEBig{
		Params: params,
		mod:    mod,
	}, nil
}

// SetSource replaces the scheme's entropy source. Passing a
// sample.KeyedPRNG makes key generation and encryption reproducible;
// a nil source restores the system's secure generator.
func (s *RingIPFEBig) SetSource(src io.Reader) {
	s.src = src
}

// SetFastGaussian toggles the rounded continuous Gaussian sampler in
// place of the constant-time rejection sampler.
func (s *RingIPFEBig) SetFastGaussian(fast bool) {
	s.fastGauss = fast
}

func (s *RingIPFEBig) source() io.Reader {
	if s.src == nil {
		return rand.Reader
	}

	return s.src
}

func (s *RingIPFEBig) gaussSampler(sigma *big.Float) sample.Sampler {
	if s.fastGauss {
		return sample.NewNormalRounded(sigma, s.src)
	}

	return sample.NewNormalDoubleConstant(sample.KForSigma(sigma), s.src)
}

// GenerateSecretKey generates a master secret key: l small polynomials
// sampled from the discrete Gaussian with standard deviation Sigma1.
func (s *RingIPFEBig) GenerateSecretKey() (*RingIPFEBigSecKey, error) {
	sampler := s.gaussSampler(s.Params.Sigma1)
	sk, err := data.NewRandomMatrix(s.Params.L, s.Params.N, sampler)
	if err != nil {
		return nil, errors.Wrap(err, "secret key generation failed")
	}

	return &RingIPFEBigSecKey{Sk: sk.Mod(s.mod.Q)}, nil
}

// GeneratePublicKey accepts a master secret key and generates the
// corresponding master public key A, {A * sk_i + e_i}.
func (s *RingIPFEBig) GeneratePublicKey(secKey *RingIPFEBigSecKey) (*RingIPFEBigPubKey, error) {
	if secKey == nil || !secKey.Sk.CheckDims(s.Params.L, s.Params.N) {
		return nil, ipfe.ErrMalformedSecKey
	}

	a, err := s.mod.SampleUniform(s.source())
	if err != nil {
		return nil, errors.Wrap(err, "public key generation failed")
	}

	sampler := s.gaussSampler(s.Params.Sigma1)
	pk := make([]data.Vector, s.Params.L)
	for i := range pk {
		e, err := data.NewRandomVector(s.Params.N, sampler)
		if err != nil {
			return nil, errors.Wrap(err, "public key generation failed")
		}
		eHat := e.Mod(s.mod.Q)
		s.mod.NTT(eHat)

		skHat := secKey.Sk[i].Copy()
		s.mod.NTT(skHat)

		pk[i] = s.mod.MulCoeffs(a, skHat).Add(eHat).Mod(s.mod.Q)
	}

	pkMat, err := data.NewMatrix(pk)
	if err != nil {
		return nil, ipfe.ErrMalformedPubKey
	}

	return &RingIPFEBigPubKey{A: a, Pk: pkMat}, nil
}

// DeriveKey accepts a function vector y and the master secret key and
// derives the functional decryption key sum_i y_i * sk_i.
func (s *RingIPFEBig) DeriveKey(y data.Vector, secKey *RingIPFEBigSecKey) (*RingIPFEBigDerivedKey, error) {
	if len(y) != s.Params.L {
		return nil, ipfe.ErrMalformedInput
	}
	if err := y.CheckBound(s.Params.BoundY); err != nil {
		return nil, ipfe.ErrBoundViolation
	}
	if secKey == nil || !secKey.Sk.CheckDims(s.Params.L, s.Params.N) {
		return nil, ipfe.ErrMalformedSecKey
	}

	skY, err := secKey.Sk.Transpose().MulVec(y)
	if err != nil {
		return nil, ipfe.ErrMalformedInput
	}

	return &RingIPFEBigDerivedKey{Y: y.Copy(), SkY: skY.Mod(s.mod.Q)}, nil
}

// Encrypt encrypts a single vector x of length l using the master
// public key. It is the one-row special case of EncryptMulti.
func (s *RingIPFEBig) Encrypt(x data.Vector, pubKey *RingIPFEBigPubKey) (*RingIPFEBigCipher, error) {
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
// simultaneously under the same encryption randomness r. The k-th
// coefficient of the i-th slot polynomial carries X[k][i] scaled by
// floor(Q/K).
func (s *RingIPFEBig) EncryptMulti(X data.Matrix, pubKey *RingIPFEBigPubKey) (*RingIPFEBigCipher, error) {
	numRows := X.Rows()
	if numRows < 1 || numRows > s.Params.N || X.Cols() != s.Params.L {
		return nil, ipfe.ErrMalformedInput
	}
	if err := X.CheckBound(s.Params.BoundX); err != nil {
		return nil, ipfe.ErrBoundViolation
	}
	if pubKey == nil || len(pubKey.A) != s.Params.N || !pubKey.Pk.CheckDims(s.Params.L, s.Params.N) {
		return nil, ipfe.ErrMalformedPubKey
	}

	sampler2 := s.gaussSampler(s.Params.Sigma2)
	sampler3 := s.gaussSampler(s.Params.Sigma3)

	r, err := data.NewRandomVector(s.Params.N, sampler2)
	if err != nil {
		return nil, errors.Wrap(err, "error in encrypt")
	}
	rHat := r.Mod(s.mod.Q)
	s.mod.NTT(rHat)

	f0, err := data.NewRandomVector(s.Params.N, sampler2)
	if err != nil {
		return nil, errors.Wrap(err, "error in encrypt")
	}

	ct0 := s.mod.MulCoeffs(pubKey.A, rHat)
	s.mod.InvNTT(ct0)
	ct0 = ct0.Add(f0).Mod(s.mod.Q)

	// scale the plaintext into its coset; coefficient k of the slot i
	// polynomial carries X[k][i] * floor(Q/K)
	T := X.Apply(func(x *big.Int) *big.Int {
		t := new(big.Int).Mod(x, s.mod.Q)
		t.Mul(t, s.mod.Scale)
		t.Mod(t, s.mod.Q)

		return t
	})
	xs := data.NewConstantMatrix(s.Params.L, s.Params.N, big.NewInt(0))
	for i := 0; i < s.Params.L; i++ {
		for k := 0; k < numRows; k++ {
			xs[i][k] = T[k][i]
		}
	}

	// noise matrix E to secure the encryption
	E, err := data.NewRandomMatrix(s.Params.L, s.Params.N, sampler3)
	if err != nil {
		return nil, errors.Wrap(err, "error in encrypt")
	}

	conv := make([]data.Vector, s.Params.L)
	for i := range conv {
		conv[i] = s.mod.MulCoeffs(pubKey.Pk[i], rHat)
		s.mod.InvNTT(conv[i])
	}
	ctMat, err := data.NewMatrix(conv)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}

	ctMat, err = ctMat.Add(E)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}
	ctMat, err = ctMat.Add(xs)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}
	ctMat = ctMat.Mod(s.mod.Q)

	return &RingIPFEBigCipher{NumRows: numRows, Ct0: ct0, Ct: ctMat}, nil
}

// Decrypt accepts a ciphertext and a functional decryption key for a
// vector y and returns the inner products of y with the encrypted
// rows, obtained by centering modulo Q and rounding by floor(Q/K),
// ties to even.
func (s *RingIPFEBig) Decrypt(cipher *RingIPFEBigCipher, key *RingIPFEBigDerivedKey) (data.Vector, error) {
	if err := s.checkCipher(cipher); err != nil {
		return nil, err
	}
	if key == nil || len(key.Y) != s.Params.L || len(key.SkY) != s.Params.N {
		return nil, ipfe.ErrMalformedDecKey
	}
	if err := key.Y.CheckBound(s.Params.BoundY); err != nil {
		return nil, ipfe.ErrBoundViolation
	}

	dY, err := cipher.Ct.Transpose().MulVec(key.Y)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}

	conv := s.mod.MulPoly(cipher.Ct0, key.SkY)
	dY = dY.Sub(conv).Mod(s.mod.Q)

	res := make(data.Vector, cipher.NumRows)
	for k := range res {
		res[k] = ipfe.RoundDiv(s.mod.Center(dY[k]), s.mod.Scale)
	}

	return res, nil
}

// DecryptAll recovers the full plaintext matrix from a ciphertext
// using the master secret key. It returns an error if a recovered
// entry falls outside the plaintext bound.
func (s *RingIPFEBig) DecryptAll(cipher *RingIPFEBigCipher, secKey *RingIPFEBigSecKey) (data.Matrix, error) {
	if err := s.checkCipher(cipher); err != nil {
		return nil, err
	}
	if secKey == nil || !secKey.Sk.CheckDims(s.Params.L, s.Params.N) {
		return nil, ipfe.ErrMalformedSecKey
	}

	conv := make([]data.Vector, s.Params.L)
	for i := range conv {
		conv[i] = s.mod.MulPoly(cipher.Ct0, secKey.Sk[i])
	}
	convMat, err := data.NewMatrix(conv)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}

	d, err := cipher.Ct.Sub(convMat)
	if err != nil {
		return nil, ipfe.ErrMalformedCipher
	}
	d = d.Mod(s.mod.Q)

	rows := make([]data.Vector, cipher.NumRows)
	for k := range rows {
		rows[k] = make(data.Vector, s.Params.L)
	}
	for i := 0; i < s.Params.L; i++ {
		for k := 0; k < cipher.NumRows; k++ {
			v := ipfe.RoundDiv(s.mod.Center(d[i][k]), s.mod.Scale)
			if new(big.Int).Abs(v).Cmp(s.Params.BoundX) > 0 {
				return nil, ipfe.ErrDecryptionOutOfRange
			}
			rows[k][i] = v
		}
	}

	return data.NewMatrix(rows)
}

func (s *RingIPFEBig) checkCipher(cipher *RingIPFEBigCipher) error {
	if cipher == nil || cipher.NumRows < 1 || cipher.NumRows > s.Params.N ||
		len(cipher.Ct0) != s.Params.N || !cipher.Ct.CheckDims(s.Params.L, s.Params.N) {
		return ipfe.ErrMalformedCipher
	}

	return nil
}
