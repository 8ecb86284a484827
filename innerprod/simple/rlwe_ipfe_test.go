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

package simple_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/rlwe-ipfe/data"
	"github.com/fentec-project/rlwe-ipfe/innerprod/simple"
	ipfe "github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

const testSec = 75

func vecOfInts(vals ...int64) data.Vector {
	v := make(data.Vector, len(vals))
	for i, x := range vals {
		v[i] = big.NewInt(x)
	}

	return v
}

func matOfRows(rows ...data.Vector) data.Matrix {
	m, err := data.NewMatrix(rows)
	if err != nil {
		panic(err)
	}

	return m
}

func testPRNG(t *testing.T, key string) *sample.KeyedPRNG {
	prng, err := sample.NewKeyedPRNG([]byte(key))
	require.NoError(t, err)

	return prng
}

func newTestScheme(t *testing.T, l int, bx, by int64, key string) *simple.RingIPFE {
	s, err := simple.NewRingIPFE(testSec, l, 1, big.NewInt(bx), big.NewInt(by))
	require.NoError(t, err)
	s.SetSource(testPRNG(t, key))

	return s
}

func encryptDecrypt(t *testing.T, s *simple.RingIPFE, X data.Matrix, y data.Vector) data.Vector {
	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	keyY, err := s.DeriveKey(y, secKey)
	require.NoError(t, err)

	cipher, err := s.EncryptMulti(X, pubKey)
	require.NoError(t, err)

	res, err := s.Decrypt(cipher, keyY)
	require.NoError(t, err)

	return res
}

func TestRingIPFE_SingleVector(t *testing.T) {
	s := newTestScheme(t, 4, 10, 10, "single vector")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)

	y := vecOfInts(5, 6, 7, 8)
	keyY, err := s.DeriveKey(y, secKey)
	require.NoError(t, err)

	cipher, err := s.Encrypt(vecOfInts(1, 2, 3, 4), pubKey)
	require.NoError(t, err)

	res, err := s.Decrypt(cipher, keyY)
	require.NoError(t, err)
	require.Equal(t, 1, len(res))
	assert.Equal(t, int64(70), res[0].Int64())
}

func TestRingIPFE_MultiRow(t *testing.T) {
	s := newTestScheme(t, 2, 10, 10, "multi row")

	X := matOfRows(
		vecOfInts(1, 2),
		vecOfInts(3, 4),
		vecOfInts(5, 6),
	)
	res := encryptDecrypt(t, s, X, vecOfInts(1, 1))

	require.Equal(t, 3, len(res))
	assert.Equal(t, int64(3), res[0].Int64())
	assert.Equal(t, int64(7), res[1].Int64())
	assert.Equal(t, int64(11), res[2].Int64())
}

func TestRingIPFE_Projection(t *testing.T) {
	s := newTestScheme(t, 5, 3, 1, "projection")

	sampler := sample.NewUniformRange(big.NewInt(-3), big.NewInt(4), testPRNG(t, "plaintext"))
	x, err := data.NewRandomVector(5, sampler)
	require.NoError(t, err)

	res := encryptDecrypt(t, s, matOfRows(x), vecOfInts(0, 0, 1, 0, 0))

	require.Equal(t, 1, len(res))
	assert.Equal(t, 0, x[2].Cmp(res[0]))
}

func TestRingIPFE_NegativeEntries(t *testing.T) {
	s := newTestScheme(t, 3, 2, 1, "negative")

	res := encryptDecrypt(t, s, matOfRows(vecOfInts(-2, -2, -2)), vecOfInts(-1, -1, -1))

	require.Equal(t, 1, len(res))
	assert.Equal(t, int64(6), res[0].Int64())
}

func TestRingIPFE_ExtremeInnerProducts(t *testing.T) {
	// rows of +-bx against y = (by, ..., by) produce the largest
	// recoverable inner products +-l*bx*by
	l, bx, by := 4, int64(10), int64(10)
	s := newTestScheme(t, l, bx, by, "boundary")

	X := matOfRows(
		vecOfInts(bx, bx, bx, bx),
		vecOfInts(-bx, -bx, -bx, -bx),
	)
	res := encryptDecrypt(t, s, X, vecOfInts(by, by, by, by))

	require.Equal(t, 2, len(res))
	assert.Equal(t, int64(l)*bx*by, res[0].Int64())
	assert.Equal(t, -int64(l)*bx*by, res[1].Int64())
}

func TestRingIPFE_DecryptAll(t *testing.T) {
	s := newTestScheme(t, 6, 3, 3, "decrypt all")

	sampler := sample.NewUniformRange(big.NewInt(-3), big.NewInt(4), testPRNG(t, "plaintext matrix"))
	X, err := data.NewRandomMatrix(8, 6, sampler)
	require.NoError(t, err)

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	cipher, err := s.EncryptMulti(X, pubKey)
	require.NoError(t, err)

	recovered, err := s.DecryptAll(cipher, secKey)
	require.NoError(t, err)
	require.True(t, recovered.CheckDims(8, 6))
	for k := range X {
		for i := range X[k] {
			assert.Equal(t, 0, X[k][i].Cmp(recovered[k][i]), "mismatch at row %d slot %d", k, i)
		}
	}
}

func TestRingIPFE_FastGaussian(t *testing.T) {
	s := newTestScheme(t, 4, 10, 10, "fast gaussian")
	s.SetFastGaussian(true)

	res := encryptDecrypt(t, s, matOfRows(vecOfInts(1, 2, 3, 4)), vecOfInts(5, 6, 7, 8))

	require.Equal(t, 1, len(res))
	assert.Equal(t, int64(70), res[0].Int64())
}

func TestRingIPFE_Determinism(t *testing.T) {
	s1 := newTestScheme(t, 3, 5, 5, "fixed seed")
	s2, err := simple.NewRingIPFEFromParams(s1.Params)
	require.NoError(t, err)
	s2.SetSource(testPRNG(t, "fixed seed"))

	sk1, err := s1.GenerateSecretKey()
	require.NoError(t, err)
	sk2, err := s2.GenerateSecretKey()
	require.NoError(t, err)
	assert.Equal(t, sk1, sk2)

	pk1, err := s1.GeneratePublicKey(sk1)
	require.NoError(t, err)
	pk2, err := s2.GeneratePublicKey(sk2)
	require.NoError(t, err)
	assert.Equal(t, pk1, pk2)

	x := matOfRows(vecOfInts(1, -2, 3))
	c1, err := s1.EncryptMulti(x, pk1)
	require.NoError(t, err)
	c2, err := s2.EncryptMulti(x, pk2)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestRingIPFE_DecryptAllOutOfRange(t *testing.T) {
	s := newTestScheme(t, 2, 5, 5, "out of range")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	cipher, err := s.Encrypt(vecOfInts(0, 0), pubKey)
	require.NoError(t, err)

	// push the first slot past the plaintext bound, as a corrupted
	// ciphertext would
	mod, err := ring.NewModulus(s.Params.Primes, s.Params.K)
	require.NoError(t, err)
	delta := mod.NewPoly()
	mod.SetCoeffScaled(delta, 0, big.NewInt(6))
	mod.Add(cipher.Ct[0], delta, cipher.Ct[0])

	_, err = s.DecryptAll(cipher, secKey)
	assert.ErrorIs(t, err, ipfe.ErrDecryptionOutOfRange)
}

func TestRingIPFE_Validation(t *testing.T) {
	s := newTestScheme(t, 2, 5, 5, "validation")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)

	// wrong dimensions
	_, err = s.GeneratePublicKey(&simple.RingIPFESecKey{})
	assert.Error(t, err)
	_, err = s.DeriveKey(vecOfInts(1), secKey)
	assert.Error(t, err)
	_, err = s.Encrypt(vecOfInts(1, 2, 3), pubKey)
	assert.Error(t, err)

	// bound violations
	_, err = s.DeriveKey(vecOfInts(6, 0), secKey)
	assert.Error(t, err)
	_, err = s.Encrypt(vecOfInts(-6, 0), pubKey)
	assert.Error(t, err)

	// bound values themselves are admissible
	_, err = s.DeriveKey(vecOfInts(5, -5), secKey)
	assert.NoError(t, err)
	_, err = s.Encrypt(vecOfInts(5, -5), pubKey)
	assert.NoError(t, err)

	// too many rows
	rows := make([]data.Vector, s.Params.N+1)
	for i := range rows {
		rows[i] = vecOfInts(0, 0)
	}
	_, err = s.EncryptMulti(matOfRows(rows...), pubKey)
	assert.Error(t, err)
}
