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
	"github.com/fentec-project/rlwe-ipfe/sample"
)

func newTestSchemeBig(t *testing.T, l int, bx, by int64, key string) *simple.RingIPFEBig {
	s, err := simple.NewRingIPFEBig(testSec, l, 1, big.NewInt(bx), big.NewInt(by))
	require.NoError(t, err)
	s.SetSource(testPRNG(t, key))

	return s
}

func TestRingIPFEBig_SingleVector(t *testing.T) {
	s := newTestSchemeBig(t, 4, 10, 10, "big single")

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

func TestRingIPFEBig_MultiRow(t *testing.T) {
	s := newTestSchemeBig(t, 2, 10, 10, "big multi")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	keyY, err := s.DeriveKey(vecOfInts(1, 1), secKey)
	require.NoError(t, err)

	X := matOfRows(
		vecOfInts(1, 2),
		vecOfInts(3, 4),
		vecOfInts(5, 6),
	)
	cipher, err := s.EncryptMulti(X, pubKey)
	require.NoError(t, err)

	res, err := s.Decrypt(cipher, keyY)
	require.NoError(t, err)
	require.Equal(t, 3, len(res))
	assert.Equal(t, int64(3), res[0].Int64())
	assert.Equal(t, int64(7), res[1].Int64())
	assert.Equal(t, int64(11), res[2].Int64())
}

func TestRingIPFEBig_NegativeEntries(t *testing.T) {
	s := newTestSchemeBig(t, 3, 2, 1, "big negative")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	keyY, err := s.DeriveKey(vecOfInts(-1, -1, -1), secKey)
	require.NoError(t, err)

	cipher, err := s.Encrypt(vecOfInts(-2, -2, -2), pubKey)
	require.NoError(t, err)

	res, err := s.Decrypt(cipher, keyY)
	require.NoError(t, err)
	require.Equal(t, 1, len(res))
	assert.Equal(t, int64(6), res[0].Int64())
}

func TestRingIPFEBig_DecryptAll(t *testing.T) {
	s := newTestSchemeBig(t, 4, 3, 3, "big decrypt all")

	sampler := sample.NewUniformRange(big.NewInt(-3), big.NewInt(4), testPRNG(t, "big plaintext"))
	X, err := data.NewRandomMatrix(4, 4, sampler)
	require.NoError(t, err)

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)
	cipher, err := s.EncryptMulti(X, pubKey)
	require.NoError(t, err)

	recovered, err := s.DecryptAll(cipher, secKey)
	require.NoError(t, err)
	require.True(t, recovered.CheckDims(4, 4))
	for k := range X {
		for i := range X[k] {
			assert.Equal(t, 0, X[k][i].Cmp(recovered[k][i]), "mismatch at row %d slot %d", k, i)
		}
	}
}

func TestRingIPFEBig_Validation(t *testing.T) {
	s := newTestSchemeBig(t, 2, 5, 5, "big validation")

	secKey, err := s.GenerateSecretKey()
	require.NoError(t, err)
	pubKey, err := s.GeneratePublicKey(secKey)
	require.NoError(t, err)

	_, err = s.DeriveKey(vecOfInts(1), secKey)
	assert.Error(t, err)
	_, err = s.DeriveKey(vecOfInts(6, 0), secKey)
	assert.Error(t, err)
	_, err = s.Encrypt(vecOfInts(1, 2, 3), pubKey)
	assert.Error(t, err)
	_, err = s.Encrypt(vecOfInts(-6, 0), pubKey)
	assert.Error(t, err)

	_, err = s.Encrypt(vecOfInts(5, -5), pubKey)
	assert.NoError(t, err)
}
