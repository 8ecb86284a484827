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

package sample_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/rlwe-ipfe/sample"
)

const facctSamples = 20000

func drawSamples(t *testing.T, sampler sample.Sampler, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		v, err := sampler.Sample()
		require.NoError(t, err)
		f, _ := new(big.Float).SetInt(v).Float64()
		res[i] = f
	}

	return res
}

func testPRNG(t *testing.T, key string) *sample.KeyedPRNG {
	prng, err := sample.NewKeyedPRNG([]byte(key))
	require.NoError(t, err)

	return prng
}

func TestNormalDoubleConstant(t *testing.T) {
	sigmaCDT, _ := sample.SigmaCDT.Float64()

	for _, sigma := range []float64{1, 8, 1024} {
		k := sample.KForSigma(big.NewFloat(sigma))
		sampler := sample.NewNormalDoubleConstant(k, testPRNG(t, "facct"))

		vec := drawSamples(t, sampler, facctSamples)

		kF, _ := new(big.Float).SetInt(k).Float64()
		expectSigma := kF * sigmaCDT

		mean, err := stats.Mean(vec)
		require.NoError(t, err)
		sd, err := stats.StandardDeviation(vec)
		require.NoError(t, err)

		// the sample mean of N draws lies within a few
		// sigma/sqrt(N) of zero
		assert.InDelta(t, 0, mean, 5*expectSigma/math.Sqrt(facctSamples))
		assert.InDelta(t, expectSigma, sd, 0.05*expectSigma)
	}
}

func TestNormalDoubleConstantZeroFrequency(t *testing.T) {
	// k = 1 gives sigma^2 = 1/(2ln2), so the probability weight of a
	// value x is 2^(-x^2) and zero has probability 1/(1 + 2*sum 2^(-x^2))
	sampler := sample.NewNormalDoubleConstant(big.NewInt(1), testPRNG(t, "facct zero"))

	zeros, pos, neg := 0, 0, 0
	for i := 0; i < facctSamples; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		switch v.Sign() {
		case 0:
			zeros++
		case 1:
			pos++
		case -1:
			neg++
		}
	}

	weight := 0.0
	for x := 1; x < 16; x++ {
		weight += math.Exp2(-float64(x * x))
	}
	pZero := 1 / (1 + 2*weight)

	assert.InDelta(t, pZero, float64(zeros)/facctSamples, 0.02)
	// support symmetry: zero is not double counted into either sign
	assert.InDelta(t, float64(pos)/facctSamples, float64(neg)/facctSamples, 0.03)
}

func TestNormalDoubleConstantDeterminism(t *testing.T) {
	k := sample.KForSigma(big.NewFloat(8))

	s1 := sample.NewNormalDoubleConstant(k, testPRNG(t, "same key"))
	s2 := sample.NewNormalDoubleConstant(k, testPRNG(t, "same key"))

	for i := 0; i < 256; i++ {
		v1, err := s1.Sample()
		require.NoError(t, err)
		v2, err := s2.Sample()
		require.NoError(t, err)
		assert.Equal(t, 0, v1.Cmp(v2))
	}
}

func TestKForSigma(t *testing.T) {
	assert.Equal(t, int64(1), sample.KForSigma(big.NewFloat(1)).Int64())
	// 8 * sqrt(2 ln 2) = 9.419...
	assert.Equal(t, int64(9), sample.KForSigma(big.NewFloat(8)).Int64())
	assert.Equal(t, int64(1206), sample.KForSigma(big.NewFloat(1024)).Int64())
}

func TestNormalCDTHalfGaussian(t *testing.T) {
	sampler := sample.NewNormalCDT(testPRNG(t, "cdt"))

	for i := 0; i < 2000; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		assert.True(t, v.Sign() >= 0)
		assert.True(t, v.Int64() < 10)
	}
}
