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

func TestNormalRounded(t *testing.T) {
	for _, sigma := range []float64{8, 1024} {
		sampler := sample.NewNormalRounded(big.NewFloat(sigma), testPRNG(t, "rounded"))

		vec := drawSamples(t, sampler, facctSamples)

		mean, err := stats.Mean(vec)
		require.NoError(t, err)
		sd, err := stats.StandardDeviation(vec)
		require.NoError(t, err)

		assert.InDelta(t, 0, mean, 5*sigma/math.Sqrt(facctSamples))
		assert.InDelta(t, sigma, sd, 0.05*sigma)
	}
}

func TestNormalRoundedDeterminism(t *testing.T) {
	s1 := sample.NewNormalRounded(big.NewFloat(16), testPRNG(t, "same key"))
	s2 := sample.NewNormalRounded(big.NewFloat(16), testPRNG(t, "same key"))

	for i := 0; i < 256; i++ {
		v1, err := s1.Sample()
		require.NoError(t, err)
		v2, err := s2.Sample()
		require.NoError(t, err)
		assert.Equal(t, 0, v1.Cmp(v2))
	}
}
