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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/rlwe-ipfe/sample"
)

func TestUniformRange(t *testing.T) {
	min := big.NewInt(-5)
	max := big.NewInt(5)
	sampler := sample.NewUniformRange(min, max, nil)

	for i := 0; i < 1000; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		assert.True(t, v.Cmp(min) >= 0)
		assert.True(t, v.Cmp(max) < 0)
	}
}

func TestUniform(t *testing.T) {
	max := big.NewInt(1 << 20)
	sampler := sample.NewUniform(max, testPRNG(t, "uniform"))

	for i := 0; i < 1000; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		assert.True(t, v.Sign() >= 0)
		assert.True(t, v.Cmp(max) < 0)
	}
}

func TestBit(t *testing.T) {
	sampler := sample.NewBit(testPRNG(t, "bit"))

	seen := map[int64]bool{}
	for i := 0; i < 256; i++ {
		v, err := sampler.Sample()
		require.NoError(t, err)
		seen[v.Int64()] = true
		assert.True(t, v.Int64() == 0 || v.Int64() == 1)
	}
	assert.True(t, seen[0] && seen[1])
}

func TestKeyedPRNGDeterminism(t *testing.T) {
	p1 := testPRNG(t, "determinism")
	p2 := testPRNG(t, "determinism")

	b1 := make([]byte, 1024)
	b2 := make([]byte, 1024)
	_, err := p1.Read(b1)
	require.NoError(t, err)
	_, err = p2.Read(b2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)

	// a different key gives a different stream
	p3 := testPRNG(t, "another key")
	b3 := make([]byte, 1024)
	_, err = p3.Read(b3)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b3)

	// resetting rewinds the stream
	require.NoError(t, p1.Reset())
	b4 := make([]byte, 1024)
	_, err = p1.Read(b4)
	require.NoError(t, err)
	assert.Equal(t, b1, b4)
}
