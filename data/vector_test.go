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

package data_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentec-project/rlwe-ipfe/data"
)

func vecOfInts(vals ...int64) data.Vector {
	v := make(data.Vector, len(vals))
	for i, x := range vals {
		v[i] = big.NewInt(x)
	}

	return v
}

func TestVector_Ops(t *testing.T) {
	v1 := vecOfInts(1, -2, 3)
	v2 := vecOfInts(4, 5, -6)

	sum := v1.Add(v2)
	assert.Equal(t, vecOfInts(5, 3, -3), sum)

	diff := v1.Sub(v2)
	assert.Equal(t, vecOfInts(-3, -7, 9), diff)

	dot, err := v1.Dot(v2)
	require.NoError(t, err)
	assert.Equal(t, int64(-24), dot.Int64())

	_, err = v1.Dot(vecOfInts(1))
	assert.Error(t, err)

	mod := vecOfInts(-1, 7, 3).Mod(big.NewInt(5))
	assert.Equal(t, vecOfInts(4, 2, 3), mod)
}

func TestVector_CheckBound(t *testing.T) {
	v := vecOfInts(-10, 3, 10)

	assert.NoError(t, v.CheckBound(big.NewInt(10)))
	assert.NoError(t, v.CheckBound(big.NewInt(11)))
	assert.Error(t, v.CheckBound(big.NewInt(9)))
}

func TestVector_MulAsPolyInRing(t *testing.T) {
	// (1 + x) * x = x + x^2, and x^2 = -1 in Z[x]/(x^2+1)
	a := vecOfInts(1, 1) // 1 + x
	b := vecOfInts(0, 1) // x

	prod, err := a.MulAsPolyInRing(b)
	require.NoError(t, err)
	assert.Equal(t, vecOfInts(-1, 1), prod)

	_, err = a.MulAsPolyInRing(vecOfInts(1))
	assert.Error(t, err)
}

func TestMatrix_Ops(t *testing.T) {
	m, err := data.NewMatrix([]data.Vector{
		vecOfInts(1, 2),
		vecOfInts(3, 4),
		vecOfInts(5, 6),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 2, m.Cols())
	assert.True(t, m.CheckDims(3, 2))
	assert.False(t, m.CheckDims(2, 3))

	mT := m.Transpose()
	assert.True(t, mT.CheckDims(2, 3))
	assert.Equal(t, int64(5), mT[0][2].Int64())

	res, err := mT.MulVec(vecOfInts(1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, vecOfInts(9, 12), res)

	_, err = data.NewMatrix([]data.Vector{vecOfInts(1), vecOfInts(1, 2)})
	assert.Error(t, err)
}
