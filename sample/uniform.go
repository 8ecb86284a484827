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

package sample

import (
	"io"
	"math/big"
)

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min *big.Int
	max *big.Int
	src io.Reader
}

// NewUniformRange returns an instance of the UniformRange sampler.
// It accepts lower and upper bounds on the sampled values and the
// entropy source to draw from; a nil source means crypto/rand.
func NewUniformRange(min, max *big.Int, src io.Reader) *UniformRange {
	return &UniformRange{
		min: min,
		max: max,
		src: source(src),
	}
}

// NewUniform returns an instance of the UniformRange sampler
// over the interval [0, max).
func NewUniform(max *big.Int, src io.Reader) *UniformRange {
	return NewUniformRange(big.NewInt(0), max, src)
}

// NewBit returns a sampler of a single random bit.
func NewBit(src io.Reader) *UniformRange {
	return NewUniform(big.NewInt(2), src)
}

// Sample samples a random value from the interval [min, max).
func (u *UniformRange) Sample() (*big.Int, error) {
	diff := new(big.Int).Sub(u.max, u.min)
	res, err := uniformInt(u.src, diff)
	if err != nil {
		return nil, err
	}
	res.Add(res, u.min)

	return res, nil
}
