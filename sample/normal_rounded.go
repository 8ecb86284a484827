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
	"encoding/binary"
	"io"
	"math"
	"math/big"
)

// NormalRounded samples from the continuous normal (Gaussian)
// distribution, centered on 0, and rounds the result to the nearest
// integer, ties to even. It is faster than the rejection based
// samplers but gives no constant time guarantees, so it should only
// be used where timing leakage of the sampled noise is acceptable.
type NormalRounded struct {
	sigma float64
	src   io.Reader
}

// NewNormalRounded returns an instance of NormalRounded sampler with
// standard deviation sigma, reading from the provided entropy source.
func NewNormalRounded(sigma *big.Float, src io.Reader) *NormalRounded {
	sigmaF, _ := sigma.Float64()

	return &NormalRounded{
		sigma: sigmaF,
		src:   source(src),
	}
}

// Sample samples a rounded continuous Gaussian value.
func (s *NormalRounded) Sample() (*big.Int, error) {
	buf := make([]byte, 16)
	if _, err := io.ReadFull(s.src, buf); err != nil {
		return nil, err
	}

	// Box-Muller transform on two 53-bit uniform draws; u1 is shifted
	// into (0, 1] so that the logarithm stays finite
	u1 := (float64(binary.LittleEndian.Uint64(buf[0:8])>>11) + 1) / (1 << 53)
	u2 := float64(binary.LittleEndian.Uint64(buf[8:16])>>11) / (1 << 53)

	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	v := math.RoundToEven(z * s.sigma)

	return big.NewInt(int64(v)), nil
}
