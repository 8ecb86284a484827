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

// NormalDoubleConstant samples random values from the discrete normal
// (Gaussian) probability distribution, centered on 0, with standard
// deviation k * SigmaCDT. It first samples from the half-Gaussian CDT
// base sampler, widens the sample with a uniform draw from [0, k), and
// accepts or rejects the candidate with a Bernoulli trial evaluated
// through a polynomial approximation of the exponential function. The
// structure of the sampling avoids timing dependence on the output.
type NormalDoubleConstant struct {
	// NormalCDT sampler used in the first part
	samplerCDT *NormalCDT
	// precomputed parameters used for sampling
	k          *big.Int
	kSquareInv *big.Float
	twiceK     *big.Int
	src        io.Reader
}

// NewNormalDoubleConstant returns an instance of NormalDoubleConstant
// sampler with parameter k, reading from the provided entropy source.
// It assumes mean = 0. Values are precomputed when this function is
// called, so that Sample merely samples a value.
func NewNormalDoubleConstant(k *big.Int, src io.Reader) *NormalDoubleConstant {
	kSquare := new(big.Float).SetInt(k)
	kSquare.Mul(kSquare, kSquare)
	kSquareInv := new(big.Float).Quo(big.NewFloat(1), kSquare)

	src = source(src)

	return &NormalDoubleConstant{
		samplerCDT: NewNormalCDT(src),
		k:          new(big.Int).Set(k),
		kSquareInv: kSquareInv,
		twiceK:     new(big.Int).Mul(k, big.NewInt(2)),
		src:        src,
	}
}

// KForSigma derives the convolution parameter k = round(sigma * sqrt(2ln2))
// giving a NormalDoubleConstant sampler of standard deviation sigma.
func KForSigma(sigma *big.Float) *big.Int {
	kF := new(big.Float).Mul(sigma, InvSigmaCDT)
	kF.Add(kF, big.NewFloat(0.5))
	k, _ := kF.Int(nil)
	if k.Sign() < 1 {
		k.SetInt64(1)
	}

	return k
}

// Sample samples according to the discrete Gauss distribution using
// the CDT base sampler and a second, rejection sampling.
func (s *NormalDoubleConstant) Sample() (*big.Int, error) {
	// prepare values
	var sign int64
	checkVal := new(big.Int)
	res := new(big.Int)
	for {
		sign = 1
		// first sample according to discrete gauss with smaller
		// sigma
		x, err := s.samplerCDT.Sample()
		if err != nil {
			return nil, err
		}
		// sample uniformly from an interval
		y, err := uniformInt(s.src, s.twiceK)
		if err != nil {
			return nil, err
		}
		// use the last sampling to decide the sign of the output
		if y.Cmp(s.k) != -1 {
			sign = -1
			y.Sub(y, s.k)
		}

		// partially calculate the result and the probability of accepting the result
		res.Mul(s.k, x)
		checkVal.Mul(res, big.NewInt(2))
		checkVal.Add(checkVal, y)
		checkVal.Mul(checkVal, y)
		res.Add(res, y)

		// sample from Bernoulli to decide if accept
		accept, err := Bernoulli(checkVal, s.kSquareInv, s.src)
		if err != nil {
			return nil, err
		}
		// a zero candidate survives only with a negative sign, so
		// that zero is not counted twice
		if accept && (res.Sign() > 0 || sign == -1) {
			// calculate the final value that we accepted
			res.Mul(res, big.NewInt(sign))

			return new(big.Int).Set(res), nil
		}
	}
}
