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
	"math"
	"math/big"
	"math/bits"

	"github.com/ALTree/bigfloat"

	ipfe "github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/ring"
)

// maxRingExp bounds the ring degree search at n < 2^20. Requests that
// cannot be satisfied below the bound fail explicitly instead of
// falling through to an unsafe configuration.
const maxRingExp = 20

// ringParams is the outcome of the joint correctness and security
// search shared by the RNS and the big-prime scheme variants.
type ringParams struct {
	exp int
	n   int

	k      *big.Int
	sigma1 *big.Float
	sigma2 *big.Float
	sigma3 *big.Float

	// RNS variant
	primes []ring.ModPrime
	// big-prime variant
	q   *big.Int
	phi *big.Int
}

// searchRingParams looks for the smallest power-of-two ring degree
// n = 2^exp >= max(nMin, 64) that satisfies both the noise growth bound of the
// scheme and the primal lattice attack check, and selects the matching
// modulus: a chain of word-size NTT primes whose product exceeds the
// correctness bound, or a single big NTT prime when bigVariant is set.
func searchRingParams(sec, l, nMin int, boundX, boundY *big.Int, bigVariant bool) (*ringParams, error) {
	if sec < 1 || l < 1 || nMin < 1 {
		return nil, ipfe.ErrMalformedInput
	}
	if boundX.Sign() < 1 || boundY.Sign() < 1 {
		return nil, ipfe.ErrMalformedInput
	}

	// K = 2*l*bx*by + 1 bounds the magnitude of any recoverable
	// inner product
	k := new(big.Int).Mul(boundX, boundY)
	k.Mul(k, big.NewInt(int64(2*l)))
	k.Add(k, big.NewInt(1))

	kappa := big.NewFloat(float64(sec))
	kappaSqrt := new(big.Float).Sqrt(kappa)

	sigma := big.NewFloat(1)
	sigma1 := new(big.Float).Mul(big.NewFloat(2*math.Sqrt(float64(l))), sigma)
	sigma1.Mul(sigma1, new(big.Float).SetInt(boundX))

	bBound := int(float64(sec) / 0.265)

	expStart := bits.Len(uint(nMin - 1))
	if expStart < 6 {
		expStart = 6
	}

	for exp := expStart; exp < maxRingExp; exp++ {
		n := 1 << uint(exp)

		sigma2 := new(big.Float).Mul(big.NewFloat(math.Sqrt(2*float64(l+2))), sigma)
		sigma2.Mul(sigma2, big.NewFloat(float64(n)))
		sigma2.Mul(sigma2, sigma1)
		sigma2.Mul(sigma2, kappaSqrt)

		sigma3 := new(big.Float).Mul(sigma2, big.NewFloat(math.Sqrt2))

		// qMin = 2*(2n*sec*sigma1*sigma2 + sqrt(sec)*sigma3)*K,
		// with an extra l*by factor for the single-prime modulus
		qMinF := new(big.Float).Mul(sigma1, sigma2)
		qMinF.Mul(qMinF, kappa)
		qMinF.Mul(qMinF, big.NewFloat(float64(2*n)))
		qMinF.Add(qMinF, new(big.Float).Mul(kappaSqrt, sigma3))
		qMinF.Mul(qMinF, big.NewFloat(2))
		qMinF.Mul(qMinF, new(big.Float).SetInt(k))
		if bigVariant {
			qMinF.Mul(qMinF, big.NewFloat(float64(l)))
			qMinF.Mul(qMinF, new(big.Float).SetInt(boundY))
		}
		qMin, _ := qMinF.Int(nil)

		res := &ringParams{
			exp:    exp,
			n:      n,
			k:      k,
			sigma1: sigma1,
			sigma2: sigma2,
			sigma3: sigma3,
		}

		var q *big.Int
		var err error
		if bigVariant {
			if q, res.phi, err = ring.NextNTTPrime(qMin, exp); err != nil {
				return nil, err
			}
			res.q = q
		} else {
			if res.primes, err = ring.NTTPrimeChain(qMin, exp); err != nil {
				return nil, err
			}
			q = big.NewInt(1)
			for _, p := range res.primes {
				q.Mul(q, new(big.Int).SetUint64(p.Q))
			}
		}

		if primalSafe(n, q, bBound) {
			return res, nil
		}
	}

	return nil, ipfe.ErrParamSearchExhausted
}

// primalSafe runs the primal lattice attack check: the configuration
// is safe when sigma*sqrt(b) stays above delta^(2b-d-1) * q^(m/d) for
// every block size b in [50, bBound] and every number of samples m in
// [max(1, b-n), 3n). The comparison is made on logarithms, which keeps
// the delta powers from vanishing below float64 range at large ring
// degrees.
func primalSafe(n int, q *big.Int, bBound int) bool {
	lnQF := bigfloat.Log(new(big.Float).SetInt(q))
	lnQ, _ := lnQF.Float64()

	for b := 50; b <= bBound; b++ {
		bf := float64(b)
		delta := math.Pow(math.Pow(math.Pi*bf, 1/bf)*bf/(2*math.Pi*math.E), 1/(2*bf-2))
		lnDelta := math.Log(delta)
		lnLeft := 0.5 * math.Log(bf) // ln(sigma*sqrt(b)) with sigma = 1

		mLow := 1
		if b-n > 1 {
			mLow = b - n
		}
		for mm := mLow; mm < 3*n; mm++ {
			d := float64(n + mm)
			lnRight := (2*bf-d-1)*lnDelta + float64(mm)/d*lnQ
			if lnLeft <= lnRight {
				return false
			}
		}
	}

	return true
}
