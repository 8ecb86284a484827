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

package ring

import (
	"math/big"

	"github.com/pkg/errors"

	ipfe "github.com/fentec-project/rlwe-ipfe/internal"
)

// primality certainty for ProbablyPrime; values above 20 make the
// error probability negligible for random candidates
const primalityChecks = 32

// chainBase is the lower bound for primes of an RNS chain. Residues
// stay below 2^31 so that any product of two fits a 64-bit word.
const chainBase = uint64(1) << 29

// chainLimit caps chain primes at 2^31.
const chainLimit = uint64(1) << 31

// ModPrime is a prime q = 1 (mod 2n) for n = 2^exp, together with a
// primitive 2n-th root phi of unity mod q, i.e. phi^n = -1 (mod q).
// Such primes support the negacyclic number theoretic transform of
// length n.
type ModPrime struct {
	Exp int    `json:"exp"`
	Q   uint64 `json:"q"`
	Phi uint64 `json:"phi"`
}

// NewModPrime validates the (exp, q, phi) triple and returns it as a
// ModPrime. It returns an error if q is not prime, q != 1 (mod 2n), or
// phi^n != -1 (mod q).
func NewModPrime(exp int, q, phi uint64) (ModPrime, error) {
	n := uint64(1) << uint(exp)
	if !new(big.Int).SetUint64(q).ProbablyPrime(primalityChecks) {
		return ModPrime{}, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%d is not prime", q)
	}
	if q%(2*n) != 1 {
		return ModPrime{}, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%d != 1 (mod 2^%d)", q, exp+1)
	}
	if PowMod(phi, n, q) != q-1 {
		return ModPrime{}, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%d is not a primitive 2n-th root mod %d", phi, q)
	}

	return ModPrime{Exp: exp, Q: q, Phi: phi}, nil
}

// root2N computes a primitive 2n-th root of unity mod prime q by
// taking exp successive square roots of q-1, i.e. of -1. It reports
// failure if any of the square roots does not exist.
func root2N(q *big.Int, exp int) (*big.Int, bool) {
	r := new(big.Int).Sub(q, big.NewInt(1))
	for i := 0; i < exp; i++ {
		if r = new(big.Int).ModSqrt(r, q); r == nil {
			return nil, false
		}
	}

	return r, true
}

// NextNTTPrime returns the smallest prime q > qMin with q = 1
// (mod 2^(exp+1)) together with a primitive 2n-th root of unity mod q.
// Candidates follow the recurrence q = ceil(qMin/2^(exp+1))*2^(exp+1)+1
// with step 2^(exp+1).
func NextNTTPrime(qMin *big.Int, exp int) (*big.Int, *big.Int, error) {
	step := new(big.Int).Lsh(big.NewInt(1), uint(exp+1))

	q := new(big.Int).Add(qMin, new(big.Int).Sub(step, big.NewInt(1)))
	q.Div(q, step)
	q.Mul(q, step)
	q.Add(q, big.NewInt(1))

	for {
		if q.ProbablyPrime(primalityChecks) {
			if phi, ok := root2N(q, exp); ok {
				return q, phi, nil
			}
		}
		q.Add(q, step)
	}
}

// NTTPrimeChain returns pairwise distinct word-size NTT-friendly
// primes for degree 2^exp whose product exceeds qMin. Candidates are
// enumerated by the same recurrence as NextNTTPrime, starting right
// above 2^29; the chain fails if it would have to leave the 31-bit
// range.
func NTTPrimeChain(qMin *big.Int, exp int) ([]ModPrime, error) {
	step := uint64(1) << uint(exp+1)
	q := (chainBase/step)*step + 1
	if q <= chainBase {
		q += step
	}

	var primes []ModPrime
	prod := big.NewInt(1)
	qBig := new(big.Int)
	for prod.Cmp(qMin) <= 0 {
		if q >= chainLimit {
			return nil, errors.Wrap(ipfe.ErrInvalidModulusPrime, "prime chain left the word-size range")
		}
		qBig.SetUint64(q)
		if qBig.ProbablyPrime(primalityChecks) {
			if phi, ok := root2N(qBig, exp); ok {
				mp, err := NewModPrime(exp, q, phi.Uint64())
				if err != nil {
					return nil, err
				}
				primes = append(primes, mp)
				prod.Mul(prod, qBig)
			}
		}
		q += step
	}

	return primes, nil
}
