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
	"encoding/binary"
	"io"
	"math/big"
	"math/bits"
	"sort"

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/sample"
)

// Modulus holds an RNS prime chain for the ring Z_Q[X]/(X^n+1) with
// Q the product of the chain, together with all tables the negacyclic
// NTT and the CRT reconstruction need: per-prime bit-reversed powers
// of phi and phi^-1, n^-1 mod q_i, the Garner mixing constants, and
// the plaintext scale floor(Q/K) with its per-prime residues.
//
// All tables are written once during construction and only read
// afterwards, so a Modulus may be shared freely between goroutines.
type Modulus struct {
	Exp    int
	N      int
	Primes []ModPrime

	Q     *big.Int
	K     *big.Int
	Scale *big.Int // floor(Q/K)

	scaleCRT []uint64
	psi      [][]uint64
	psiInv   [][]uint64
	nInv     []uint64
	crtC     []uint64 // crtC[i] = (q_0*...*q_{i-1})^-1 mod q_i, crtC[0] unused
}

// NewModulus builds a Modulus from a chain of primes sharing the same
// exp, and the plaintext modulus k. The chain is sorted, every prime
// is re-validated against the ModPrime predicate, and duplicates are
// rejected.
func NewModulus(primes []ModPrime, k *big.Int) (*Modulus, error) {
	if len(primes) == 0 {
		return nil, errors.New("empty prime chain")
	}
	if k == nil || k.Sign() < 1 {
		return nil, errors.New("plaintext modulus must be positive")
	}

	chain := make([]ModPrime, len(primes))
	copy(chain, primes)
	sort.Slice(chain, func(i, j int) bool { return chain[i].Q < chain[j].Q })

	exp := chain[0].Exp
	n := 1 << uint(exp)
	q := big.NewInt(1)
	for i, p := range chain {
		if p.Exp != exp {
			return nil, errors.New("chain primes disagree on the ring degree")
		}
		if i > 0 && p.Q == chain[i-1].Q {
			return nil, errors.New("chain primes must be pairwise distinct")
		}
		if _, err := NewModPrime(p.Exp, p.Q, p.Phi); err != nil {
			return nil, err
		}
		q.Mul(q, new(big.Int).SetUint64(p.Q))
	}

	m := &Modulus{
		Exp:      exp,
		N:        n,
		Primes:   chain,
		Q:        q,
		K:        new(big.Int).Set(k),
		Scale:    new(big.Int).Div(q, k),
		scaleCRT: make([]uint64, len(chain)),
		psi:      make([][]uint64, len(chain)),
		psiInv:   make([][]uint64, len(chain)),
		nInv:     make([]uint64, len(chain)),
		crtC:     make([]uint64, len(chain)),
	}

	tmp := new(big.Int)
	for i, p := range chain {
		m.scaleCRT[i] = tmp.Mod(m.Scale, new(big.Int).SetUint64(p.Q)).Uint64()
		m.nInv[i] = InvMod(uint64(n)%p.Q, p.Q)

		m.psi[i] = make([]uint64, n)
		m.psiInv[i] = make([]uint64, n)
		phiInv := InvMod(p.Phi, p.Q)
		pow, powInv := uint64(1), uint64(1)
		for j := 0; j < n; j++ {
			r := bitReverse(uint64(j), exp)
			m.psi[i][r] = pow
			m.psiInv[i][r] = powInv
			pow = MulMod(pow, p.Phi, p.Q)
			powInv = MulMod(powInv, phiInv, p.Q)
		}

		if i > 0 {
			prod := uint64(1)
			for j := 0; j < i; j++ {
				prod = MulMod(prod, chain[j].Q%p.Q, p.Q)
			}
			m.crtC[i] = InvMod(prod, p.Q)
		}
	}

	return m, nil
}

// NewPoly returns the zero polynomial under the modulus.
func (m *Modulus) NewPoly() *Poly {
	return &Poly{
		T:      len(m.Primes),
		N:      m.N,
		Coeffs: make([]uint64, len(m.Primes)*m.N),
	}
}

// Add sets pOut = p1 + p2 componentwise. Aliasing of arguments is
// allowed.
func (m *Modulus) Add(p1, p2, pOut *Poly) {
	for j, p := range m.Primes {
		r1, r2, rOut := p1.Row(j), p2.Row(j), pOut.Row(j)
		for k := 0; k < m.N; k++ {
			rOut[k] = AddMod(r1[k], r2[k], p.Q)
		}
	}
}

// Sub sets pOut = p1 - p2 componentwise. Aliasing of arguments is
// allowed.
func (m *Modulus) Sub(p1, p2, pOut *Poly) {
	for j, p := range m.Primes {
		r1, r2, rOut := p1.Row(j), p2.Row(j), pOut.Row(j)
		for k := 0; k < m.N; k++ {
			rOut[k] = SubMod(r1[k], r2[k], p.Q)
		}
	}
}

// MulCoeffs sets pOut = p1 * p2 componentwise; with both inputs in the
// evaluation representation this is the ring product. Aliasing of
// arguments is allowed.
func (m *Modulus) MulCoeffs(p1, p2, pOut *Poly) {
	for j, p := range m.Primes {
		r1, r2, rOut := p1.Row(j), p2.Row(j), pOut.Row(j)
		for k := 0; k < m.N; k++ {
			rOut[k] = MulMod(r1[k], r2[k], p.Q)
		}
	}
}

// MulScalarAdd adds s times the sel-th row of p into the sel-th row of
// pOut.
func (m *Modulus) MulScalarAdd(sel int, s uint64, p, pOut *Poly) {
	q := m.Primes[sel].Q
	r, rOut := p.Row(sel), pOut.Row(sel)
	for k := 0; k < m.N; k++ {
		rOut[k] = AddMod(rOut[k], MulMod(s, r[k], q), q)
	}
}

// SetCoeff sets the k-th coefficient of p to the residues of v.
func (m *Modulus) SetCoeff(p *Poly, k int, v *big.Int) {
	q := new(big.Int)
	tmp := new(big.Int)
	for j, pr := range m.Primes {
		q.SetUint64(pr.Q)
		p.Row(j)[k] = tmp.Mod(v, q).Uint64()
	}
}

// SetCoeffScaled sets the k-th coefficient of p to the residues of v
// multiplied by the plaintext scale floor(Q/K), embedding a plaintext
// value deep enough in its coset to survive the decryption noise.
func (m *Modulus) SetCoeffScaled(p *Poly, k int, v *big.Int) {
	q := new(big.Int)
	tmp := new(big.Int)
	for j, pr := range m.Primes {
		q.SetUint64(pr.Q)
		p.Row(j)[k] = MulMod(tmp.Mod(v, q).Uint64(), m.scaleCRT[j], pr.Q)
	}
}

// SampleUniform fills p with residues drawn independently and
// uniformly from [1, q_j); zero is excluded.
func (m *Modulus) SampleUniform(src io.Reader, p *Poly) error {
	buf := make([]byte, 8)
	for j, pr := range m.Primes {
		mask := uint64(1)<<uint(bits.Len64(pr.Q)) - 1
		row := p.Row(j)
		for k := 0; k < m.N; k++ {
			for {
				if _, err := io.ReadFull(src, buf); err != nil {
					return errors.Wrap(err, "cannot sample uniform polynomial")
				}
				c := binary.LittleEndian.Uint64(buf) & mask
				if c > 0 && c < pr.Q {
					row[k] = c
					break
				}
			}
		}
	}

	return nil
}

// SampleGauss fills the coefficients of p with values drawn from the
// provided integer sampler, reduced into every chain prime.
func (m *Modulus) SampleGauss(sampler sample.Sampler, p *Poly) error {
	for k := 0; k < m.N; k++ {
		v, err := sampler.Sample()
		if err != nil {
			return errors.Wrap(err, "cannot sample gaussian polynomial")
		}
		m.SetCoeff(p, k, v)
	}

	return nil
}
