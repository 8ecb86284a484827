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
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/data"
	ipfe "github.com/fentec-project/rlwe-ipfe/internal"
	"github.com/fentec-project/rlwe-ipfe/sample"
)

// BigModulus is the single-prime counterpart of Modulus: the ring
// Z_q[X]/(X^n+1) for one prime q of arbitrary bit length, with
// polynomials represented as data.Vector values holding canonical
// residues. It carries the same bit-reversed root tables as the RNS
// chain and supports the same transforms.
type BigModulus struct {
	Exp int
	N   int
	Q   *big.Int
	Phi *big.Int

	K     *big.Int
	Scale *big.Int // floor(Q/K)

	psi    []*big.Int
	psiInv []*big.Int
	nInv   *big.Int
}

// NewBigModulus validates the (exp, q, phi) triple and precomputes
// the transform tables and the plaintext scale floor(q/k).
func NewBigModulus(exp int, q, phi, k *big.Int) (*BigModulus, error) {
	n := 1 << uint(exp)
	if k == nil || k.Sign() < 1 {
		return nil, errors.New("plaintext modulus must be positive")
	}
	if !q.ProbablyPrime(primalityChecks) {
		return nil, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%s is not prime", q)
	}
	twoN := new(big.Int).Lsh(big.NewInt(1), uint(exp+1))
	if new(big.Int).Mod(q, twoN).Cmp(big.NewInt(1)) != 0 {
		return nil, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%s != 1 (mod 2^%d)", q, exp+1)
	}
	qMinusOne := new(big.Int).Sub(q, big.NewInt(1))
	if ipfe.ModExp(phi, big.NewInt(int64(n)), q).Cmp(qMinusOne) != 0 {
		return nil, errors.Wrapf(ipfe.ErrInvalidModulusPrime, "%s is not a primitive 2n-th root mod %s", phi, q)
	}

	m := &BigModulus{
		Exp:    exp,
		N:      n,
		Q:      new(big.Int).Set(q),
		Phi:    new(big.Int).Set(phi),
		K:      new(big.Int).Set(k),
		Scale:  new(big.Int).Div(q, k),
		psi:    make([]*big.Int, n),
		psiInv: make([]*big.Int, n),
		nInv:   ipfe.ModExp(big.NewInt(int64(n)), big.NewInt(-1), q),
	}

	phiInv := ipfe.ModExp(phi, big.NewInt(-1), q)
	pow := big.NewInt(1)
	powInv := big.NewInt(1)
	for j := 0; j < n; j++ {
		r := bitReverse(uint64(j), exp)
		m.psi[r] = new(big.Int).Set(pow)
		m.psiInv[r] = new(big.Int).Set(powInv)
		pow = new(big.Int).Mod(new(big.Int).Mul(pow, phi), q)
		powInv = new(big.Int).Mod(new(big.Int).Mul(powInv, phiInv), q)
	}

	return m, nil
}

// FindBigModulus searches for the smallest NTT-friendly prime above
// qMin for degree 2^exp and builds the modulus around it.
func FindBigModulus(qMin *big.Int, exp int, k *big.Int) (*BigModulus, error) {
	q, phi, err := NextNTTPrime(qMin, exp)
	if err != nil {
		return nil, err
	}

	return NewBigModulus(exp, q, phi, k)
}

// NTT transforms v in-place from the coefficient to the evaluation
// representation. Coefficients must be canonical residues in [0, q).
func (m *BigModulus) NTT(v data.Vector) {
	n := m.N
	t := n
	for h := 1; h < n; h <<= 1 {
		t >>= 1
		for i := 0; i < h; i++ {
			j1 := 2 * i * t
			j2 := j1 + t - 1
			s := m.psi[h+i]
			for j := j1; j <= j2; j++ {
				u := v[j]
				w := new(big.Int).Mul(v[j+t], s)
				w.Mod(w, m.Q)
				v[j] = new(big.Int).Mod(new(big.Int).Add(u, w), m.Q)
				v[j+t] = new(big.Int).Mod(new(big.Int).Sub(u, w), m.Q)
			}
		}
	}
}

// InvNTT transforms v in-place from the evaluation back to the
// coefficient representation.
func (m *BigModulus) InvNTT(v data.Vector) {
	n := m.N
	t := 1
	for h := n; h > 1; h >>= 1 {
		j1 := 0
		half := h >> 1
		for i := 0; i < half; i++ {
			j2 := j1 + t - 1
			s := m.psiInv[half+i]
			for j := j1; j <= j2; j++ {
				u := v[j]
				w := v[j+t]
				v[j] = new(big.Int).Mod(new(big.Int).Add(u, w), m.Q)
				diff := new(big.Int).Sub(u, w)
				diff.Mul(diff, s)
				v[j+t] = diff.Mod(diff, m.Q)
			}
			j1 += t << 1
		}
		t <<= 1
	}

	for j := 0; j < n; j++ {
		v[j] = new(big.Int).Mod(new(big.Int).Mul(v[j], m.nInv), m.Q)
	}
}

// MulCoeffs returns the componentwise product of a and b; with both
// inputs in the evaluation representation this is the ring product.
func (m *BigModulus) MulCoeffs(a, b data.Vector) data.Vector {
	res := make(data.Vector, m.N)
	for i := range res {
		res[i] = new(big.Int).Mod(new(big.Int).Mul(a[i], b[i]), m.Q)
	}

	return res
}

// MulPoly returns the negacyclic convolution of the coefficient-domain
// polynomials a and b, computed as INTT(NTT(a) . NTT(b)). The inputs
// are left untouched.
func (m *BigModulus) MulPoly(a, b data.Vector) data.Vector {
	aHat := a.Copy()
	bHat := b.Copy()
	m.NTT(aHat)
	m.NTT(bHat)
	res := m.MulCoeffs(aHat, bHat)
	m.InvNTT(res)

	return res
}

// Center maps a canonical residue into the signed interval
// (-Q/2, Q/2].
func (m *BigModulus) Center(x *big.Int) *big.Int {
	res := new(big.Int).Mod(x, m.Q)
	tmp := new(big.Int).Lsh(res, 1)
	if tmp.Cmp(m.Q) >= 0 {
		res.Sub(res, m.Q)
	}

	return res
}

// SampleUniform draws a polynomial with coefficients uniform in
// [1, q); zero is excluded.
func (m *BigModulus) SampleUniform(src io.Reader) (data.Vector, error) {
	sampler := sample.NewUniformRange(big.NewInt(1), m.Q, src)

	return data.NewRandomVector(m.N, sampler)
}
