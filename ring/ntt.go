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

// The negacyclic twist is absorbed into the bit-reversed psi tables,
// so no separate pre- or post-multiplication is needed around the
// transforms.

// NTT transforms p in-place from the coefficient to the evaluation
// representation, modulo every chain prime. Input rows are in natural
// order, output rows in bit-reversed order.
func (m *Modulus) NTT(p *Poly) {
	for j, pr := range m.Primes {
		nttForward(p.Row(j), m.N, m.psi[j], pr.Q)
	}
}

// InvNTT transforms p in-place from the evaluation back to the
// coefficient representation, modulo every chain prime.
func (m *Modulus) InvNTT(p *Poly) {
	for j, pr := range m.Primes {
		nttInverse(p.Row(j), m.N, m.psiInv[j], m.nInv[j], pr.Q)
	}
}

// MulPoly sets pOut to the negacyclic convolution of the
// coefficient-domain polynomials p1 and p2, computed as
// INTT(NTT(p1) . NTT(p2)). The inputs are left untouched.
func (m *Modulus) MulPoly(p1, p2, pOut *Poly) {
	a := p1.Copy()
	b := p2.Copy()
	m.NTT(a)
	m.NTT(b)
	m.MulCoeffs(a, b, pOut)
	m.InvNTT(pOut)
}

// nttForward is the in-place Cooley-Tukey decimation-in-time
// transform. psi holds the bit-reversed powers of the primitive 2n-th
// root of unity.
func nttForward(a []uint64, n int, psi []uint64, q uint64) {
	t := n
	for m := 1; m < n; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t - 1
			s := psi[m+i]
			for j := j1; j <= j2; j++ {
				u := a[j]
				v := MulMod(a[j+t], s, q)
				a[j] = AddMod(u, v, q)
				a[j+t] = SubMod(u, v, q)
			}
		}
	}
}

// nttInverse is the in-place Gentleman-Sande decimation-in-frequency
// transform, mirrored against nttForward, with the trailing n^-1
// scaling.
func nttInverse(a []uint64, n int, psiInv []uint64, nInv, q uint64) {
	t := 1
	for m := n; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + t - 1
			s := psiInv[h+i]
			for j := j1; j <= j2; j++ {
				u := a[j]
				v := a[j+t]
				a[j] = AddMod(u, v, q)
				a[j+t] = MulMod(SubMod(u, v, q), s, q)
			}
			j1 += t << 1
		}
		t <<= 1
	}

	for j := 0; j < n; j++ {
		a[j] = MulMod(a[j], nInv, q)
	}
}
