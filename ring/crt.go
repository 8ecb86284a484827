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

import "math/big"

// Lift reconstructs the coefficients of p from their residues by
// Garner's mixed-radix algorithm and centers them, returning signed
// values in (-Q/2, Q/2].
func (m *Modulus) Lift(p *Poly) []*big.Int {
	res := make([]*big.Int, m.N)

	qj := new(big.Int)
	tmp := new(big.Int)
	cj := new(big.Int)
	for k := 0; k < m.N; k++ {
		x := new(big.Int).SetUint64(p.Row(0)[k])
		c := new(big.Int).SetUint64(m.Primes[0].Q)
		for j := 1; j < len(m.Primes); j++ {
			qj.SetUint64(m.Primes[j].Q)
			cj.SetUint64(m.crtC[j])
			tmp.SetUint64(p.Row(j)[k])
			tmp.Sub(tmp, x)
			tmp.Mod(tmp, qj)
			tmp.Mul(tmp, cj)
			tmp.Mod(tmp, qj)
			tmp.Mul(tmp, c)
			x.Add(x, tmp)
			c.Mul(c, qj)
		}

		tmp.Lsh(x, 1)
		if tmp.Cmp(c) >= 0 {
			x.Sub(x, c)
		}
		res[k] = x
	}

	return res
}

// Project sets the coefficients of a fresh polynomial to the residues
// of the provided signed values; it inverts Lift for values of
// magnitude below Q/2.
func (m *Modulus) Project(vals []*big.Int) *Poly {
	p := m.NewPoly()
	for k, v := range vals {
		if k == m.N {
			break
		}
		m.SetCoeff(p, k, v)
	}

	return p
}
