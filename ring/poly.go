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

// Poly is a polynomial of degree below N in the residue number
// system: row j holds its coefficients reduced modulo the j-th chain
// prime. Rows live in one contiguous buffer of T*N words. Whether the
// rows are in coefficient or in evaluation (NTT) representation is
// decided by the operations applied to them.
type Poly struct {
	T      int      `json:"t"`
	N      int      `json:"n"`
	Coeffs []uint64 `json:"coeffs"`
}

// Row returns the residues of the polynomial modulo the sel-th chain
// prime as a slice sharing the underlying buffer.
func (p *Poly) Row(sel int) []uint64 {
	return p.Coeffs[sel*p.N : (sel+1)*p.N]
}

// Copy returns a deep copy of the polynomial.
func (p *Poly) Copy() *Poly {
	coeffs := make([]uint64, len(p.Coeffs))
	copy(coeffs, p.Coeffs)

	return &Poly{T: p.T, N: p.N, Coeffs: coeffs}
}

// Equal reports whether two polynomials have identical shape and
// residues.
func (p *Poly) Equal(other *Poly) bool {
	if p.T != other.T || p.N != other.N {
		return false
	}
	for i, c := range p.Coeffs {
		if other.Coeffs[i] != c {
			return false
		}
	}

	return true
}
