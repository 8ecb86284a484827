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
	"crypto/rand"
	"io"
	"math/big"
)

// Sampler is an interface for instances that can
// sample random values from a probability distribution.
type Sampler interface {
	Sample() (*big.Int, error)
}

// source resolves the entropy source of a sampler. A nil source
// means the system's cryptographically secure generator.
func source(src io.Reader) io.Reader {
	if src == nil {
		return rand.Reader
	}

	return src
}

// uniformInt reads from src until it obtains a value
// uniformly distributed in [0, max).
func uniformInt(src io.Reader, max *big.Int) (*big.Int, error) {
	bits := new(big.Int).Sub(max, big.NewInt(1)).BitLen()
	if bits == 0 {
		return big.NewInt(0), nil
	}
	nBytes := (bits + 7) / 8
	over := uint(8*nBytes - bits)

	buf := make([]byte, nBytes)
	ret := new(big.Int)
	for {
		if _, err := io.ReadFull(src, buf); err != nil {
			return nil, err
		}
		buf[0] >>= over
		ret.SetBytes(buf)
		if ret.Cmp(max) < 0 {
			return ret, nil
		}
	}
}
