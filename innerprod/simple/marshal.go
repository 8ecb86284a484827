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
	"encoding/json"
	"math/big"

	"github.com/pkg/errors"

	"github.com/fentec-project/rlwe-ipfe/ring"
)

// Keys and ciphertexts serialize through their exported fields; the
// parameter records need custom handling for the big.Float standard
// deviations. A scheme instance is rebuilt from deserialized
// parameters with NewRingIPFEFromParams / NewRingIPFEBigFromParams,
// which reconstructs the modulus tables.

const sigmaPrec = 128

// sigmaString renders a standard deviation in the hexadecimal mantissa
// format, which round-trips binary floats exactly.
func sigmaString(sigma *big.Float) string {
	return sigma.Text('p', 0)
}

func parseSigma(s string) (*big.Float, error) {
	sigma, _, err := big.ParseFloat(s, 0, sigmaPrec, big.ToNearestEven)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse standard deviation")
	}

	return sigma, nil
}

type ringIPFEParamsJSON struct {
	L      int             `json:"l"`
	Sec    int             `json:"sec"`
	Exp    int             `json:"exp"`
	N      int             `json:"n"`
	BoundX *big.Int        `json:"boundX"`
	BoundY *big.Int        `json:"boundY"`
	K      *big.Int        `json:"k"`
	Primes []ring.ModPrime `json:"primes"`
	Sigma1 string          `json:"sigma1"`
	Sigma2 string          `json:"sigma2"`
	Sigma3 string          `json:"sigma3"`
}

// MarshalJSON serializes the parameters as a plain record.
func (p *RingIPFEParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(&ringIPFEParamsJSON{
		L:      p.L,
		Sec:    p.Sec,
		Exp:    p.Exp,
		N:      p.N,
		BoundX: p.BoundX,
		BoundY: p.BoundY,
		K:      p.K,
		Primes: p.Primes,
		Sigma1: sigmaString(p.Sigma1),
		Sigma2: sigmaString(p.Sigma2),
		Sigma3: sigmaString(p.Sigma3),
	})
}

// UnmarshalJSON restores the parameters from their serialized record.
func (p *RingIPFEParams) UnmarshalJSON(b []byte) error {
	var aux ringIPFEParamsJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	sigma1, err := parseSigma(aux.Sigma1)
	if err != nil {
		return err
	}
	sigma2, err := parseSigma(aux.Sigma2)
	if err != nil {
		return err
	}
	sigma3, err := parseSigma(aux.Sigma3)
	if err != nil {
		return err
	}

	*p = RingIPFEParams{
		L:      aux.L,
		Sec:    aux.Sec,
		Exp:    aux.Exp,
		N:      aux.N,
		BoundX: aux.BoundX,
		BoundY: aux.BoundY,
		K:      aux.K,
		Primes: aux.Primes,
		Sigma1: sigma1,
		Sigma2: sigma2,
		Sigma3: sigma3,
	}

	return nil
}

type ringIPFEBigParamsJSON struct {
	L      int      `json:"l"`
	Sec    int      `json:"sec"`
	Exp    int      `json:"exp"`
	N      int      `json:"n"`
	BoundX *big.Int `json:"boundX"`
	BoundY *big.Int `json:"boundY"`
	K      *big.Int `json:"k"`
	Q      *big.Int `json:"q"`
	Phi    *big.Int `json:"phi"`
	Sigma1 string   `json:"sigma1"`
	Sigma2 string   `json:"sigma2"`
	Sigma3 string   `json:"sigma3"`
}

// MarshalJSON serializes the parameters as a plain record.
func (p *RingIPFEBigParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(&ringIPFEBigParamsJSON{
		L:      p.L,
		Sec:    p.Sec,
		Exp:    p.Exp,
		N:      p.N,
		BoundX: p.BoundX,
		BoundY: p.BoundY,
		K:      p.K,
		Q:      p.Q,
		Phi:    p.Phi,
		Sigma1: sigmaString(p.Sigma1),
		Sigma2: sigmaString(p.Sigma2),
		Sigma3: sigmaString(p.Sigma3),
	})
}

// UnmarshalJSON restores the parameters from their serialized record.
func (p *RingIPFEBigParams) UnmarshalJSON(b []byte) error {
	var aux ringIPFEBigParamsJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	sigma1, err := parseSigma(aux.Sigma1)
	if err != nil {
		return err
	}
	sigma2, err := parseSigma(aux.Sigma2)
	if err != nil {
		return err
	}
	sigma3, err := parseSigma(aux.Sigma3)
	if err != nil {
		return err
	}

	*p = RingIPFEBigParams{
		L:      aux.L,
		Sec:    aux.Sec,
		Exp:    aux.Exp,
		N:      aux.N,
		BoundX: aux.BoundX,
		BoundY: aux.BoundY,
		K:      aux.K,
		Q:      aux.Q,
		Phi:    aux.Phi,
		Sigma1: sigma1,
		Sigma2: sigma2,
		Sigma3: sigma3,
	}

	return nil
}
