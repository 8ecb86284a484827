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

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG is a cryptographically secure pseudo-random byte stream
// seeded by a key. Two instances created with the same key produce the
// same stream, which makes keys, ciphertexts and samplers reproducible.
// It implements io.Reader and can be handed to any sampler as its
// entropy source.
type KeyedPRNG struct {
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a new KeyedPRNG with the provided key. The key
// must be at most 64 bytes long; an empty or nil key yields the
// unkeyed stream.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create keyed prng")
	}

	return &KeyedPRNG{key: key, xof: xof}, nil
}

// NewPRNG creates a KeyedPRNG with a fresh random key.
func NewPRNG() (*KeyedPRNG, error) {
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "cannot seed prng")
	}

	return NewKeyedPRNG(key)
}

// Read fills b with pseudo-random bytes and advances the stream.
func (p *KeyedPRNG) Read(b []byte) (int, error) {
	return p.xof.Read(b)
}

// Reset rewinds the stream to its initial state.
func (p *KeyedPRNG) Reset() error {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, p.key)
	if err != nil {
		return errors.Wrap(err, "cannot reset prng")
	}
	p.xof = xof

	return nil
}
