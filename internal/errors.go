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

package internal

import (
	"errors"
	"fmt"
)

var malformedStr = "is not of the proper form"

var ErrMalformedPubKey = errors.New(fmt.Sprintf("public key %s", malformedStr))
var ErrMalformedSecKey = errors.New(fmt.Sprintf("secret key %s", malformedStr))
var ErrMalformedDecKey = errors.New(fmt.Sprintf("decryption key %s", malformedStr))
var ErrMalformedCipher = errors.New(fmt.Sprintf("ciphertext %s", malformedStr))
var ErrMalformedInput = errors.New(fmt.Sprintf("input data %s", malformedStr))

// ErrBoundViolation is returned when a plaintext or function vector
// holds a value outside the bound the parameters were generated for.
var ErrBoundViolation = errors.New("input value out of the configured bound")

// ErrInvalidModulusPrime is returned when a modulus prime fails its
// constructor predicate: q not prime, q != 1 (mod 2n), or phi^n != -1 (mod q).
var ErrInvalidModulusPrime = errors.New("modulus prime does not support a negacyclic transform")

// ErrParamSearchExhausted is returned when no ring degree below 2^20
// satisfies both the correctness and the lattice security conditions.
var ErrParamSearchExhausted = errors.New("parameter search exhausted without a safe configuration")

// ErrDecryptionOutOfRange is returned when a recovered plaintext value
// falls outside the declared bound, indicating a corrupted ciphertext
// or a bound violation at encryption time.
var ErrDecryptionOutOfRange = errors.New("decrypted value out of range")
