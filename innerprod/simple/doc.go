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

// Package simple includes schemes for functional encryption of inner
// products instantiated from the ring learning with errors (ring LWE)
// assumption.
//
// A holder of the master secret key can derive a functional key for
// an integer vector y; that key, applied to a ciphertext encrypting a
// vector (or the rows of a matrix) x, reveals exactly the inner
// product of x and y and nothing else about x. The schemes offer
// selective security under chosen plaintext attacks (s-IND-CPA).
//
// Two variants compute the same mathematical objects and expose the
// same operations. RingIPFE keeps every polynomial as residues modulo
// a chain of word-size NTT-friendly primes (a residue number system),
// which is the performance path. RingIPFEBig works modulo a single
// prime of arbitrary bit length. Pick a variant at construction;
// nothing downstream branches on the choice.
package simple
