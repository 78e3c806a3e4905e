// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmodel

// SecretString holds a value that must not be echoed in help, logs or
// errors. Fields declared with typeshape.Secret decode to SecretString.
type SecretString string

const secretMask = "**********"

// String returns a fixed mask unless the secret is empty.
func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return secretMask
}

// GoString masks %#v the same way.
func (s SecretString) GoString() string {
	return "argmodel.SecretString(" + `"` + s.String() + `"` + ")"
}

// Reveal returns the underlying value.
func (s SecretString) Reveal() string { return string(s) }

// MarshalText masks the value in encoded output.
func (s SecretString) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
