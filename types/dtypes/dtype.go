/*
 *	Copyright 2023 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package dtypes defines the closed set of element types a flow Variable can
// hold, plus lookup between their canonical name, enum value, element byte
// size and (optional) short-code used by downstream code generators.
package dtypes

import "strings"

// Type enumerates the element types a Variable can carry.
//
// The order and names match the binary IR's type strings (see the flow
// package's loader) and the original flow compiler's DT_* constants.
type Type int32

const (
	Invalid Type = iota
	Float16
	BFloat16
	Float32
	Float64
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Bool
	String
	Complex64
	Complex128
	QInt8
	QInt16
	QInt32
	QUint8
	QUint16
	Resource

	numTypes
)

// traits holds the static facts about a Type: its canonical name, element
// byte size, and short-code (empty if the type has none).
type traits struct {
	name      string
	byteSize  int
	shortCode string
}

var typeTraits = [numTypes]traits{
	Invalid:    {"void", 0, ""},
	Float16:    {"float16", 2, ""},
	BFloat16:   {"bfloat16", 2, ""},
	Float32:    {"float32", 4, "f32"},
	Float64:    {"float64", 8, "f64"},
	Int8:       {"int8", 1, "s8"},
	Int16:      {"int16", 2, "s16"},
	Int32:      {"int32", 4, "s32"},
	Int64:      {"int64", 8, "s64"},
	Uint8:      {"uint8", 1, "u8"},
	Uint16:     {"uint16", 2, ""},
	Bool:       {"bool", 1, "b8"},
	String:     {"string", 8, "b64"},
	Complex64:  {"complex64", 8, ""},
	Complex128: {"complex128", 16, ""},
	QInt8:      {"qint8", 1, ""},
	QInt16:     {"qint16", 2, ""},
	QInt32:     {"qint32", 4, ""},
	QUint8:     {"quint8", 1, ""},
	QUint16:    {"quint16", 2, ""},
	Resource:   {"resource", 1, ""},
}

// nameToType is built once at init() time: the canonical lower-case names
// plus a handful of historical aliases ("float", "int") the original flow
// compiler also accepted.
var nameToType map[string]Type

func init() {
	nameToType = make(map[string]Type, numTypes+2)
	for t := Type(0); t < numTypes; t++ {
		nameToType[typeTraits[t].name] = t
	}
	nameToType[""] = Invalid
	nameToType["float"] = Float32
	nameToType["int"] = Int32
}

// String returns the canonical type name, e.g. "float32".
func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return typeTraits[Invalid].name
	}
	return typeTraits[t].name
}

// Size returns the element byte size for the type, 0 for Invalid.
func (t Type) Size() int {
	if t < 0 || t >= numTypes {
		return 0
	}
	return typeTraits[t].byteSize
}

// ShortCode returns the type's short-code used by code generators, or "" if
// the type has none.
func (t Type) ShortCode() string {
	if t < 0 || t >= numTypes {
		return ""
	}
	return typeTraits[t].shortCode
}

// Valid reports whether t is a recognized, non-Invalid type.
func (t Type) Valid() bool {
	return t > Invalid && t < numTypes
}

// TypeByName looks up a Type by its canonical (or aliased) name, matching
// case-insensitively. It returns Invalid on a miss.
func TypeByName(name string) Type {
	if t, ok := nameToType[name]; ok {
		return t
	}
	if t, ok := nameToType[strings.ToLower(name)]; ok {
		return t
	}
	return Invalid
}
