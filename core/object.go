package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is a PDF object. The set of implementations is closed: Null, Bool,
// Int, Real, String, Name, Array, Dict, *Stream and IndirectRef. Code that
// consumes objects switches on the concrete type.
type Object interface {
	Type() ObjectType
	String() string
	isObject()
}

// ObjectType identifies the concrete kind of an Object.
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

var objectTypeNames = [...]string{
	ObjNull:     "Null",
	ObjBool:     "Bool",
	ObjInt:      "Int",
	ObjReal:     "Real",
	ObjString:   "String",
	ObjName:     "Name",
	ObjArray:    "Array",
	ObjDict:     "Dict",
	ObjStream:   "Stream",
	ObjIndirect: "IndirectRef",
}

func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return "Unknown"
	}
	return objectTypeNames[t]
}

// Null is the PDF null object.
type Null struct{}

func (Null) Type() ObjectType { return ObjNull }
func (Null) String() string   { return "null" }
func (Null) isObject()        {}

// Bool is a PDF boolean.
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }
func (Bool) isObject()          {}

// Int is a PDF integer.
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (Int) isObject()          {}

// Real is a PDF real number.
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (Real) isObject()          {}

// String is a PDF string. It holds the raw bytes after escape or hex
// decoding; no character encoding is applied.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }
func (String) isObject()          {}

// Bytes returns the raw bytes of the string.
func (s String) Bytes() []byte { return []byte(s) }

// Name is a PDF name without the leading slash.
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }
func (Name) isObject()          {}

// Array is a PDF array.
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = objectString(obj)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
func (Array) isObject() {}

// Get returns the element at index, or nil when out of range.
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetNumber returns the element at index as a float64 if it is numeric.
func (a Array) GetNumber(index int) (float64, bool) {
	return Number(a.Get(index))
}

// GetName returns the element at index if it is a name.
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// Numbers converts every element to float64. It fails if any element is
// not numeric.
func (a Array) Numbers() ([]float64, bool) {
	out := make([]float64, len(a))
	for i, obj := range a {
		f, ok := Number(obj)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Dict is a PDF dictionary keyed by name (without the slash).
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	keys := d.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = "/" + k + " " + objectString(d[k])
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}
func (Dict) isObject() {}

// Get returns the value for key, or nil.
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName returns the value for key if it is a name.
func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetInt returns the value for key if it is an integer.
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetNumber returns the value for key as float64 if it is numeric.
func (d Dict) GetNumber(key string) (float64, bool) {
	return Number(d[key])
}

// GetDict returns the value for key if it is a direct dictionary.
func (d Dict) GetDict(key string) (Dict, bool) {
	v, ok := d[key].(Dict)
	return v, ok
}

// GetArray returns the value for key if it is a direct array.
func (d Dict) GetArray(key string) (Array, bool) {
	v, ok := d[key].(Array)
	return v, ok
}

// GetString returns the value for key if it is a string.
func (d Dict) GetString(key string) (String, bool) {
	v, ok := d[key].(String)
	return v, ok
}

// GetBool returns the value for key if it is a boolean.
func (d Dict) GetBool(key string) (Bool, bool) {
	v, ok := d[key].(Bool)
	return v, ok
}

// GetStream returns the value for key if it is a direct stream.
func (d Dict) GetStream(key string) (*Stream, bool) {
	v, ok := d[key].(*Stream)
	return v, ok
}

// GetIndirectRef returns the value for key if it is an indirect reference.
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	v, ok := d[key].(IndirectRef)
	return v, ok
}

// Has reports whether key is present.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set stores value under key.
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Delete removes key.
func (d Dict) Delete(key string) {
	delete(d, key)
}

// Keys returns the keys in sorted order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stream is a dictionary followed by raw (still encoded) data.
type Stream struct {
	Dict Dict
	Data []byte

	decoded []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}
func (*Stream) isObject() {}

// IndirectRef refers to an indirect object by number and generation.
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}
func (IndirectRef) isObject() {}

// IndirectObject is an object definition "n g obj ... endobj".
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// Number converts an Int or Real to float64.
func Number(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}

func objectString(obj Object) string {
	if obj == nil {
		return "null"
	}
	return obj.String()
}

// Resolver resolves indirect references. Implementations return obj
// unchanged when it is not an IndirectRef.
type Resolver interface {
	Resolve(obj Object) (Object, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(obj Object) (Object, error)

// Resolve calls f(obj).
func (f ResolverFunc) Resolve(obj Object) (Object, error) {
	return f(obj)
}

// NoResolver is a Resolver for documents without indirect objects, such as
// content built in memory. References resolve to Null.
var NoResolver Resolver = ResolverFunc(func(obj Object) (Object, error) {
	if _, ok := obj.(IndirectRef); ok {
		return Null{}, nil
	}
	return obj, nil
})

// ResolveDict resolves obj and returns it as a dictionary. Streams yield
// their dictionary.
func ResolveDict(r Resolver, obj Object) (Dict, bool) {
	if obj == nil {
		return nil, false
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	switch v := resolved.(type) {
	case Dict:
		return v, true
	case *Stream:
		return v.Dict, true
	default:
		return nil, false
	}
}

// ResolveArray resolves obj and returns it as an array.
func ResolveArray(r Resolver, obj Object) (Array, bool) {
	if obj == nil {
		return nil, false
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, false
	}
	a, ok := resolved.(Array)
	return a, ok
}

// ResolveNumber resolves obj and returns it as a float64.
func ResolveNumber(r Resolver, obj Object) (float64, bool) {
	if obj == nil {
		return 0, false
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return 0, false
	}
	return Number(resolved)
}
