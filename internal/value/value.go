package value

// Value is a sealed interface representing the supported save-data kinds.
// Only Int32, Int64, Float64, String, Bool, Record, and Sequence implement
// it. Anything else encountered in source data (a nil Value, a method, a
// reference) is "unsupported": silently dropped from records, never encoded.
type Value interface {
	saveValue() // Sealed - only these types implement it
}

// Int32 represents a 32-bit signed integer value.
type Int32 int32

func (Int32) saveValue() {}

// Int64 represents a 64-bit integer value, written with its unsigned bit
// pattern. Feature-gated: without the u64 flag the classifier down-classifies
// Int64 to the 32-bit tag, truncating to the low 32 bits.
type Int64 int64

func (Int64) saveValue() {}

// Float64 represents a 64-bit IEEE-754 floating value.
// NaN and Infinity are undefined behavior - callers must not pass them.
type Float64 float64

func (Float64) saveValue() {}

// String represents a UTF-8 string value, length-prefixed on the wire.
// No embedded-NUL restriction.
type String string

func (String) saveValue() {}

// Bool represents a boolean value.
type Bool bool

func (Bool) saveValue() {}

// Field is one named member of a Record. A nil Field.Value marks an
// unsupported member and is dropped during encoding.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered sequence of named fields. Insertion order is
// significant and part of the record's identity: two records with the same
// fields in different order are different values. Names must be unique
// within a record and non-empty; the codec rejects empty names.
type Record []Field

func (Record) saveValue() {}

// Sequence is an ordered list of values.
type Sequence []Value

func (Sequence) saveValue() {}

// F creates a Field for ergonomic Record construction.
// Example: Rec(F("name", String("cart")), F("count", Int32(5)))
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Rec creates a Record from fields in the given order.
func Rec(fields ...Field) Record {
	return Record(fields)
}

// Seq creates a Sequence from values.
func Seq(vals ...Value) Sequence {
	return Sequence(vals)
}

// Get returns the value of the named field and whether it exists.
// Lookup is linear; records are small by construction.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in insertion order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Set replaces the named field's value in place, or appends a new field if
// the name is not present. Returns the (possibly grown) record.
func (r Record) Set(name string, v Value) Record {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = v
			return r
		}
	}
	return append(r, Field{Name: name, Value: v})
}
