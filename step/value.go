package step

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindNull is an unset attribute ($), a derived attribute (*) or the unknown logical (.U.).
	KindNull Kind = iota
	// KindNumber is an INTEGER or REAL.
	KindNumber
	// KindBool is a BOOLEAN or LOGICAL (.T. / .F.).
	KindBool
	// KindString is a quoted string with escapes resolved.
	KindString
	// KindRef is an entity instance reference (#n).
	KindRef
	// KindEnum is an enumeration token (.ELEMENT.) or a bare identifier.
	KindEnum
	// KindList is an aggregate (LIST/SET/ARRAY) or a typed value wrapper.
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRef:
		return "ref"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a single decoded attribute.
//
// Typed value wrappers such as IFCLABEL('x') decode to a KindList value whose
// Type is the wrapper name and whose List holds the wrapped value.
type Value struct {
	Kind Kind
	// Num holds KindNumber values.
	Num float64
	// Integer reports whether a number was written without a fractional part or exponent.
	Integer bool
	// Bool holds KindBool values.
	Bool bool
	// Str holds KindString and KindEnum values.
	Str string
	// Ref holds KindRef values.
	Ref uint32
	// Type is the wrapper type name of a typed value, empty for plain aggregates.
	Type string
	// List holds KindList elements.
	List []Value
}

// Null returns a null value.
func Null() Value { return Value{} }

// Number returns a REAL value.
func Number(v float64) Value { return Value{Kind: KindNumber, Num: v} }

// Integer returns an INTEGER value.
func Integer(v int64) Value { return Value{Kind: KindNumber, Num: float64(v), Integer: true} }

// Bool returns a BOOLEAN value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Ref returns a reference value.
func Ref(id uint32) Value { return Value{Kind: KindRef, Ref: id} }

// Enum returns an enumeration value.
func Enum(token string) Value { return Value{Kind: KindEnum, Str: token} }

// List returns an aggregate value.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

// Typed returns a typed value wrapper, e.g. Typed("IFCLABEL", String("x")).
func Typed(typ string, v Value) Value {
	return Value{Kind: KindList, Type: typ, List: []Value{v}}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsTyped reports whether the value is a typed value wrapper.
func (v Value) IsTyped() bool { return v.Kind == KindList && v.Type != "" }

// Unwrap returns the wrapped value of a typed value wrapper. Other values are returned unchanged.
func (v Value) Unwrap() Value {
	for v.IsTyped() && len(v.List) == 1 {
		v = v.List[0]
	}
	return v
}

// AsRef returns the referenced express id.
func (v Value) AsRef() (uint32, bool) {
	if v.Kind != KindRef {
		return 0, false
	}
	return v.Ref, true
}

// AsString returns the string content, looking through typed value wrappers.
func (v Value) AsString() (string, bool) {
	v = v.Unwrap()
	if v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// AsNumber returns the numeric content, looking through typed value wrappers.
func (v Value) AsNumber() (float64, bool) {
	v = v.Unwrap()
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// AsBool returns the boolean content, looking through typed value wrappers.
func (v Value) AsBool() (bool, bool) {
	v = v.Unwrap()
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// AsList returns the elements of a plain aggregate. Typed value wrappers are not aggregates.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind != KindList || v.Type != "" {
		return nil, false
	}
	return v.List, true
}

// Refs returns the references held by an aggregate, skipping non-reference elements.
func (v Value) Refs() []uint32 {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	ids := make([]uint32, 0, len(items))
	for _, item := range items {
		if id, ok := item.AsRef(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Entity is a decoded data record.
type Entity struct {
	ExpressID  uint32
	Type       string
	Attributes []Value
}

// Attr returns the i-th attribute or a null value if out of range.
func (e *Entity) Attr(i int) Value {
	if e == nil || i < 0 || i >= len(e.Attributes) {
		return Value{}
	}
	return e.Attributes[i]
}

// Len returns the number of attributes.
func (e *Entity) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Attributes)
}
