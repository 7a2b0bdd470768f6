package step

// EntityRef locates a single data record in the source buffer.
type EntityRef struct {
	// ExpressID is the source-assigned instance id (the n in #n).
	ExpressID uint32
	// Type is the upper-case entity type name, e.g. IFCWALL.
	Type string
	// Offset is the byte offset of the leading '#'.
	Offset int
	// Length spans from '#' up to and including the closing parenthesis.
	Length int
	// Line is the 1-based line number of the leading '#'.
	Line int
}

// End returns the offset one past the last byte of the record.
func (r EntityRef) End() int {
	return r.Offset + r.Length
}

// Bytes returns the raw record bytes, or nil if the ref is out of range.
func (r EntityRef) Bytes(src []byte) []byte {
	if r.Offset < 0 || r.Length <= 0 || r.End() > len(src) {
		return nil
	}
	return src[r.Offset:r.End()]
}
