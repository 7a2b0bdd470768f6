package ifcgo

// Diagnostics counts the records a parse skipped. None of them are fatal.
type Diagnostics struct {
	// MalformedEntity counts records the tokenizer or decoder could not read.
	MalformedEntity int `json:"malformedEntity"`
	// RelationshipShape counts relationship records whose attributes did not
	// match the expected reference layout.
	RelationshipShape int `json:"relationshipShape"`
	// PropertySetMissingName counts property sets without a name.
	PropertySetMissingName int `json:"propertySetMissingName"`
	// QuantitySetMissingName counts quantity sets without a name.
	QuantitySetMissingName int `json:"quantitySetMissingName"`
	// InvalidPropertyName counts properties and quantities without a usable name.
	InvalidPropertyName int `json:"invalidPropertyName"`
	// MalformedMember counts property and quantity set members that point to
	// a missing or unreadable record.
	MalformedMember int `json:"malformedMember"`
	// UnsupportedProperty counts property kinds that are not decoded, such
	// as complex properties and references.
	UnsupportedProperty int `json:"unsupportedProperty"`
}

// Total returns the number of skipped records.
func (d Diagnostics) Total() int {
	return d.MalformedEntity + d.RelationshipShape + d.PropertySetMissingName +
		d.QuantitySetMissingName + d.InvalidPropertyName + d.MalformedMember +
		d.UnsupportedProperty
}
