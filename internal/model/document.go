// Package model defines the document types shared by the repository and
// handler layers. Documents are schema-less: callers may store arbitrary
// fields, and only the few fields the API logic inspects are named here.
package model

// Document is a schema-less record as stored in a collection. The store
// assigns the _id field on insert; everything else is caller-supplied.
type Document map[string]any

// Field names the API logic inspects. All other fields pass through
// untouched.
const (
	FieldID             = "_id"
	FieldEmail          = "email"
	FieldDonorEmail     = "donor_email"
	FieldFoodStatus     = "food_status"
	FieldFoodQuantity   = "food_quantity"
	FieldFoodID         = "food_id"
	FieldRequesterEmail = "requester_email"
	FieldStatus         = "status"
)

// StatusAvailable marks a food listing as open for requests. Status values
// are free text; this is the only one the server itself filters on.
const StatusAvailable = "Available"

// Email returns the document's email field, or "" if absent or not a string.
func (d Document) Email() string {
	return d.stringField(FieldEmail)
}

func (d Document) stringField(name string) string {
	v, ok := d[name].(string)
	if !ok {
		return ""
	}
	return v
}
