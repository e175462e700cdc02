// Package address defines the identity model: nominal string identifiers,
// the nested address tuples that scope them, and the canonical encoding of
// property paths.
//
// IDENTIFIERS:
//
// Every identifier kind gets its own zero-cost wrapper type (ProjectID,
// SheetID, ...). Two identifiers with the same text but different declared
// kinds are not interchangeable at compile time, even though the runtime
// representation stays a plain string.
//
// ADDRESSES:
//
// Addresses nest by struct embedding:
//
//	ProjectAddress ⊂ SheetAddress ⊂ SheetObjectAddress
//
// A narrower address is a superset of the fields of its parent, so any
// function accepting a ProjectAddress also accepts the embedded address of
// any more specific tuple.
//
// PATHS:
//
// PropPath identifies one value position inside an object's property tree.
// Encode produces the canonical string form used as a map key: a JSON array
// of NFC-normalized segments with no HTML escaping, so the same logical path
// always encodes to the same bytes.
package address
