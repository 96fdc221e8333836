// Package raw holds untyped data from submitted forms and request bodies.
//
// Everything that enters the system without a schema is converted once, at the
// boundary, into a Value: a tagged union of null, bool, number, string, ordered
// mapping and sequence. Downstream packages inspect Values by Kind instead of
// probing Go types.
package raw
