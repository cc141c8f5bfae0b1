// Package codec (de)serializes field values and whole documents to and from
// the JSON interchange form stored on disk.
//
// Every field value is kept raw (json.RawMessage) until an accessor asks for
// a concrete type. Numbers decode to a generic float64 first and narrow per
// the requested accessor, so requesting an integer from a fractional value
// truncates toward zero.
//
// Malformed values surface as *DecodeError; decoding to a generic target
// always succeeds for well-formed interchange data.
package codec
