// Package json implements encoding and decoding of JSON as defined in RFC 7159.
//
// Unmarshal accepts JSON with comments and trailing commas,
// since share files may be edited by hand.
package json

import "encoding/json"

// MarshalIndent marshal v to bytes with indent
var MarshalIndent = json.MarshalIndent
