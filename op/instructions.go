package op

import (
	"fmt"
	"strings"
)

// Instructions is an encoded instruction stream.
type Instructions []byte

// String renders one instruction per line, prefixed by its byte offset. An
// undecodable byte ends the listing with an error line.
func (ins Instructions) String() string {
	var out strings.Builder
	for offset := 0; offset < len(ins); {
		decoded, err := Decode(ins, offset)
		if err != nil {
			fmt.Fprintf(&out, "ERROR: %s\n", err)
			break
		}
		fmt.Fprintf(&out, "%04d %s\n", offset, decoded)
		offset += decoded.Width
	}
	return out.String()
}

// Concat joins several encoded instructions into one stream.
func Concat(parts ...[]byte) Instructions {
	var out Instructions
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
