package policy

import (
	"fmt"

	"martianoff/bfgo/bferr"
)

// CheckASCII rejects input containing bytes outside the 7-bit ASCII
// alphabet the interpreter and generated programs operate on.
func CheckASCII(input []byte) error {
	for i, b := range input {
		if b > 0x7f {
			return bferr.NewEncodingError(fmt.Sprintf("byte 0x%02x at offset %d is not ASCII", b, i))
		}
	}
	return nil
}
