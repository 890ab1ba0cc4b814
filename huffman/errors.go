package huffman

import "errors"

var errTooLong = errors.New("huffman: code length exceeds 15 bits")
