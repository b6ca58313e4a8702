package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ToBin serializes tokens as a sequence of little-endian uint32 byte
// lengths, each followed by the token's UTF-8 bytes.
func (tokens *Tokens) ToBin() (*[]byte, error) {
	size := 0
	for idx := range *tokens {
		size += 4 + len((*tokens)[idx])
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	for idx := range *tokens {
		token := (*tokens)[idx]
		if uint64(len(token)) > math.MaxUint32 {
			return nil, fmt.Errorf("integer overflow: token %d is %d bytes long",
				idx, len(token))
		}
		err := binary.Write(buf, binary.LittleEndian, uint32(len(token)))
		if err != nil {
			return nil, err
		}
		buf.WriteString(string(token))
	}
	byt := buf.Bytes()
	return &byt, nil
}

// TokensFromBin reads tokens written by ToBin. A truncated trailing record
// is an error.
func TokensFromBin(bin *[]byte) (*Tokens, error) {
	tokens := make(Tokens, 0)
	buf := bytes.NewReader(*bin)
	for buf.Len() > 0 {
		var length uint32
		if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("truncated token length at token %d: %v",
				len(tokens), err)
		}
		if uint64(length) > uint64(buf.Len()) {
			return nil, fmt.Errorf("token %d claims %d bytes, %d remain",
				len(tokens), length, buf.Len())
		}
		token := make([]byte, length)
		if _, err := buf.Read(token); err != nil && length > 0 {
			return nil, err
		}
		tokens = append(tokens, Token(token))
	}
	return &tokens, nil
}
