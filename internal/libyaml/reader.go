// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Reading and decoding raw input: encoding sniffing, raw-buffer refill and
// UTF-8/UTF-16 decoding into the scanner's character window.

package libyaml

import (
	"errors"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// formatReaderError builds a ReaderError describing a problem found offset
// bytes into the raw stream; value carries the offending byte or code
// point when relevant, or -1 when it doesn't apply.
func formatReaderError(problem string, offset, value int) error {
	return ReaderError{Offset: offset, Value: value, Err: errors.New(problem)}
}

// determineEncoding sniffs a byte-order mark at the start of the raw
// stream, falling back to UTF-8 when the encoding wasn't already pinned
// by SetEncoding and no BOM is present. It consumes the BOM, if any, from
// the raw buffer and leaves decoding into the character buffer to
// updateBuffer.
func (parser *Parser) determineEncoding() error {
	for !parser.eof && parser.raw_buffer_pos+3 > len(parser.raw_buffer) {
		if err := parser.updateRawBuffer(); err != nil {
			return err
		}
	}

	raw := parser.raw_buffer[parser.raw_buffer_pos:]
	switch {
	case len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE:
		parser.setEncodingOnce(UTF16LE_ENCODING)
		parser.raw_buffer_pos += 2
	case len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF:
		parser.setEncodingOnce(UTF16BE_ENCODING)
		parser.raw_buffer_pos += 2
	case len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF:
		parser.setEncodingOnce(UTF8_ENCODING)
		parser.raw_buffer_pos += 3
	default:
		parser.setEncodingOnce(UTF8_ENCODING)
	}

	return nil
}

// setEncodingOnce pins the encoding if SetEncoding hasn't already done so;
// an explicit SetEncoding call always wins over BOM sniffing.
func (parser *Parser) setEncodingOnce(enc Encoding) {
	if parser.encoding == ANY_ENCODING {
		parser.encoding = enc
	}
}

// updateRawBuffer compacts the raw buffer and pulls more encoded bytes
// from the input source, marking eof once the source is drained.
func (parser *Parser) updateRawBuffer() error {
	if parser.eof {
		return nil
	}

	if parser.raw_buffer_pos > 0 {
		unread := copy(parser.raw_buffer, parser.raw_buffer[parser.raw_buffer_pos:])
		parser.raw_buffer = parser.raw_buffer[:unread]
		parser.raw_buffer_pos = 0
	}

	if parser.read_handler == nil {
		return formatReaderError("input source is not set", len(parser.raw_buffer), -1)
	}

	free := cap(parser.raw_buffer) - len(parser.raw_buffer)
	if free == 0 {
		return nil
	}

	n, err := parser.read_handler(parser, parser.raw_buffer[len(parser.raw_buffer):cap(parser.raw_buffer)])
	parser.raw_buffer = parser.raw_buffer[:len(parser.raw_buffer)+n]
	if err != nil {
		if err == io.EOF {
			parser.eof = true
			return nil
		}
		return formatReaderError(err.Error(), len(parser.raw_buffer), -1)
	}
	if n == 0 {
		parser.eof = true
	}
	return nil
}

// utf16Decoder returns the streaming decoder for the parser's pinned
// UTF-16 encoding, or nil when the encoding is UTF-8 (no transcoding
// needed) or not yet determined.
func utf16Decoder(enc Encoding) *encoding.Decoder {
	switch enc {
	case UTF16LE_ENCODING:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case UTF16BE_ENCODING:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return nil
	}
}

// updateBuffer guarantees at least length decoded bytes are cached ahead
// of the cursor (or the source is exhausted), pulling and decoding raw
// input as needed. length must not exceed the buffer's capacity.
func (parser *Parser) updateBuffer(length int) error {
	if length > cap(parser.buffer) {
		panic("length exceeds buffer capacity")
	}

	if parser.buffer_pos > 0 {
		unread := copy(parser.buffer, parser.buffer[parser.buffer_pos:])
		parser.buffer = parser.buffer[:unread]
		parser.buffer_pos = 0
	}

	for parser.unreadLen() < length {
		if parser.raw_buffer_pos >= len(parser.raw_buffer) {
			if parser.eof {
				break
			}
			if err := parser.updateRawBuffer(); err != nil {
				return err
			}
			if parser.raw_buffer_pos >= len(parser.raw_buffer) && parser.eof {
				break
			}
			continue
		}

		if dec := utf16Decoder(parser.encoding); dec != nil {
			raw := parser.raw_buffer[parser.raw_buffer_pos:]
			usable := len(raw) - len(raw)%2
			if usable == 0 {
				if err := parser.updateRawBuffer(); err != nil {
					return err
				}
				if usable = len(parser.raw_buffer[parser.raw_buffer_pos:]); usable%2 != 0 {
					usable--
				}
				if usable == 0 {
					break
				}
				raw = parser.raw_buffer[parser.raw_buffer_pos:]
			}
			decoded, err := dec.Bytes(raw[:usable])
			if err != nil {
				return formatReaderError("invalid UTF-16 sequence", parser.raw_buffer_pos, -1)
			}
			parser.buffer = append(parser.buffer, decoded...)
			parser.raw_buffer_pos += usable
			continue
		}

		raw := parser.raw_buffer[parser.raw_buffer_pos:]
		parser.buffer = append(parser.buffer, raw...)
		parser.raw_buffer_pos += len(raw)
	}

	return nil
}
