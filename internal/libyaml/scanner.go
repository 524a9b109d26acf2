// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// The scanner: turns a decoded character stream into a flat token
// sequence. This is the heart of the package; everything else exists to
// feed it (reader.go) or to carry its output (yaml.go's Token).

package libyaml

import (
	"fmt"
	"io"
)

// Scan produces the next token into *token. On a well-formed stream the
// first call always yields STREAM_START_TOKEN and, once STREAM_END_TOKEN
// has been produced, every subsequent call returns io.EOF without
// touching *token further. Any other error is a ScannerError and is
// unrecoverable: the caller must stop scanning.
func (parser *Parser) Scan(token *Token) error {
	if parser.streamEndProduced {
		return io.EOF
	}
	if !parser.tokenAvailable {
		if err := parser.FetchMoreTokens(); err != nil {
			return err
		}
	}
	*token = parser.tokens.dequeue()
	parser.current = *token
	parser.tokenAvailable = false
	parser.tokensParsed++
	if token.Type == STREAM_END_TOKEN {
		parser.streamEndProduced = true
	}
	return nil
}

// FetchMoreTokens keeps calling FetchNextToken until the queue holds a
// token that is safe to release: one not still claimed by a possible
// simple key that could yet insert a Key token ahead of it.
func (parser *Parser) FetchMoreTokens() error {
	for {
		needMore := parser.tokens.count() == 0
		if !needMore {
			if err := parser.StaleSimpleKeys(); err != nil {
				return err
			}
			for i := range parser.simpleKeys {
				sk := &parser.simpleKeys[i]
				if sk.possible && sk.tokenNumber == parser.tokensParsed {
					needMore = true
					break
				}
			}
		}
		if !needMore {
			break
		}
		if err := parser.FetchNextToken(); err != nil {
			return err
		}
	}
	parser.tokenAvailable = true
	return nil
}

// StaleSimpleKeys invalidates any candidate simple key that no longer
// lies on the current line or has grown past maxSimpleKeyLength
// characters; a required candidate failing this check is fatal.
func (parser *Parser) StaleSimpleKeys() error {
	for i := range parser.simpleKeys {
		sk := &parser.simpleKeys[i]
		if !sk.possible {
			continue
		}
		if sk.mark.Line != parser.mark.Line || parser.mark.Index-sk.mark.Index > maxSimpleKeyLength {
			if sk.required {
				return ScannerError{Mark: parser.mark, Message: "while scanning a simple key, could not find expected ':'"}
			}
			sk.possible = false
		}
	}
	return nil
}

// peekN returns the next want characters as a byte slice, zero-padding
// past end-of-input so chars.go predicates can index it without bounds
// checks of their own.
func (parser *Parser) peekN(want int) []byte {
	parser.cache(want)
	out := make([]byte, want)
	for i := 0; i < want; i++ {
		out[i] = parser.peek(i)
	}
	return out
}

// cache ensures at least n bytes are available ahead of the cursor,
// pulling and decoding more input if necessary. Positions past true
// end-of-input read as NUL via peek, never via a slice resize, so
// endOfInput stays accurate.
func (parser *Parser) cache(n int) {
	if parser.unreadLen() >= n {
		return
	}
	if n > cap(parser.buffer) {
		n = cap(parser.buffer)
	}
	parser.updateBuffer(n)
}

// skipChar advances the cursor by one character, updating mark.
func (parser *Parser) skipChar() {
	w := width(parser.peek(0))
	if w == 0 {
		w = 1
	}
	parser.mark.Index++
	parser.mark.Column++
	parser.skip(w)
}

// skipLine advances past a line break (CR, LF, CRLF, NEL, LS or PS),
// resetting column and advancing line.
func (parser *Parser) skipLine() {
	b := parser.peekN(3)
	switch {
	case isCRLF(b, 0):
		parser.mark.Index += 2
		parser.skip(2)
	case isBreak(b, 0):
		parser.mark.Index++
		parser.skip(1)
	case isLineBreak(b, 0):
		w := width(b[0])
		parser.mark.Index++
		parser.skip(w)
	}
	parser.mark.Line++
	parser.mark.Column = 0
}

// FetchStreamStart produces the mandatory leading STREAM_START_TOKEN and
// primes the indentation/simple-key stacks.
func (parser *Parser) FetchStreamStart() error {
	if err := parser.determineEncoding(); err != nil {
		return err
	}
	parser.cache(1)
	parser.mark = Mark{Line: 1}
	parser.indent = -1
	parser.simpleKeys = []SimpleKey{{}}
	parser.simpleKeyAllowed = true
	parser.streamStartProduced = true
	tok := Token{Type: STREAM_START_TOKEN, StartMark: parser.mark, EndMark: parser.mark}
	tok.encoding = parser.encoding
	parser.tokens.enqueue(tok)
	return nil
}

// FetchStreamEnd unwinds any still-open block collections and produces
// the mandatory trailing STREAM_END_TOKEN.
func (parser *Parser) FetchStreamEnd() error {
	parser.mark.Column = 0
	parser.simpleKeyAllowed = false
	if err := parser.UnrollIndent(-1); err != nil {
		return err
	}
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.tokens.enqueue(Token{Type: STREAM_END_TOKEN, StartMark: parser.mark, EndMark: parser.mark})
	return nil
}

// UnrollIndent closes block collections until the current indentation no
// longer exceeds column, emitting one BLOCK_END_TOKEN per level. A no-op
// in flow context: block structure only unwinds once flow closes.
func (parser *Parser) UnrollIndent(column int) error {
	if parser.flowLevel > 0 {
		return nil
	}
	for parser.indent > column {
		parser.tokens.enqueue(Token{Type: BLOCK_END_TOKEN, StartMark: parser.mark, EndMark: parser.mark})
		parser.indent = parser.indents[len(parser.indents)-1]
		parser.indents = parser.indents[:len(parser.indents)-1]
	}
	return nil
}

// RollIndent opens a new block collection if column indents further than
// the current level, splicing its start token in at tokenNumber (measured
// in tokens parsed plus queued) rather than necessarily at the tail, so it
// can land ahead of a simple key's value already queued.
func (parser *Parser) RollIndent(column, tokenNumber int, tokenType TokenType, mark Mark) {
	if parser.flowLevel > 0 {
		return
	}
	if parser.indent >= column {
		return
	}
	parser.indents = append(parser.indents, parser.indent)
	parser.indent = column
	pos := tokenNumber - parser.tokensParsed
	parser.tokens.insert(pos, Token{Type: tokenType, StartMark: mark, EndMark: mark})
}

// SaveSimpleKey records the current position as a possible simple key,
// replacing whatever candidate occupied this flow level's slot.
func (parser *Parser) SaveSimpleKey() error {
	required := parser.flowLevel == 0 && parser.indent == parser.mark.Column
	if parser.simpleKeyAllowed {
		if err := parser.RemoveSimpleKey(); err != nil {
			return err
		}
		parser.simpleKeys[len(parser.simpleKeys)-1] = SimpleKey{
			possible:    true,
			required:    required,
			tokenNumber: parser.tokensParsed + parser.tokens.count(),
			mark:        parser.mark,
		}
	}
	return nil
}

// RemoveSimpleKey invalidates the current flow level's candidate simple
// key; a required one that never found its ':' is fatal.
func (parser *Parser) RemoveSimpleKey() error {
	sk := &parser.simpleKeys[len(parser.simpleKeys)-1]
	if sk.possible && sk.required {
		return ScannerError{Mark: parser.mark, Message: "while scanning a simple key, could not find expected ':'"}
	}
	sk.possible = false
	return nil
}

// FetchNextToken scans exactly one token (or an indentation/stream
// bracket synthesized around one) and enqueues it.
func (parser *Parser) FetchNextToken() error {
	if !parser.streamStartProduced {
		return parser.FetchStreamStart()
	}

	if err := parser.scanToNextToken(); err != nil {
		return err
	}
	if err := parser.StaleSimpleKeys(); err != nil {
		return err
	}
	if err := parser.UnrollIndent(parser.mark.Column); err != nil {
		return err
	}

	if parser.endOfInput() {
		return parser.FetchStreamEnd()
	}

	b := parser.peekN(4)
	column0 := parser.mark.Column == 0

	switch {
	case column0 && b[0] == '%':
		return parser.FetchDirective()
	case column0 && b[0] == '-' && b[1] == '-' && b[2] == '-' && isBlankOrZero(b, 3):
		return parser.FetchDocumentIndicator(DOCUMENT_START_TOKEN)
	case column0 && b[0] == '.' && b[1] == '.' && b[2] == '.' && isBlankOrZero(b, 3):
		return parser.FetchDocumentIndicator(DOCUMENT_END_TOKEN)
	case b[0] == '[':
		return parser.FetchFlowCollectionStart(FLOW_SEQUENCE_START_TOKEN)
	case b[0] == '{':
		return parser.FetchFlowCollectionStart(FLOW_MAPPING_START_TOKEN)
	case b[0] == ']':
		return parser.FetchFlowCollectionEnd(FLOW_SEQUENCE_END_TOKEN)
	case b[0] == '}':
		return parser.FetchFlowCollectionEnd(FLOW_MAPPING_END_TOKEN)
	case b[0] == ',':
		return parser.FetchFlowEntry()
	case b[0] == '-' && isBlankOrZero(b, 1):
		return parser.FetchBlockEntry()
	case b[0] == '?' && (parser.flowLevel > 0 || isBlankOrZero(b, 1)):
		return parser.FetchKey()
	case b[0] == ':' && (parser.flowLevel > 0 || isBlankOrZero(b, 1)):
		return parser.FetchValue()
	case b[0] == '*':
		return parser.FetchAnchor(ALIAS_TOKEN)
	case b[0] == '&':
		return parser.FetchAnchor(ANCHOR_TOKEN)
	case b[0] == '!':
		return parser.FetchTag()
	case b[0] == '|' && parser.flowLevel == 0:
		return parser.FetchBlockScalar(true)
	case b[0] == '>' && parser.flowLevel == 0:
		return parser.FetchBlockScalar(false)
	case b[0] == '\'':
		return parser.FetchFlowScalar(true)
	case b[0] == '"':
		return parser.FetchFlowScalar(false)
	case parser.isPlainScalarStart(b):
		return parser.FetchPlainScalar()
	default:
		return ScannerError{Mark: parser.mark, Message: fmt.Sprintf("found character %q that cannot start any token", rune(b[0]))}
	}
}

// isPlainScalarStart reports whether b begins a plain scalar: not blank,
// not an indicator character (flow indicators in any context, '#', '&',
// '*', '!', '|', '>', quotes, '%', '@', '`'), and not '-'/'?'/':' followed
// by a blank or, in flow context, by a flow indicator.
func (parser *Parser) isPlainScalarStart(b []byte) bool {
	if isBlankOrZero(b, 0) {
		return false
	}
	switch b[0] {
	case '-', '?', ':':
		return !isBlankOrZero(b, 1) && !(parser.flowLevel > 0 && isFlowIndicator(b, 1))
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	}
	return true
}

// scanToNextToken skips a BOM, blanks, comments and line breaks until a
// token-starting character (or end-of-input) is under the cursor.
func (parser *Parser) scanToNextToken() error {
	for {
		parser.cache(1)
		if parser.mark.Index == 0 && parser.mark.Column == 0 {
			b := parser.peekN(3)
			if isBOM(b, 0) {
				parser.skip(3)
			}
		}

		b := parser.peekN(2)
		switch {
		case isBlank(b, 0):
			parser.skipChar()
		case isBreakOrZero(b, 0) && !isZeroChar(b, 0):
			parser.skipLine()
			if parser.flowLevel == 0 {
				parser.simpleKeyAllowed = true
			}
		case b[0] == '#':
			for {
				bb := parser.peekN(1)
				if isBreakOrZero(bb, 0) {
					break
				}
				parser.skipChar()
			}
		default:
			return nil
		}
	}
}

// FetchDocumentIndicator produces a DOCUMENT_START_TOKEN or
// DOCUMENT_END_TOKEN, closing out any still-open block context first.
func (parser *Parser) FetchDocumentIndicator(tokenType TokenType) error {
	if err := parser.UnrollIndent(-1); err != nil {
		return err
	}
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	parser.skipChar()
	parser.skipChar()
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: tokenType, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchFlowCollectionStart produces FLOW_SEQUENCE_START_TOKEN or
// FLOW_MAPPING_START_TOKEN.
func (parser *Parser) FetchFlowCollectionStart(tokenType TokenType) error {
	if err := parser.SaveSimpleKey(); err != nil {
		return err
	}
	parser.flowLevel++
	parser.simpleKeys = append(parser.simpleKeys, SimpleKey{})
	parser.simpleKeyAllowed = true

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: tokenType, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchFlowCollectionEnd produces FLOW_SEQUENCE_END_TOKEN or
// FLOW_MAPPING_END_TOKEN.
func (parser *Parser) FetchFlowCollectionEnd(tokenType TokenType) error {
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	if parser.flowLevel > 0 {
		parser.flowLevel--
		parser.simpleKeys = parser.simpleKeys[:len(parser.simpleKeys)-1]
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: tokenType, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchFlowEntry produces a FLOW_ENTRY_TOKEN for a ','.
func (parser *Parser) FetchFlowEntry() error {
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = true

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: FLOW_ENTRY_TOKEN, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchBlockEntry produces a BLOCK_ENTRY_TOKEN for a '-', opening a block
// sequence if one isn't already open at this indentation.
func (parser *Parser) FetchBlockEntry() error {
	if parser.flowLevel == 0 {
		if !parser.simpleKeyAllowed {
			return ScannerError{Mark: parser.mark, Message: "block sequence entries are not allowed in this context"}
		}
		tokenNumber := parser.tokensParsed + parser.tokens.count()
		parser.RollIndent(parser.mark.Column, tokenNumber, BLOCK_SEQUENCE_START_TOKEN, parser.mark)
	}
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = true

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: BLOCK_ENTRY_TOKEN, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchKey produces a KEY_TOKEN for an explicit '? ' mapping key.
func (parser *Parser) FetchKey() error {
	if parser.flowLevel == 0 {
		if !parser.simpleKeyAllowed {
			return ScannerError{Mark: parser.mark, Message: "mapping keys are not allowed in this context"}
		}
		tokenNumber := parser.tokensParsed + parser.tokens.count()
		parser.RollIndent(parser.mark.Column, tokenNumber, BLOCK_MAPPING_START_TOKEN, parser.mark)
	}
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = parser.flowLevel == 0

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: KEY_TOKEN, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchValue produces a VALUE_TOKEN for a ':', resolving a pending simple
// key into a Key token spliced in at its recorded position if one is
// possible, or opening an implicit block mapping otherwise.
func (parser *Parser) FetchValue() error {
	sk := parser.simpleKeys[len(parser.simpleKeys)-1]
	if sk.possible {
		parser.simpleKeys[len(parser.simpleKeys)-1].possible = false
		pos := sk.tokenNumber - parser.tokensParsed
		parser.tokens.insert(pos, Token{Type: KEY_TOKEN, StartMark: sk.mark, EndMark: sk.mark})
		if parser.flowLevel == 0 {
			parser.RollIndent(sk.mark.Column, sk.tokenNumber, BLOCK_MAPPING_START_TOKEN, sk.mark)
		}
		parser.simpleKeyAllowed = false
	} else {
		if parser.flowLevel == 0 {
			if !parser.simpleKeyAllowed {
				return ScannerError{Mark: parser.mark, Message: "mapping values are not allowed in this context"}
			}
			tokenNumber := parser.tokensParsed + parser.tokens.count()
			parser.RollIndent(parser.mark.Column, tokenNumber, BLOCK_MAPPING_START_TOKEN, parser.mark)
		}
		parser.simpleKeyAllowed = parser.flowLevel == 0
	}

	start := parser.mark
	parser.skipChar()
	parser.tokens.enqueue(Token{Type: VALUE_TOKEN, StartMark: start, EndMark: parser.mark})
	return nil
}

// FetchAnchor scans an ANCHOR_TOKEN ('&name') or ALIAS_TOKEN ('*name').
func (parser *Parser) FetchAnchor(tokenType TokenType) error {
	if err := parser.SaveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	parser.skipChar() // '&' or '*'

	var name []byte
	for {
		b := parser.peekN(1)
		if !isAlpha(b, 0) {
			break
		}
		name = append(name, parser.peek(0))
		parser.skipChar()
	}
	c := parser.peekN(1)
	if len(name) == 0 || !(isBlankOrZero(c, 0) || c[0] == '?' || c[0] == ':' || c[0] == ',' ||
		c[0] == ']' || c[0] == '}' || c[0] == '%' || c[0] == '@' || c[0] == '`') {
		return ScannerError{Mark: parser.mark, Message: "while scanning an anchor or alias, did not find expected alphabetic or numeric character"}
	}

	parser.tokens.enqueue(Token{Type: tokenType, StartMark: start, EndMark: parser.mark, Value: name})
	return nil
}

// FetchTag scans a TAG_TOKEN: verbatim '!<uri>', shorthand '!handle!suffix'
// or the bare/non-specific '!' and '!!' forms.
func (parser *Parser) FetchTag() error {
	if err := parser.SaveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	var handle, suffix []byte

	b := parser.peekN(2)
	switch {
	case b[1] == '<':
		parser.skipChar()
		parser.skipChar()
		for {
			c := parser.peekN(1)
			if c[0] == '>' {
				break
			}
			if isBreakOrZero(c, 0) {
				return ScannerError{Mark: parser.mark, Message: "while scanning a tag, did not find the expected '>'"}
			}
			if c[0] == '%' {
				r, err := parser.scanURIEscape()
				if err != nil {
					return err
				}
				suffix = append(suffix, r...)
				continue
			}
			if !isTagURIChar(c, 0, true) {
				return ScannerError{Mark: parser.mark, Message: "while scanning a tag, found character that cannot start a URI"}
			}
			suffix = append(suffix, parser.peek(0))
			parser.skipChar()
		}
		parser.skipChar() // '>'
	default:
		parser.skipChar() // leading '!'

		// Collect the run up to the first blank/flow-indicator, deciding
		// handle vs. suffix by whether it closes with a second '!'.
		handle = []byte{'!'}
		for {
			c := parser.peekN(1)
			if c[0] == '!' {
				handle = append(handle, '!')
				parser.skipChar()
				break
			}
			if isBlankOrZero(c, 0) || isFlowIndicator(c, 0) {
				break
			}
			handle = append(handle, parser.peek(0))
			parser.skipChar()
		}
		if handle[len(handle)-1] != '!' {
			// No secondary '!' found: everything after the leading '!' is a
			// suffix under the primary '!' handle.
			suffix = append(suffix, handle[1:]...)
			handle = []byte{'!'}
		}
		for {
			c := parser.peekN(1)
			if isBlankOrZero(c, 0) || isFlowIndicator(c, 0) {
				break
			}
			if c[0] == '%' {
				r, err := parser.scanURIEscape()
				if err != nil {
					return err
				}
				suffix = append(suffix, r...)
				continue
			}
			if !isTagURIChar(c, 0, false) {
				return ScannerError{Mark: parser.mark, Message: "while scanning a tag, found character that cannot start a URI"}
			}
			suffix = append(suffix, parser.peek(0))
			parser.skipChar()
		}
		if len(handle) == 1 && len(suffix) == 0 {
			// A bare '!' is the non-specific tag: empty handle, suffix "!".
			handle, suffix = []byte{}, []byte{'!'}
		}
	}

	c := parser.peekN(1)
	if !isBlankOrZero(c, 0) {
		return ScannerError{Mark: parser.mark, Message: "while scanning a tag, did not find expected whitespace or line break"}
	}

	parser.tokens.enqueue(Token{Type: TAG_TOKEN, StartMark: start, EndMark: parser.mark, Value: handle, suffix: suffix})
	return nil
}

// scanURIEscape decodes a single %XX escape and returns its one decoded
// byte (callers accumulate a run of these into a UTF-8 sequence).
func (parser *Parser) scanURIEscape() ([]byte, error) {
	parser.skipChar() // '%'
	b := parser.peekN(2)
	if !isHex(b, 0) || !isHex(b, 1) {
		return nil, ScannerError{Mark: parser.mark, Message: "while parsing a tag, did not find URI escaped octet"}
	}
	value := byte(asHex(b, 0)<<4 | asHex(b, 1))
	parser.skipChar()
	parser.skipChar()
	return []byte{value}, nil
}

// FetchDirective scans a '%YAML' or '%TAG' directive line.
func (parser *Parser) FetchDirective() error {
	if err := parser.UnrollIndent(-1); err != nil {
		return err
	}
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	parser.skipChar() // '%'

	var name []byte
	for {
		b := parser.peekN(1)
		if isBlankOrZero(b, 0) {
			break
		}
		name = append(name, parser.peek(0))
		parser.skipChar()
	}

	var tok Token
	switch string(name) {
	case "YAML":
		major, minor, err := parser.scanVersionDirectiveValue()
		if err != nil {
			return err
		}
		tok = Token{Type: VERSION_DIRECTIVE_TOKEN, major: int8(major), minor: int8(minor)}
	case "TAG":
		handle, prefix, err := parser.scanTagDirectiveValue()
		if err != nil {
			return err
		}
		tok = Token{Type: TAG_DIRECTIVE_TOKEN, Value: handle, prefix: prefix}
	default:
		return ScannerError{Mark: parser.mark, Message: fmt.Sprintf("found unknown directive name %q", name)}
	}

	for {
		b := parser.peekN(1)
		if !isBlank(b, 0) {
			break
		}
		parser.skipChar()
	}
	if c := parser.peekN(1); c[0] == '#' {
		for {
			b := parser.peekN(1)
			if isBreakOrZero(b, 0) {
				break
			}
			parser.skipChar()
		}
	}
	if b := parser.peekN(1); !isBreakOrZero(b, 0) {
		return ScannerError{Mark: parser.mark, Message: "while scanning a directive, did not find expected comment or line break"}
	}

	tok.StartMark, tok.EndMark = start, parser.mark
	parser.tokens.enqueue(tok)
	return nil
}

func (parser *Parser) scanVersionDirectiveValue() (int, int, error) {
	for {
		b := parser.peekN(1)
		if !isBlank(b, 0) {
			break
		}
		parser.skipChar()
	}
	major, err := parser.scanVersionDirectiveNumber()
	if err != nil {
		return 0, 0, err
	}
	if b := parser.peekN(1); b[0] != '.' {
		return 0, 0, ScannerError{Mark: parser.mark, Message: "while scanning a %YAML directive, did not find expected digit or '.' character"}
	}
	parser.skipChar()
	minor, err := parser.scanVersionDirectiveNumber()
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

func (parser *Parser) scanVersionDirectiveNumber() (int, error) {
	value, length := 0, 0
	for {
		b := parser.peekN(1)
		if !isDigit(b, 0) {
			break
		}
		length++
		if length > 9 {
			return 0, ScannerError{Mark: parser.mark, Message: "while scanning a %YAML directive, found extremely long version number"}
		}
		value = value*10 + asDigit(b, 0)
		parser.skipChar()
	}
	if length == 0 {
		return 0, ScannerError{Mark: parser.mark, Message: "while scanning a %YAML directive, did not find expected version number"}
	}
	return value, nil
}

func (parser *Parser) scanTagDirectiveValue() (handle, prefix []byte, err error) {
	for {
		b := parser.peekN(1)
		if !isBlank(b, 0) {
			break
		}
		parser.skipChar()
	}
	handle, err = parser.scanTagHandle()
	if err != nil {
		return nil, nil, err
	}
	for {
		b := parser.peekN(1)
		if !isBlank(b, 0) {
			break
		}
		parser.skipChar()
	}
	for {
		b := parser.peekN(1)
		if isBlankOrZero(b, 0) {
			break
		}
		if b[0] == '%' {
			r, err := parser.scanURIEscape()
			if err != nil {
				return nil, nil, err
			}
			prefix = append(prefix, r...)
			continue
		}
		if !isTagURIChar(b, 0, true) {
			return nil, nil, ScannerError{Mark: parser.mark, Message: "while parsing a %TAG directive, found character that cannot start a URI"}
		}
		prefix = append(prefix, parser.peek(0))
		parser.skipChar()
	}
	if len(prefix) == 0 {
		return nil, nil, ScannerError{Mark: parser.mark, Message: "while parsing a %TAG directive, did not find expected tag prefix"}
	}
	return handle, prefix, nil
}

func (parser *Parser) scanTagHandle() ([]byte, error) {
	b := parser.peekN(1)
	if b[0] != '!' {
		return nil, ScannerError{Mark: parser.mark, Message: "while scanning a tag directive, did not find expected '!'"}
	}
	handle := []byte{'!'}
	parser.skipChar()
	for {
		c := parser.peekN(1)
		if !isAlpha(c, 0) {
			break
		}
		handle = append(handle, parser.peek(0))
		parser.skipChar()
	}
	c := parser.peekN(1)
	if c[0] == '!' {
		handle = append(handle, '!')
		parser.skipChar()
	} else if len(handle) != 1 {
		return nil, ScannerError{Mark: parser.mark, Message: "while scanning a tag directive, did not find expected '!'"}
	}
	return handle, nil
}

// FetchPlainScalar scans an unquoted scalar. It ends at a blank or line
// break not followed by more content, at ": " (or ':' before a flow
// indicator in flow context), at a flow indicator in flow context, at a
// '---'/'...' document indicator in column 0, at a '#' preceded by
// whitespace, and in block context at a continuation line indented less
// than the current indentation plus one.
func (parser *Parser) FetchPlainScalar() error {
	if err := parser.SaveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	var value []byte
	var trailingBlanks []byte
	multiline := false

	for {
		b := parser.peekN(2)
		if isBlankOrZero(b, 0) {
			break
		}
		if b[0] == ':' && (isBlankOrZero(b, 1) || (parser.flowLevel > 0 && isFlowIndicator(b, 1))) {
			break
		}
		if parser.flowLevel > 0 && isFlowIndicator(b, 0) {
			break
		}
		if parser.mark.Column == 0 {
			b3 := parser.peekN(4)
			if (b3[0] == '-' && b3[1] == '-' && b3[2] == '-' || b3[0] == '.' && b3[1] == '.' && b3[2] == '.') && isBlankOrZero(b3, 3) {
				break
			}
		}
		if len(trailingBlanks) > 0 {
			value = append(value, trailingBlanks...)
			trailingBlanks = nil
		}
		value = append(value, parser.peek(0))
		parser.skipChar()

		for {
			b2 := parser.peekN(2)
			if !isBlank(b2, 0) {
				break
			}
			trailingBlanks = append(trailingBlanks, ' ')
			parser.skipChar()
		}

		if b2 := parser.peekN(1); b2[0] == '#' {
			break
		}
		if b2 := parser.peekN(1); isBreakOrZero(b2, 0) && !isZeroChar(b2, 0) {
			fold, err := parser.scanPlainScalarBreaks()
			if err != nil {
				return err
			}
			if fold == "" {
				break
			}
			// A consumed line break allows a simple key next, whether or
			// not this scalar continues on the new line.
			multiline = true
			if parser.flowLevel == 0 && parser.mark.Column < parser.indent+1 {
				break
			}
			if c := parser.peekN(1); c[0] == '#' {
				break
			}
			trailingBlanks = []byte(fold)
			continue
		}
		if b2 := parser.peekN(1); isZeroChar(b2, 0) && parser.endOfInput() {
			break
		}
	}

	if multiline {
		parser.simpleKeyAllowed = true
	}

	parser.tokens.enqueue(Token{
		Type: SCALAR_TOKEN, StartMark: start, EndMark: parser.mark,
		Value: value, Style: PLAIN_SCALAR_STYLE,
	})
	return nil
}

// scanPlainScalarBreaks consumes the line breaks and indentation
// separating two lines of a multi-line plain scalar, returning the
// folded whitespace to splice in ("" for no more content, a single
// space for a lone break, or a run of breaks for blank lines).
func (parser *Parser) scanPlainScalarBreaks() (string, error) {
	breaks := 0
	for {
		b := parser.peekN(1)
		if isSpace(b, 0) {
			parser.skipChar()
			continue
		}
		if !isBreakOrZero(b, 0) || isZeroChar(b, 0) {
			break
		}
		parser.skipLine()
		breaks++
	}
	if breaks == 0 {
		return "", nil
	}
	if c := parser.peekN(1); isBlankOrZero(c, 0) && parser.endOfInput() {
		return "", nil
	}
	if breaks == 1 {
		return " ", nil
	}
	out := make([]byte, breaks-1)
	for i := range out {
		out[i] = '\n'
	}
	return string(out), nil
}

// FetchFlowScalar scans a single- or double-quoted scalar.
func (parser *Parser) FetchFlowScalar(singleQuoted bool) error {
	if err := parser.SaveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = false

	start := parser.mark
	quote := byte('\'')
	if !singleQuoted {
		quote = '"'
	}
	parser.skipChar() // opening quote

	var value []byte
	for {
		b := parser.peekN(2)
		if b[0] == quote {
			if singleQuoted && b[1] == quote {
				value = append(value, quote)
				parser.skipChar()
				parser.skipChar()
				continue
			}
			break
		}
		if parser.endOfInput() {
			return ScannerError{Mark: parser.mark, Message: "while scanning a quoted scalar, found unexpected end of stream"}
		}
		if parser.mark.Column == 0 {
			b3 := parser.peekN(4)
			if (b3[0] == '-' && b3[1] == '-' && b3[2] == '-' || b3[0] == '.' && b3[1] == '.' && b3[2] == '.') && isBlankOrZero(b3, 3) {
				return ScannerError{Mark: parser.mark, Message: "while scanning a quoted scalar, found unexpected document indicator"}
			}
		}
		if isBreakOrZero(b, 0) && !isZeroChar(b, 0) {
			fold, err := parser.scanFlowScalarBreaks()
			if err != nil {
				return err
			}
			value = append(value, fold...)
			continue
		}
		if isBlank(b, 0) {
			var ws []byte
			for {
				bb := parser.peekN(1)
				if !isBlank(bb, 0) {
					break
				}
				ws = append(ws, parser.peek(0))
				parser.skipChar()
			}
			if bb := parser.peekN(1); isBreakOrZero(bb, 0) && !isZeroChar(bb, 0) {
				continue
			}
			value = append(value, ws...)
			continue
		}
		if !singleQuoted && b[0] == '\\' {
			decoded, err := parser.scanDoubleQuoteEscape()
			if err != nil {
				return err
			}
			value = append(value, decoded...)
			continue
		}
		value = append(value, parser.peek(0))
		parser.skipChar()
	}
	parser.skipChar() // closing quote

	style := SINGLE_QUOTED_SCALAR_STYLE
	if !singleQuoted {
		style = DOUBLE_QUOTED_SCALAR_STYLE
	}
	parser.tokens.enqueue(Token{
		Type: SCALAR_TOKEN, StartMark: start, EndMark: parser.mark,
		Value: value, Style: style,
	})
	return nil
}

func (parser *Parser) scanFlowScalarBreaks() (string, error) {
	breaks := 0
	for {
		b := parser.peekN(1)
		if isBlank(b, 0) {
			parser.skipChar()
			continue
		}
		if !isBreakOrZero(b, 0) || isZeroChar(b, 0) {
			break
		}
		parser.skipLine()
		breaks++
	}
	if breaks == 0 {
		return "", nil
	}
	if breaks == 1 {
		return " ", nil
	}
	out := make([]byte, breaks-1)
	for i := range out {
		out[i] = '\n'
	}
	return string(out), nil
}

// scanDoubleQuoteEscape decodes one '\' escape inside a double-quoted
// scalar into its UTF-8 encoded bytes.
func (parser *Parser) scanDoubleQuoteEscape() ([]byte, error) {
	start := parser.mark
	parser.skipChar() // backslash

	b := parser.peekN(1)
	simple := map[byte]byte{
		'0': 0x00, 'a': 0x07, 'b': 0x08, 't': 0x09, '\t': 0x09, 'n': 0x0A,
		'v': 0x0B, 'f': 0x0C, 'r': 0x0D, 'e': 0x1B, ' ': 0x20,
		'"': '"', '\'': '\'', '\\': '\\',
	}
	if v, ok := simple[b[0]]; ok {
		parser.skipChar()
		return []byte{v}, nil
	}
	switch b[0] {
	case 'N':
		parser.skipChar()
		return []byte{0xC2, 0x85}, nil
	case '_':
		parser.skipChar()
		return []byte{0xC2, 0xA0}, nil
	case 'L':
		parser.skipChar()
		return []byte{0xE2, 0x80, 0xA8}, nil
	case 'P':
		parser.skipChar()
		return []byte{0xE2, 0x80, 0xA9}, nil
	case 'x':
		parser.skipChar()
		return parser.scanUnicodeEscape(2, start)
	case 'u':
		parser.skipChar()
		return parser.scanUnicodeEscape(4, start)
	case 'U':
		parser.skipChar()
		return parser.scanUnicodeEscape(8, start)
	}
	if isBreak(b, 0) || isLineBreak(b, 0) {
		parser.skipLine()
		for {
			c := parser.peekN(1)
			if !isBlank(c, 0) {
				break
			}
			parser.skipChar()
		}
		return nil, nil
	}
	return nil, ScannerError{Mark: parser.mark, Message: fmt.Sprintf("found unknown escape character %q", rune(b[0]))}
}

// scanUnicodeEscape decodes digits hex digits after \x, \u or \U into the
// UTF-8 encoding of the resulting code point.
func (parser *Parser) scanUnicodeEscape(digits int, start Mark) ([]byte, error) {
	code := 0
	for i := 0; i < digits; i++ {
		b := parser.peekN(1)
		if !isHex(b, 0) {
			return nil, ScannerError{Mark: parser.mark, Message: "while parsing a quoted scalar, did not find expected hexadecimal number"}
		}
		code = code<<4 | asHex(b, 0)
		parser.skipChar()
	}
	if code >= 0xD800 && code <= 0xDFFF || code > 0x10FFFF {
		return nil, ScannerError{Mark: start, Message: "found invalid Unicode character escape code"}
	}
	return encodeUTF8(code), nil
}

// encodeUTF8 encodes a Unicode code point as UTF-8 bytes.
func encodeUTF8(code int) []byte {
	switch {
	case code < 0x80:
		return []byte{byte(code)}
	case code < 0x800:
		return []byte{byte(0xC0 | code>>6), byte(0x80 | code&0x3F)}
	case code < 0x10000:
		return []byte{byte(0xE0 | code>>12), byte(0x80 | (code>>6)&0x3F), byte(0x80 | code&0x3F)}
	default:
		return []byte{
			byte(0xF0 | code>>18), byte(0x80 | (code>>12)&0x3F),
			byte(0x80 | (code>>6)&0x3F), byte(0x80 | code&0x3F),
		}
	}
}

// scanBlockScalarBreaks consumes the line break ending a block scalar's
// current line (if any), any further blank lines, and the indentation
// leading up to the next content line. When *indent is still 0 it is
// set from the deepest indentation seen so far, the usual
// auto-detection rule. ended reports that no more scalar content
// follows, either because input is exhausted or because a line was
// found indented less than *indent.
func (parser *Parser) scanBlockScalarBreaks(indent *int) (breaks int, ended bool, err error) {
	maxLeadingIndent := 0
	for {
		for {
			b := parser.peekN(1)
			if isZeroChar(b, 0) && parser.endOfInput() {
				break
			}
			if *indent != 0 && parser.mark.Column >= *indent {
				break
			}
			if *indent == 0 && parser.mark.Column > maxLeadingIndent {
				maxLeadingIndent = parser.mark.Column
			}
			if !isSpace(b, 0) {
				break
			}
			if parser.mark.Column+1 > maxLeadingIndent {
				maxLeadingIndent = parser.mark.Column + 1
			}
			parser.skipChar()
		}
		if *indent == 0 {
			*indent = max(maxLeadingIndent, max(parser.indent+1, 1))
		}

		b := parser.peekN(1)
		if isZeroChar(b, 0) && parser.endOfInput() {
			return breaks, true, nil
		}
		if parser.mark.Column < *indent && isTab(b, 0) {
			return breaks, false, ScannerError{Mark: parser.mark, Message: "while scanning a block scalar, found a tab character where an indentation space is expected"}
		}
		if isBreakOrZero(b, 0) && !isZeroChar(b, 0) {
			parser.skipLine()
			breaks++
			continue
		}
		if parser.mark.Column < *indent {
			return breaks, true, nil
		}
		return breaks, false, nil
	}
}

// FetchBlockScalar scans a '|' (literal) or '>' (folded) block scalar.
func (parser *Parser) FetchBlockScalar(literal bool) error {
	if err := parser.RemoveSimpleKey(); err != nil {
		return err
	}
	parser.simpleKeyAllowed = true

	start := parser.mark
	parser.skipChar() // '|' or '>'

	chomping := 0 // 0 = clip, 1 = strip, -1 = keep
	explicitIndent := 0
	for i := 0; i < 2; i++ {
		b := parser.peekN(1)
		switch {
		case b[0] == '+' && chomping == 0:
			chomping = -1
			parser.skipChar()
		case b[0] == '-' && chomping == 0:
			chomping = 1
			parser.skipChar()
		case isDigit(b, 0) && explicitIndent == 0:
			explicitIndent = asDigit(b, 0)
			if explicitIndent == 0 {
				return ScannerError{Mark: parser.mark, Message: "while scanning a block scalar, found an indentation indicator equal to 0"}
			}
			explicitIndent += max(parser.indent, 0)
			parser.skipChar()
		}
	}
	for {
		b := parser.peekN(1)
		if !isBlank(b, 0) {
			break
		}
		parser.skipChar()
	}
	if b := parser.peekN(1); b[0] == '#' {
		for {
			bb := parser.peekN(1)
			if isBreakOrZero(bb, 0) {
				break
			}
			parser.skipChar()
		}
	}
	if b := parser.peekN(1); !isBreakOrZero(b, 0) {
		return ScannerError{Mark: parser.mark, Message: "while scanning a block scalar, did not find expected comment or line break"}
	}
	parser.skipLine()

	indent := explicitIndent
	var value []byte
	leadingBlank := false
	lineCount := 0
	trailingBreaks := 0

	for {
		breaks, ended, err := parser.scanBlockScalarBreaks(&indent)
		if err != nil {
			return err
		}
		if ended {
			trailingBreaks = breaks
			break
		}

		b := parser.peekN(1)

		switch {
		case breaks == 0:
			// first line of the scalar: nothing precedes it to join
		case lineCount == 0:
			// leading blank lines before any content are never folded
			for i := 0; i < breaks; i++ {
				value = append(value, '\n')
			}
		case !literal && !leadingBlank && !isBlank(b, 0):
			// folded: a lone break becomes a space, n breaks become n-1
			if breaks == 1 {
				value = append(value, ' ')
			}
			for i := 1; i < breaks; i++ {
				value = append(value, '\n')
			}
		default:
			for i := 0; i < breaks; i++ {
				value = append(value, '\n')
			}
		}
		leadingBlank = isBlank(b, 0)

		for {
			bb := parser.peekN(1)
			if isBreakOrZero(bb, 0) {
				break
			}
			value = append(value, parser.peek(0))
			parser.skipChar()
		}
		lineCount++
	}

	switch chomping {
	case 1:
		// strip: drop every trailing break
	case -1:
		for i := 0; i < trailingBreaks; i++ {
			value = append(value, '\n')
		}
	default:
		if lineCount > 0 && trailingBreaks > 0 {
			value = append(value, '\n')
		}
	}

	style := LITERAL_SCALAR_STYLE
	if !literal {
		style = FOLDED_SCALAR_STYLE
	}
	parser.tokens.enqueue(Token{
		Type: SCALAR_TOKEN, StartMark: start, EndMark: parser.mark,
		Value: value, Style: style,
	})
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
