// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Package goyaml exposes a streaming YAML 1.1 tokenizer: a thin,
// pull-based facade over internal/libyaml's scanner.
//
// Source code and other details for the project are available at GitHub:
//
//	https://github.com/yamlcraft/goyaml
package goyaml

import (
	"errors"
	"io"

	"github.com/yamlcraft/goyaml/internal/libyaml"
)

// Re-exported so callers never need to import internal/libyaml directly.
type (
	Token       = libyaml.Token
	TokenType   = libyaml.TokenType
	ScalarStyle = libyaml.ScalarStyle
	Encoding    = libyaml.Encoding
	Mark        = libyaml.Mark
)

const (
	StreamStartToken = libyaml.STREAM_START_TOKEN
	StreamEndToken   = libyaml.STREAM_END_TOKEN

	VersionDirectiveToken = libyaml.VERSION_DIRECTIVE_TOKEN
	TagDirectiveToken     = libyaml.TAG_DIRECTIVE_TOKEN
	DocumentStartToken    = libyaml.DOCUMENT_START_TOKEN
	DocumentEndToken      = libyaml.DOCUMENT_END_TOKEN

	BlockSequenceStartToken = libyaml.BLOCK_SEQUENCE_START_TOKEN
	BlockMappingStartToken  = libyaml.BLOCK_MAPPING_START_TOKEN
	BlockEndToken           = libyaml.BLOCK_END_TOKEN

	FlowSequenceStartToken = libyaml.FLOW_SEQUENCE_START_TOKEN
	FlowSequenceEndToken   = libyaml.FLOW_SEQUENCE_END_TOKEN
	FlowMappingStartToken  = libyaml.FLOW_MAPPING_START_TOKEN
	FlowMappingEndToken    = libyaml.FLOW_MAPPING_END_TOKEN

	BlockEntryToken = libyaml.BLOCK_ENTRY_TOKEN
	FlowEntryToken  = libyaml.FLOW_ENTRY_TOKEN
	KeyToken        = libyaml.KEY_TOKEN
	ValueToken      = libyaml.VALUE_TOKEN

	AliasToken  = libyaml.ALIAS_TOKEN
	AnchorToken = libyaml.ANCHOR_TOKEN
	TagToken    = libyaml.TAG_TOKEN
	ScalarToken = libyaml.SCALAR_TOKEN
)

const (
	PlainScalarStyle        = libyaml.PLAIN_SCALAR_STYLE
	SingleQuotedScalarStyle = libyaml.SINGLE_QUOTED_SCALAR_STYLE
	DoubleQuotedScalarStyle = libyaml.DOUBLE_QUOTED_SCALAR_STYLE
	LiteralScalarStyle      = libyaml.LITERAL_SCALAR_STYLE
	FoldedScalarStyle       = libyaml.FOLDED_SCALAR_STYLE
)

// ErrNoMoreTokens is returned by ConsumeCurrent once StreamEnd has already
// been returned; it is io.EOF itself, so errors.Is(err, io.EOF) holds.
var ErrNoMoreTokens = io.EOF

// Scanner is the public, pull-based reader interface described for
// consumers of the token stream: moveNext/current/consumeCurrent over an
// internal/libyaml Parser. It owns exactly one scan of one input.
type Scanner struct {
	parser  libyaml.Parser
	current Token
	primed  bool
	done    bool
}

// NewScanner returns a Scanner reading YAML text from input.
func NewScanner(input []byte) *Scanner {
	parser := libyaml.NewParser()
	parser.SetInputString(input)
	return &Scanner{parser: parser}
}

// NewScannerFromReader returns a Scanner reading YAML text from r.
func NewScannerFromReader(r io.Reader) *Scanner {
	parser := libyaml.NewParser()
	parser.SetInputReader(r)
	return &Scanner{parser: parser}
}

// moveNext advances the cursor to the next token, returning false once
// StreamEnd has already been consumed.
func (s *Scanner) moveNext() (bool, error) {
	if s.done {
		return false, nil
	}
	var tok Token
	if err := s.parser.Scan(&tok); err != nil {
		if errors.Is(err, io.EOF) {
			s.done = true
			return false, nil
		}
		return false, err
	}
	s.current = tok
	s.primed = true
	if tok.Type == StreamEndToken {
		s.done = true
	}
	return true, nil
}

// Current returns the token the cursor rests on; valid only after a
// successful MoveNext.
func (s *Scanner) Current() Token {
	return s.current
}

// MoveNext advances the scanner and reports whether a new token is
// available. Call it before the first Current.
func (s *Scanner) MoveNext() (bool, error) {
	return s.moveNext()
}

// ConsumeCurrent returns the current token and advances past it in one
// step, mirroring the consume-on-release contract: once returned, the
// caller owns the token and must not mutate it.
func (s *Scanner) ConsumeCurrent() (Token, error) {
	if !s.primed {
		if ok, err := s.moveNext(); err != nil {
			return Token{}, err
		} else if !ok {
			return Token{}, ErrNoMoreTokens
		}
	}
	tok := s.current
	s.primed = false
	if tok.Type != StreamEndToken {
		if _, err := s.moveNext(); err != nil {
			return Token{}, err
		}
		s.primed = true
	}
	return tok, nil
}

// ScanAll drains the scanner into a slice, mainly useful for tests and
// the CLI tool; production consumers should prefer the pull interface.
func ScanAll(input []byte) ([]Token, error) {
	s := NewScanner(input)
	var tokens []Token
	for {
		tok, err := s.ConsumeCurrent()
		if err != nil {
			if errors.Is(err, ErrNoMoreTokens) {
				return tokens, nil
			}
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == StreamEndToken {
			return tokens, nil
		}
	}
}
