package sgf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
	"gammon_sgf/internal/trace"
)

const defaultChunkSize = 32 * 1024

var bom = []byte("\xEF\xBB\xBF")

type Parser struct {
	tracer    *trace.Tracer
	chunkSize int
}

func NewParser(tracer *trace.Tracer, chunkSize int) *Parser {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Parser{tracer: tracer, chunkSize: chunkSize}
}

// Parse reads an SGF collection with a default parser.
func Parse(name string, data []byte) (*sgf.Collection, error) {
	return NewParser(nil, 0).Parse(name, data)
}

// Parse builds the raw tree of data. On a syntax error the top-level trees
// read completely so far are returned together with the error.
func (p *Parser) Parse(name string, data []byte) (*sgf.Collection, error) {
	s := &scanner{
		name: name,
		data: bytes.TrimPrefix(data, bom),
		line: 1,
		col:  1,
		c:    sgf.NewCollection(name),
	}
	err := s.collection()
	log := p.tracer.Debug(trace.RealmParser)
	if err != nil {
		log.Debugw("parse failed", "file", name, "trees", len(s.c.Trees), "error", err)
		return s.c, err
	}
	log.Debugw("parsed", "file", name, "trees", len(s.c.Trees), "nodes", s.c.NumNodes())
	return s.c, nil
}

// ParseReader slurps r in chunks, checking ctx between reads, and parses
// the result.
func (p *Parser) ParseReader(ctx context.Context, name string, r io.Reader) (*sgf.Collection, error) {
	data, err := ReadAll(ctx, r, p.chunkSize)
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			e.File = name
		}
		return nil, err
	}
	return p.Parse(name, data)
}

// ReadAll reads r until EOF in chunks of chunkSize bytes. It stops with an
// ErrCancelled error as soon as ctx is done.
func ReadAll(ctx context.Context, r io.Reader, chunkSize int) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.KindIO, errors.ErrCancelled, "%v", err)
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.KindIO, err, "read failed")
		}
	}
}

type scanner struct {
	name string
	data []byte
	off  int
	line int
	col  int
	c    *sgf.Collection
}

func (s *scanner) pos() sgf.Pos {
	return sgf.Pos{Offset: s.off, Line: s.line, Column: s.col}
}

func (s *scanner) errorf(at sgf.Pos, format string, args ...any) *errors.Error {
	return &errors.Error{
		Kind:   errors.KindSyntax,
		Msg:    fmt.Sprintf(format, args...),
		File:   s.name,
		Offset: at.Offset,
		Line:   at.Line,
		Column: at.Column,
	}
}

func (s *scanner) eof() bool {
	return s.off >= len(s.data)
}

func (s *scanner) peek() byte {
	return s.data[s.off]
}

// next consumes one byte. "\r\n", "\n\r", "\r" and "\n" each end a line.
func (s *scanner) next() byte {
	c := s.data[s.off]
	s.off++
	switch c {
	case '\n', '\r':
		if !s.eof() && (s.data[s.off] == '\n' || s.data[s.off] == '\r') && s.data[s.off] != c {
			s.off++
		}
		s.line++
		s.col = 1
	default:
		s.col++
	}
	return c
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			s.next()
		default:
			return
		}
	}
}

func (s *scanner) unexpected(what string) *errors.Error {
	if s.eof() {
		return s.errorf(s.pos(), "unexpected end of input, expected %s", what)
	}
	return s.errorf(s.pos(), "unexpected character %q, expected %s", s.peek(), what)
}

func (s *scanner) collection() error {
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		if s.peek() != '(' {
			return s.unexpected("'('")
		}
		m := s.c.Mark()
		if err := s.tree(sgf.NoTree); err != nil {
			s.c.Rollback(m)
			return err
		}
	}
	if len(s.c.Trees) == 0 {
		err := s.errorf(s.pos(), "no game tree")
		err.Err = errors.ErrEmptyCollection
		return err
	}
	return nil
}

func (s *scanner) tree(parent sgf.TreeID) error {
	s.next() // '('
	id := s.c.AddTree(parent)
	s.skipSpace()
	if s.eof() || s.peek() != ';' {
		if !s.eof() && (s.peek() == ')' || s.peek() == '(') {
			return s.errorf(s.pos(), "empty sequence")
		}
		return s.unexpected("';'")
	}
	for !s.eof() && s.peek() == ';' {
		s.next()
		if err := s.node(s.c.AddNode(id)); err != nil {
			return err
		}
		s.skipSpace()
	}
	for !s.eof() && s.peek() == '(' {
		if err := s.tree(id); err != nil {
			return err
		}
		s.skipSpace()
	}
	if s.eof() {
		return s.errorf(s.pos(), "missing ')'")
	}
	if s.peek() != ')' {
		return s.unexpected("';', '(' or ')'")
	}
	s.next()
	return nil
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func (s *scanner) node(id sgf.NodeID) error {
	for {
		s.skipSpace()
		if s.eof() {
			return nil
		}
		c := s.peek()
		if !isUpper(c) && !isLower(c) {
			return nil
		}
		if err := s.property(id); err != nil {
			return err
		}
	}
}

func (s *scanner) property(node sgf.NodeID) error {
	at := s.pos()
	start := s.off
	lower := false
	for !s.eof() && (isUpper(s.peek()) || isLower(s.peek())) {
		lower = lower || isLower(s.peek())
		s.next()
	}
	ident := string(s.data[start:s.off])
	if lower {
		return s.errorf(at, "property id %q is not upper case", ident)
	}

	s.skipSpace()
	var values sgf.Raw
	for !s.eof() && s.peek() == '[' {
		v, err := s.value()
		if err != nil {
			return err
		}
		values = append(values, v)
		s.skipSpace()
	}
	if len(values) == 0 {
		return s.unexpected(fmt.Sprintf("value of property %s", ident))
	}
	if err := s.c.SetProperty(node, sgf.Property{ID: ident, Value: values, Pos: at}); err != nil {
		e := s.errorf(at, "%v", err)
		e.Property = ident
		return e
	}
	return nil
}

// value reads one bracketed value and returns its verbatim contents.
func (s *scanner) value() (string, error) {
	at := s.pos()
	s.next() // '['
	start := s.off
	for !s.eof() {
		switch s.next() {
		case '\\':
			if !s.eof() {
				s.next()
			}
		case ']':
			return string(s.data[start : s.off-1]), nil
		}
	}
	return "", s.errorf(at, "unterminated value")
}
