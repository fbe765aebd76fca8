package token

import "strings"

// Quote describes how a token was quoted in the original text.
type Quote int

const (
	QuoteNone Quote = iota
	QuoteSingle
	QuoteDouble
)

// Token is a single parameter of the command line. Text holds the unescaped
// value, Raw the original span including quote delimiters. Start and End are
// rune offsets into the buffer the token was scanned from, so the raw span
// can be mapped back to cursor positions.
type Token struct {
	Text  string
	Raw   string
	Start int
	End   int
	Quote Quote
}

func (t Token) Quoted() bool {
	return t.Quote != QuoteNone
}

func (t Token) QuoteChar() rune {
	switch t.Quote {
	case QuoteSingle:
		return '\''
	case QuoteDouble:
		return '"'
	}
	return 0
}

// Len is the width of the token in the original buffer, quotes included.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains reports whether pos falls inside the token's raw span.
func (t Token) Contains(pos int) bool {
	return pos >= t.Start && pos < t.End
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

type scanner struct {
	text []rune
	pos  int
}

// Tokenize splits a command line into tokens. Whitespace outside quotes
// separates tokens and is never emitted. A quote opens a quoted section in
// which whitespace is literal; a backslash escapes the active quote character
// or another backslash. An unterminated quote is closed implicitly at the end
// of the buffer since the line is being edited, not validated.
func Tokenize(text string) []Token {
	s := &scanner{text: []rune(text)}
	var tokens []Token
	for s.pos < len(s.text) {
		for s.pos < len(s.text) && isSpace(s.text[s.pos]) {
			s.pos++
		}
		if s.pos >= len(s.text) {
			break
		}
		tokens = append(tokens, s.next())
	}
	return tokens
}

func (s *scanner) next() Token {
	if isQuote(s.text[s.pos]) {
		return s.quoted(s.pos, s.text[s.pos])
	}
	return s.bare(s.pos)
}

// quoted scans a token that starts with a quote character. The closing quote
// ends the token even without trailing whitespace.
func (s *scanner) quoted(start int, q rune) Token {
	s.pos++
	var text strings.Builder
	for s.pos < len(s.text) {
		r := s.text[s.pos]
		switch {
		case r == '\\':
			if s.pos+1 < len(s.text) {
				next := s.text[s.pos+1]
				if next == q || next == '\\' {
					text.WriteRune(next)
					s.pos += 2
					continue
				}
			}
			text.WriteRune(r)
			s.pos++
		case r == q:
			s.pos++
			return Token{
				Text:  text.String(),
				Raw:   string(s.text[start:s.pos]),
				Start: start,
				End:   s.pos,
				Quote: quoteType(q),
			}
		default:
			text.WriteRune(r)
			s.pos++
		}
	}
	// Unterminated quote: forgiving close at buffer end.
	return Token{
		Text:  text.String(),
		Raw:   string(s.text[start:s.pos]),
		Start: start,
		End:   s.pos,
		Quote: quoteType(q),
	}
}

// bare scans an unquoted token. Embedded quoted sections (-DNAME="a b") stay
// part of the same token; the quote kind is recorded so callers can tell the
// token carries quoting.
func (s *scanner) bare(start int) Token {
	var text strings.Builder
	quote := QuoteNone
	for s.pos < len(s.text) {
		r := s.text[s.pos]
		if isSpace(r) {
			break
		}
		switch {
		case r == '\\':
			if s.pos+1 < len(s.text) {
				next := s.text[s.pos+1]
				if isSpace(next) || next == '\\' || isQuote(next) {
					text.WriteRune(next)
					s.pos += 2
					continue
				}
			}
			text.WriteRune(r)
			s.pos++
		case isQuote(r):
			q := r
			if quote == QuoteNone {
				quote = quoteType(q)
			}
			s.pos++
			for s.pos < len(s.text) {
				inner := s.text[s.pos]
				if inner == '\\' && s.pos+1 < len(s.text) {
					next := s.text[s.pos+1]
					if next == q || next == '\\' {
						text.WriteRune(next)
						s.pos += 2
						continue
					}
				}
				if inner == q {
					s.pos++
					break
				}
				text.WriteRune(inner)
				s.pos++
			}
		default:
			text.WriteRune(r)
			s.pos++
		}
	}
	return Token{
		Text:  text.String(),
		Raw:   string(s.text[start:s.pos]),
		Start: start,
		End:   s.pos,
		Quote: quote,
	}
}

func quoteType(q rune) Quote {
	if q == '\'' {
		return QuoteSingle
	}
	return QuoteDouble
}

// Detokenize joins tokens back into a command line using their raw spans,
// preserving the original quoting but normalizing inter-token whitespace.
func Detokenize(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Raw
	}
	return strings.Join(parts, " ")
}

// Rebuild joins tokens into a command line, re-quoting values from scratch
// with minimal quoting.
func Rebuild(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = QuoteValue(t.Text)
	}
	return strings.Join(parts, " ")
}

// QuoteValue wraps value in quotes if it contains characters the shell would
// interpret, preferring double quotes.
func QuoteValue(value string) string {
	if !NeedsQuoting(value) {
		return value
	}
	if !strings.Contains(value, `"`) {
		return `"` + value + `"`
	}
	if !strings.Contains(value, "'") {
		return "'" + value + "'"
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

func NeedsQuoting(value string) bool {
	if value == "" {
		return true
	}
	return strings.ContainsAny(value, " \t\n\r\"'\\$`!|&;()<>")
}
