package bibtex

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// Match entry header: type{key,
	headerRegex = regexp.MustCompile(`^(\w+)\{([^,]+),`)
	// Match field: name = {value} or name = "value", optionally comma-terminated
	fieldRegex = regexp.MustCompile(`^(\w+)\s*=\s*[{"](.+)[}"],?$`)
)

// Parser converts bibliography text into records.
type Parser struct {
	logger *zap.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger that receives parse trace events.
func WithLogger(logger *zap.Logger) ParserOption {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a parser. Without options it logs nothing.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseEntries parses text with a silent parser.
func ParseEntries(text string) []*Record {
	return NewParser().Parse(text)
}

// Parse splits text on '@' and converts every chunk after the first into a
// record, in source order. Content before the first '@' is a preamble and is
// ignored. Malformed headers and field lines never fail the pass; they just
// leave the record incomplete.
func (p *Parser) Parse(text string) []*Record {
	chunks := strings.Split(text, "@")
	records := make([]*Record, 0, len(chunks)-1)

	for i, chunk := range chunks[1:] {
		rec := p.parseEntry(i, chunk)
		records = append(records, rec)
	}

	p.logger.Info("bibliography parsed",
		zap.Int("entries", len(records)),
		zap.Int("bytes", len(text)),
	)
	return records
}

func (p *Parser) parseEntry(index int, chunk string) *Record {
	rec := NewRecord()
	lines := strings.Split(chunk, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	if m := headerRegex.FindStringSubmatchIndex(lines[0]); m != nil {
		rec.Set(FieldID, strings.TrimSpace(lines[0][m[4]:m[5]]))
		rec.Set(FieldEntryType, lines[0][m[2]:m[3]])
		p.parseFieldLine(rec, lines[0][m[1]:])
	} else {
		p.logger.Debug("entry header not recognized",
			zap.Int("index", index),
			zap.String("line", lines[0]),
		)
	}

	for _, line := range lines[1:] {
		p.parseFieldLine(rec, line)
	}

	if title, ok := rec.Lookup("title"); ok {
		rec.Set("title", TitleCase(title))
	}

	p.logger.Debug("entry parsed",
		zap.Int("index", index),
		zap.String("id", rec.ID()),
		zap.Int("fields", rec.Len()),
	)
	return rec
}

// parseFieldLine adds every name/value segment on a line to rec.
func (p *Parser) parseFieldLine(rec *Record, line string) {
	for _, seg := range splitSegments(line) {
		m := fieldRegex.FindStringSubmatch(seg)
		if m == nil {
			continue
		}
		rec.Set(strings.ToLower(m[1]), m[2])
	}
}

// splitSegments splits a line at commas that sit outside braces and quotes.
// A closing brace with no matching opener ends the current segment, unless
// it sits inside a quoted value.
func splitSegments(line string) []string {
	var segs []string
	var cur strings.Builder
	depth := 0
	inQuote := false

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segs = append(segs, s)
		}
		cur.Reset()
	}

	for _, r := range line {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case r == '{':
			depth++
		case r == '}':
			if depth == 0 {
				flush()
				continue
			}
			depth--
		case r == '"' && depth == 0:
			inQuote = true
		case r == ',' && depth == 0:
			cur.WriteRune(r)
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return segs
}
