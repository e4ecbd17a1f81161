package ifc

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// STEP value kinds produced by Entity.args.
type (
	enum      string // .VALUE.
	reference int    // #n
)

const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dateTimeValue(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func optDateTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return dateTimeValue(t)
}

func optDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

// formatDuration renders a positive duration as an ISO 8601 duration (PT8H, PT1H30M, PT0.5S).
func formatDuration(d time.Duration) string {
	var b strings.Builder
	b.WriteString("PT")
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	if h > 0 {
		b.WriteString(strconv.FormatInt(int64(h), 10) + "H")
	}
	if m > 0 {
		b.WriteString(strconv.FormatInt(int64(m), 10) + "M")
	}
	if d > 0 || (h == 0 && m == 0) {
		b.WriteString(strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "S")
	}
	return b.String()
}

var utf16Encoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// encodeString quotes s as a STEP string. Characters outside printable ASCII are
// written as \X2\<UTF-16BE hex>\X0\ runs.
func encodeString(s string) (string, error) {
	var b strings.Builder
	b.WriteByte('\'')
	var run []rune
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		encoded, err := utf16Encoder.NewEncoder().String(string(run))
		if err != nil {
			return fmt.Errorf("encode %q: %w", string(run), err)
		}
		b.WriteString(`\X2\`)
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte(encoded))))
		b.WriteString(`\X0\`)
		run = run[:0]
		return nil
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			run = append(run, r)
			continue
		}
		if err := flush(); err != nil {
			return "", err
		}
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	b.WriteByte('\'')
	return b.String(), nil
}

// encodeValue renders one attribute value.
func encodeValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "$", nil
	case string:
		return encodeString(x)
	case enum:
		if x == "" {
			return "$", nil
		}
		return "." + string(x) + ".", nil
	case reference:
		return "#" + strconv.Itoa(int(x)), nil
	case bool:
		if x {
			return ".T.", nil
		}
		return ".F.", nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += "."
		}
		return s, nil
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			p, err := encodeValue(item)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return "(" + strings.Join(parts, ",") + ")", nil
	default:
		return "", fmt.Errorf("unsupported STEP value %T", v)
	}
}

// encodeEntity renders a DATA section line without the trailing newline.
func encodeEntity(e Entity) (string, error) {
	args := e.args()
	parts := make([]string, len(args))
	for i, a := range args {
		p, err := encodeValue(a)
		if err != nil {
			return "", fmt.Errorf("#%d=%s attribute %d: %w", e.ID(), e.Type(), i, err)
		}
		parts[i] = p
	}
	return fmt.Sprintf("#%d=%s(%s);", e.ID(), e.Type(), strings.Join(parts, ",")), nil
}

// countingWriter tracks bytes written for io.WriterTo.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) line(s string) {
	if c.err != nil {
		return
	}
	n, err := io.WriteString(c.w, s+"\n")
	c.n += int64(n)
	c.err = err
}

// WriteTo writes the document as an ISO 10303-21 exchange file.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	header, err := d.headerLines()
	if err != nil {
		return 0, err
	}
	for _, l := range header {
		cw.line(l)
	}
	cw.line("DATA;")
	for _, e := range d.entities {
		l, err := encodeEntity(e)
		if err != nil {
			return cw.n, err
		}
		cw.line(l)
	}
	cw.line("ENDSEC;")
	cw.line("END-ISO-10303-21;")
	if cw.err != nil {
		return cw.n, cw.err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func (d *Document) headerLines() ([]string, error) {
	h := d.header
	values := []any{
		h.Name,
		h.Timestamp.Format(dateTimeLayout),
		[]any{h.Author},
		[]any{h.Organization},
		h.Application,
		h.Application,
		"",
	}
	encoded, err := encodeValue(values)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	return []string{
		"ISO-10303-21;",
		"HEADER;",
		"FILE_DESCRIPTION(('ViewDefinition [ReferenceView]'),'2;1');",
		"FILE_NAME" + encoded + ";",
		"FILE_SCHEMA(('" + SchemaName + "'));",
		"ENDSEC;",
	}, nil
}
