// Package sharefile reads and writes share sets.
//
// Text format, one share per line, `x<TAB>y` in hex:
//
//	# twon share set 5b0f3f0e-6a1c-4c59-9d1e-5d4d0f1d3c8a
//	0x1	0x31
//	0x2	0x38
//
// lines start with `#` are comments, blank lines are ignored.
//
// JSON format:
//
//	{"id": "5b0f3f0e-...", "shares": [{"x": "0x1", "y": "0x31"}]}
package sharefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"github.com/Laisky/twon/crypto/threshold/twon"
	gjson "github.com/Laisky/twon/json"
)

// ErrMalformedShare share file can not be parsed
var ErrMalformedShare = errors.New("malformed share")

// Format of share file
type Format string

func (f Format) String() string {
	return string(f)
}

const (
	// FormatText one share per line
	FormatText Format = "text"
	// FormatJSON json document
	FormatJSON Format = "json"
)

const textHeaderPrefix = "# twon share set "

// ParseFormat parse format name, empty means FormatText
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Errorf("unknown share file format %q", name)
	}
}

// ShareFile shares of one split
type ShareFile struct {
	// ID identify the split, uuid.Nil if the file carries none
	ID     uuid.UUID
	Shares []twon.Share
}

// New new share file with a random id
func New(shares []twon.Share) *ShareFile {
	return &ShareFile{
		ID:     uuid.New(),
		Shares: shares,
	}
}

// Encode write share file to w
func Encode(w io.Writer, f *ShareFile, format Format) error {
	switch format {
	case FormatText, "":
		return encodeText(w, f)
	case FormatJSON:
		return encodeJSON(w, f)
	default:
		return errors.Errorf("unknown share file format %q", format)
	}
}

// Decode read share file from r, the format is detected automatically
func Decode(r io.Reader) (*ShareFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read share file")
	}

	var f *ShareFile
	if isJSON(data) {
		f, err = decodeJSON(data)
	} else {
		f, err = decodeText(data)
	}
	if err != nil {
		return nil, err
	}

	if len(f.Shares) == 0 {
		return nil, errors.Wrap(ErrMalformedShare, "no share found")
	}

	return f, nil
}

// isJSON json document starts with `{`, or a comment before it
func isJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return bytes.HasPrefix(data, []byte("{")) ||
		bytes.HasPrefix(data, []byte("//")) ||
		bytes.HasPrefix(data, []byte("/*"))
}

func encodeText(w io.Writer, f *ShareFile) error {
	bw := bufio.NewWriter(w)
	if f.ID != uuid.Nil {
		if _, err := bw.WriteString(textHeaderPrefix + f.ID.String() + "\n"); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	for i, s := range f.Shares {
		if s.X == nil || s.Y == nil {
			return errors.Errorf("shares[%d] has nil coordinate", i)
		}

		if _, err := fmt.Fprintf(bw, "%s\t%s\n", twon.FormatHex(s.X), twon.FormatHex(s.Y)); err != nil {
			return errors.Wrapf(err, "write shares[%d]", i)
		}
	}

	return errors.Wrap(bw.Flush(), "flush")
}

func decodeText(data []byte) (*ShareFile, error) {
	f := new(ShareFile)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, textHeaderPrefix):
			id, err := uuid.Parse(strings.TrimSpace(strings.TrimPrefix(line, textHeaderPrefix)))
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedShare, "line %d: invalid share set id: %v", i+1, err)
			}

			f.ID = id
			continue
		case strings.HasPrefix(line, "#"):
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Wrapf(ErrMalformedShare, "line %d: expect 2 fields, got %d", i+1, len(fields))
		}

		share, err := parseShare(fields[0], fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}

		f.Shares = append(f.Shares, share)
	}

	return f, nil
}

type jsonShare struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type jsonShareFile struct {
	ID     string      `json:"id,omitempty"`
	Shares []jsonShare `json:"shares"`
}

func encodeJSON(w io.Writer, f *ShareFile) error {
	doc := jsonShareFile{Shares: make([]jsonShare, len(f.Shares))}
	if f.ID != uuid.Nil {
		doc.ID = f.ID.String()
	}

	for i, s := range f.Shares {
		if s.X == nil || s.Y == nil {
			return errors.Errorf("shares[%d] has nil coordinate", i)
		}

		doc.Shares[i] = jsonShare{X: twon.FormatHex(s.X), Y: twon.FormatHex(s.Y)}
	}

	data, err := gjson.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal share file")
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write share file")
	}

	return nil
}

func decodeJSON(data []byte) (*ShareFile, error) {
	doc := new(jsonShareFile)
	if err := gjson.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrapf(ErrMalformedShare, "parse json: %v", err)
	}

	f := &ShareFile{Shares: make([]twon.Share, len(doc.Shares))}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedShare, "invalid share set id: %v", err)
		}

		f.ID = id
	}

	for i, s := range doc.Shares {
		share, err := parseShare(s.X, s.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "shares[%d]", i)
		}

		f.Shares[i] = share
	}

	return f, nil
}

func parseShare(x, y string) (share twon.Share, err error) {
	if share.X, err = ParseHex(x); err != nil {
		return share, errors.Wrap(err, "parse x")
	}
	if share.Y, err = ParseHex(y); err != nil {
		return share, errors.Wrap(err, "parse y")
	}

	return share, nil
}

// ParseHex parse `0x..` or `-0x..`, the prefix is required
func ParseHex(s string) (*big.Int, error) {
	digits := s
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	if !strings.HasPrefix(digits, "0x") && !strings.HasPrefix(digits, "0X") {
		return nil, errors.Wrapf(ErrMalformedShare, "%q should start with 0x", s)
	}

	digits = digits[2:]
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return nil, errors.Wrapf(ErrMalformedShare, "%q has misplaced sign", s)
	}

	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedShare, "%q is not a hex number", s)
	}

	if neg {
		v.Neg(v)
	}

	return v, nil
}
