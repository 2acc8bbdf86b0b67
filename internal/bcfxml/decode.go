// Package bcfxml decodes the XML documents stored in a BCF archive:
// bcf.version, markup.bcf and the .bcfv visualization files.
//
// Absent optional elements and attributes decode to defaults. Only documents
// that are not well-formed XML fail.
package bcfxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/bcfview/bcfview/internal/bcf"
)

// ErrNoTopic is returned for a markup document without a Topic element.
var ErrNoTopic = errors.New("bcfxml: markup has no topic")

// Document kinds reported by DecodeError.
const (
	KindVersion       = "version"
	KindMarkup        = "markup"
	KindVisualization = "visualization info"
)

// DecodeError reports a document that could not be parsed.
type DecodeError struct {
	Kind string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bcfxml: decode %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses one XML document into T. Encodings other than UTF-8 declared
// in the prolog are converted.
func Decode[T any](r io.Reader, kind string) (T, error) {
	var doc T
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&doc); err != nil {
		var zero T
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return zero, &DecodeError{Kind: kind, Err: err}
	}
	return doc, nil
}

// Decoder converts BCF documents into model values.
type Decoder struct {
	log zerolog.Logger
}

// NewDecoder returns a decoder that reports recoverable oddities to log.
func NewDecoder(log zerolog.Logger) *Decoder {
	return &Decoder{log: log}
}

// Version decodes a bcf.version document.
func (d *Decoder) Version(r io.Reader) (bcf.VersionInfo, error) {
	doc, err := Decode[versionDoc](r, KindVersion)
	if err != nil {
		return bcf.VersionInfo{}, err
	}
	v := bcf.VersionInfo{
		VersionID:       strings.TrimSpace(doc.VersionID),
		DetailedVersion: strings.TrimSpace(doc.DetailedVersion),
	}
	if v.VersionID == "" {
		d.log.Debug().Msg("bcf.version without VersionId")
		v.VersionID = bcf.DefaultVersionID
	}
	return v, nil
}

// MarkupDocument is a decoded markup.bcf. Viewpoints are references to
// sibling files that still need resolving.
type MarkupDocument struct {
	Header     []bcf.HeaderFile
	Topic      bcf.Topic
	Comments   []bcf.Comment
	Viewpoints []ViewpointRef
}

// ViewpointRef is a Viewpoints element of a markup.
type ViewpointRef struct {
	GUID     string
	File     string
	Snapshot string
	Index    int
}

// Markup decodes a markup.bcf document. It returns ErrNoTopic when the
// document has no Topic element.
func (d *Decoder) Markup(r io.Reader) (*MarkupDocument, error) {
	doc, err := Decode[markupDoc](r, KindMarkup)
	if err != nil {
		return nil, err
	}
	if doc.Topic == nil {
		return nil, ErrNoTopic
	}

	out := &MarkupDocument{
		Topic: doc.Topic.toModel(),
	}
	if doc.Header != nil {
		for _, f := range doc.Header.Files {
			out.Header = append(out.Header, f.toModel())
		}
	}
	for _, c := range doc.Comments {
		out.Comments = append(out.Comments, c.toModel())
	}
	for _, v := range doc.Viewpoints {
		out.Viewpoints = append(out.Viewpoints, v.toRef())
	}
	return out, nil
}

// VisualizationInfo decodes a .bcfv document.
func (d *Decoder) VisualizationInfo(r io.Reader) (*bcf.VisualizationInfo, error) {
	doc, err := Decode[visInfoDoc](r, KindVisualization)
	if err != nil {
		return nil, err
	}
	if doc.Perspective != nil && doc.Orthogonal != nil {
		d.log.Warn().
			Str("guid", doc.GUID).
			Msg("visualization declares both perspective and orthogonal cameras, using perspective")
	}
	return doc.toModel(), nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats found in BCF files. Unparsable or empty
// values yield the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseBool reads an xs:boolean, returning def when the value is absent or
// invalid.
func parseBool(s string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return def
	}
}
