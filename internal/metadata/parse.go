package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	tagExportSummary = "ExportSummary"
	tagObjects       = "Objects"
	tagMedia         = "Media"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	chunks   []chunk
}

// chunk is either character data or a child element, kept in document order
// so text content can be reassembled the way a DOM would.
type chunk struct {
	text  string
	child *element
}

// Parse extracts the records described by an XML metadata document.
//
// Two shapes are accepted: an ExportSummary root wrapping an Objects element
// of zero or more Media records, and a bare Media root describing a single
// record. Document type declarations and entity references other than the
// predefined XML entities fail the whole document.
func Parse(data []byte) ([]Record, error) {
	root, err := decode(data)
	if err != nil {
		return nil, err
	}

	switch root.name {
	case tagExportSummary:
		return parseExportSummary(root)
	case tagMedia:
		return []Record{buildRecord(root)}, nil
	}

	return nil, fmt.Errorf(
		"%w: root element must be %s or %s, found %s",
		ErrMalformed, tagExportSummary, tagMedia, root.name,
	)
}

func parseExportSummary(root *element) ([]Record, error) {
	objects := root.find(tagObjects)
	if objects == nil {
		return nil, fmt.Errorf("%w: missing %s element in %s", ErrMalformed, tagObjects, tagExportSummary)
	}

	media := objects.findAll(tagMedia)
	records := make([]Record, 0, len(media))
	for _, m := range media {
		records = append(records, buildRecord(m))
	}
	return records, nil
}

func buildRecord(e *element) Record {
	r := Record{
		FileName:  e.attr(AttrFileName),
		MediaType: e.attr(AttrType),
		Result:    e.attr(AttrResult),
	}
	for _, child := range e.children {
		r.Fields.add(child.name, child.text())
	}
	return r
}

func decode(data []byte) (*element, error) {
	d := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	d.Strict = true
	d.CharsetReader = charset.NewReaderLabel

	var (
		root  *element
		stack []*element
	)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			return nil, fmt.Errorf("%w: document type declarations are not allowed", ErrMalformed)
		case xml.StartElement:
			e := &element{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformed)
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
				parent.chunks = append(parent.chunks, chunk{child: e})
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.chunks = append(top.chunks, chunk{text: string(t)})
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	return root, nil
}

func (e *element) attr(name string) string {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// text returns the concatenated character data of e and its descendants.
func (e *element) text() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *element) writeText(b *strings.Builder) {
	for _, c := range e.chunks {
		if c.child != nil {
			c.child.writeText(b)
			continue
		}
		b.WriteString(c.text)
	}
}

// find returns the first descendant named name in document order.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant named name in document order.
func (e *element) findAll(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, c.findAll(name)...)
	}
	return out
}
