package wire

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// timeLayout is the provider's timestamp form: ISO-8601 with a zone suffix.
// Output is always UTC-normalized ("Z"); input tolerates numeric offsets.
const timeLayout = "2006-01-02T15:04:05Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Encode renders e as a standalone XML document. Read-only fields are
// skipped; absent optional fields are omitted entirely, never emitted as
// empty elements.
func Encode(e Entity) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(e.ElementName())
	if err := encodeInto(root, e, false); err != nil {
		return nil, err
	}
	return doc, nil
}

// EncodeResponse renders e the way the provider does on responses: read-only
// fields (server timestamps, derived card types) are included. Used by test
// doubles and fixtures; requests always go through Encode.
func EncodeResponse(e Entity) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(e.ElementName())
	if err := encodeInto(root, e, true); err != nil {
		return nil, err
	}
	return doc, nil
}

// EncodeResponseBytes is EncodeResponse followed by serialization.
func EncodeResponseBytes(e Entity) ([]byte, error) {
	doc, err := EncodeResponse(e)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// EncodeBytes is Encode followed by serialization to UTF-8 bytes.
func EncodeBytes(e Entity) ([]byte, error) {
	doc, err := Encode(e)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// EncodeList renders a one-page collection as a standalone XML document.
func EncodeList(c Collection) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(c.ElementName())
	for i := 0; i < c.Len(); i++ {
		item := c.At(i)
		child := root.CreateElement(item.ElementName())
		if err := encodeInto(child, item, true); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// EncodeListBytes is EncodeList followed by serialization to UTF-8 bytes.
func EncodeListBytes(c Collection) ([]byte, error) {
	doc, err := EncodeList(c)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// Decode parses data and populates e from it. The document root must match
// the entity's element name. A missing required element or an unparsable
// scalar yields a *DecodeError; callers must discard e on error rather than
// treat it as partially decoded.
func Decode(data []byte, e Entity) error {
	root, err := parseRoot(data, e.ElementName())
	if err != nil {
		return err
	}
	return decodeFrom(root, e)
}

// DecodeList parses data and appends one decoded entity per direct child
// matching the collection's singular element name.
func DecodeList(data []byte, c Collection) error {
	root, err := parseRoot(data, c.ElementName())
	if err != nil {
		return err
	}
	for _, child := range root.ChildElements() {
		item := c.NewItem()
		if child.Tag != item.ElementName() {
			return &DecodeError{Element: child.Tag, Reason: fmt.Sprintf("unexpected element in %q", c.ElementName())}
		}
		if err := decodeFrom(child, item); err != nil {
			return err
		}
	}
	return nil
}

func parseRoot(data []byte, want string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &DecodeError{Element: want, Reason: "malformed XML", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &DecodeError{Element: want, Reason: "document has no root element"}
	}
	if root.Tag != want {
		return nil, &DecodeError{Element: root.Tag, Reason: fmt.Sprintf("expected root element %q", want)}
	}
	return root, nil
}

func encodeInto(parent *etree.Element, e Entity, full bool) error {
	for _, f := range e.Fields() {
		if f.ReadOnly && !full {
			continue
		}
		if err := f.Value.appendTo(parent, f.Tag, full); err != nil {
			return fmt.Errorf("encode %s: %w", e.ElementName(), err)
		}
	}
	return nil
}

func decodeFrom(el *etree.Element, e Entity) error {
	for _, f := range e.Fields() {
		found, err := f.Value.readFrom(el, f.Tag)
		if err != nil {
			return err
		}
		if !found && f.Required {
			return &DecodeError{Element: f.Tag, Reason: "required element missing"}
		}
	}
	return nil
}
