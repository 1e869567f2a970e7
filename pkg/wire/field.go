package wire

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Entity is implemented by every record that maps to a provider XML element.
// Fields returns the wire mapping for the receiver; the returned table holds
// live accessors into the receiver, so it must be rebuilt per instance.
type Entity interface {
	ElementName() string
	Fields() []Field
}

// Collection is implemented by one-page list wrappers (Accounts, Plans).
// NewItem allocates storage for one decoded element and returns it; Len and
// At expose the held items for encoding.
type Collection interface {
	ElementName() string
	NewItem() Entity
	Len() int
	At(i int) Entity
}

// Field is one entry in an entity's wire mapping: the child element tag, the
// typed backing storage, and whether the element is required on decode or
// server-owned (never encoded on requests).
type Field struct {
	Tag      string
	Required bool
	ReadOnly bool
	Value    Value
}

// Value is the typed backing storage behind a mapped field.
type Value interface {
	// appendTo emits the field under parent when present. Response encoding
	// (the test provider, fixtures) sets full to include read-only fields
	// of nested entities.
	appendTo(parent *etree.Element, tag string, full bool) error
	// readFrom populates the field from parent and reports whether the
	// corresponding element was found.
	readFrom(parent *etree.Element, tag string) (bool, error)
}

// RawString maps a required plain string field.
func RawString(p *string) Value { return rawStringValue{p} }

// String maps an optional string field.
func String(p *Optional[string]) Value { return optStringValue{p} }

// Int maps an optional integer field.
func Int(p *Optional[int]) Value { return optIntValue{p} }

// Time maps an optional timestamp field.
func Time(p *Optional[time.Time]) Value { return optTimeValue{p} }

// Currency maps a CurrencyAmount field; the tag is the base element prefix.
func Currency(p *CurrencyAmount) Value { return currencyValue{p} }

// Nested maps an embedded sub-entity. get returns the current sub-entity or
// nil when absent; set allocates storage for decoding and returns it.
func Nested(get func() Entity, set func() Entity) Value {
	return nestedValue{get: get, set: set}
}

type rawStringValue struct{ p *string }

func (v rawStringValue) appendTo(parent *etree.Element, tag string, full bool) error {
	if *v.p == "" {
		return fmt.Errorf("required element %q is empty", tag)
	}
	parent.CreateElement(tag).SetText(*v.p)
	return nil
}

func (v rawStringValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return false, nil
	}
	*v.p = strings.TrimSpace(el.Text())
	return true, nil
}

type optStringValue struct{ p *Optional[string] }

func (v optStringValue) appendTo(parent *etree.Element, tag string, full bool) error {
	if s, ok := v.p.Get(); ok {
		parent.CreateElement(tag).SetText(s)
	}
	return nil
}

func (v optStringValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return false, nil
	}
	v.p.Set(strings.TrimSpace(el.Text()))
	return true, nil
}

type optIntValue struct{ p *Optional[int] }

func (v optIntValue) appendTo(parent *etree.Element, tag string, full bool) error {
	if n, ok := v.p.Get(); ok {
		parent.CreateElement(tag).SetText(strconv.Itoa(n))
	}
	return nil
}

func (v optIntValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(el.Text()))
	if err != nil {
		return false, &DecodeError{Element: tag, Reason: "value is not an integer", Err: err}
	}
	v.p.Set(n)
	return true, nil
}

type optTimeValue struct{ p *Optional[time.Time] }

func (v optTimeValue) appendTo(parent *etree.Element, tag string, full bool) error {
	if t, ok := v.p.Get(); ok {
		parent.CreateElement(tag).SetText(formatTime(t))
	}
	return nil
}

func (v optTimeValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return false, nil
	}
	t, err := parseTime(strings.TrimSpace(el.Text()))
	if err != nil {
		return false, &DecodeError{Element: tag, Reason: "invalid timestamp", Err: err}
	}
	v.p.Set(t)
	return true, nil
}

type currencyValue struct{ p *CurrencyAmount }

func (v currencyValue) appendTo(parent *etree.Element, tag string, full bool) error {
	if len(*v.p) == 0 {
		return nil
	}
	return encodeCurrency(parent, tag, *v.p)
}

func (v currencyValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	amounts, err := decodeCurrency(parent, tag)
	if err != nil {
		return false, err
	}
	if amounts == nil {
		return false, nil
	}
	*v.p = amounts
	return true, nil
}

type nestedValue struct {
	get func() Entity
	set func() Entity
}

func (v nestedValue) appendTo(parent *etree.Element, tag string, full bool) error {
	sub := v.get()
	if sub == nil {
		return nil
	}
	child := parent.CreateElement(tag)
	return encodeInto(child, sub, full)
}

func (v nestedValue) readFrom(parent *etree.Element, tag string) (bool, error) {
	el := parent.SelectElement(tag)
	if el == nil {
		return false, nil
	}
	if err := decodeFrom(el, v.set()); err != nil {
		return false, err
	}
	return true, nil
}
