package wire

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// CurrencyAmount maps a 3-letter ISO currency code to an integer amount in
// minor units (cents). A plan may price itself in several currencies at once.
// Iteration order carries no meaning on the wire.
type CurrencyAmount map[string]int

// validCurrency reports whether code is a 3-letter uppercase ASCII code.
func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// encodeCurrency appends one child element per currency entry under parent.
// The child tag is the base tag with the currency code appended. Currencies
// are emitted in sorted order so output is deterministic.
func encodeCurrency(parent *etree.Element, base string, amounts CurrencyAmount) error {
	codes := make([]string, 0, len(amounts))
	for code := range amounts {
		if !validCurrency(code) {
			return fmt.Errorf("invalid currency code %q for element %q", code, base)
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		child := parent.CreateElement(base + code)
		child.SetText(strconv.Itoa(amounts[code]))
	}
	return nil
}

// decodeCurrency scans the children of parent for elements whose tag starts
// with base, strips the prefix to recover the currency code, and parses the
// text as an integer amount. A prefixed element with a malformed currency
// suffix or non-integer text is a decode failure.
func decodeCurrency(parent *etree.Element, base string) (CurrencyAmount, error) {
	var amounts CurrencyAmount
	for _, child := range parent.ChildElements() {
		if !strings.HasPrefix(child.Tag, base) {
			continue
		}
		code := strings.TrimPrefix(child.Tag, base)
		if !validCurrency(code) {
			return nil, &DecodeError{Element: child.Tag, Reason: fmt.Sprintf("malformed currency suffix %q", code)}
		}
		cents, err := strconv.Atoi(strings.TrimSpace(child.Text()))
		if err != nil {
			return nil, &DecodeError{Element: child.Tag, Reason: "amount is not an integer", Err: err}
		}
		if amounts == nil {
			amounts = make(CurrencyAmount)
		}
		amounts[code] = cents
	}
	return amounts, nil
}
