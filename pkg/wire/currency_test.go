package wire

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRoundTrip(t *testing.T) {
	amounts := CurrencyAmount{"EUR": 1200, "USD": 1500, "GBP": 999}

	parent := etree.NewElement("plan")
	require.NoError(t, encodeCurrency(parent, "unit_amount_in_cents", amounts))

	decoded, err := decodeCurrency(parent, "unit_amount_in_cents")
	require.NoError(t, err)
	assert.Equal(t, amounts, decoded)
}

func TestCurrencyEncodeDeterministicOrder(t *testing.T) {
	parent := etree.NewElement("plan")
	require.NoError(t, encodeCurrency(parent, "unit_amount_in_cents", CurrencyAmount{"USD": 1, "EUR": 2, "AUD": 3}))

	var tags []string
	for _, child := range parent.ChildElements() {
		tags = append(tags, child.Tag)
	}
	assert.Equal(t, []string{"unit_amount_in_centsAUD", "unit_amount_in_centsEUR", "unit_amount_in_centsUSD"}, tags)
}

func TestCurrencyEncodeRejectsBadCode(t *testing.T) {
	parent := etree.NewElement("plan")
	err := encodeCurrency(parent, "unit_amount_in_cents", CurrencyAmount{"eur": 1200})
	assert.Error(t, err)
}

func TestCurrencyDecodeMalformedSuffix(t *testing.T) {
	parent := etree.NewElement("plan")
	parent.CreateElement("unit_amount_in_centsEU").SetText("1200")

	_, err := decodeCurrency(parent, "unit_amount_in_cents")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestCurrencyDecodeBareBaseTag(t *testing.T) {
	// An element carrying the base tag with no currency suffix is malformed.
	parent := etree.NewElement("plan")
	parent.CreateElement("unit_amount_in_cents").SetText("1200")

	_, err := decodeCurrency(parent, "unit_amount_in_cents")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestCurrencyDecodeNonIntegerAmount(t *testing.T) {
	parent := etree.NewElement("plan")
	parent.CreateElement("unit_amount_in_centsEUR").SetText("twelve")

	_, err := decodeCurrency(parent, "unit_amount_in_cents")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestCurrencyDecodeIgnoresUnrelatedElements(t *testing.T) {
	parent := etree.NewElement("plan")
	parent.CreateElement("plan_code").SetText("gold")
	parent.CreateElement("unit_amount_in_centsEUR").SetText("1200")

	decoded, err := decodeCurrency(parent, "unit_amount_in_cents")
	require.NoError(t, err)
	assert.Equal(t, CurrencyAmount{"EUR": 1200}, decoded)
}

func TestCurrencyDecodeAbsent(t *testing.T) {
	parent := etree.NewElement("plan")
	decoded, err := decodeCurrency(parent, "unit_amount_in_cents")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, validCurrency("EUR"))
	assert.True(t, validCurrency("USD"))
	assert.False(t, validCurrency("eur"))
	assert.False(t, validCurrency("EU"))
	assert.False(t, validCurrency("EURO"))
	assert.False(t, validCurrency(""))
	assert.False(t, validCurrency("E1R"))
}
