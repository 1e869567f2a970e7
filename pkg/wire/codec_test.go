package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal entity exercising every field kind.
type testRecord struct {
	Code    string
	Note    Optional[string]
	Count   Optional[int]
	When    Optional[time.Time]
	Amounts CurrencyAmount
	Stamped Optional[time.Time]
}

func (r *testRecord) ElementName() string { return "record" }

func (r *testRecord) Fields() []Field {
	return []Field{
		{Tag: "code", Required: true, Value: RawString(&r.Code)},
		{Tag: "note", Value: String(&r.Note)},
		{Tag: "count", Value: Int(&r.Count)},
		{Tag: "when", Value: Time(&r.When)},
		{Tag: "amount_in_cents", Value: Currency(&r.Amounts)},
		{Tag: "stamped_at", ReadOnly: true, Value: Time(&r.Stamped)},
	}
}

type testRecords struct {
	Items []*testRecord
}

func (c *testRecords) ElementName() string { return "records" }
func (c *testRecords) NewItem() Entity {
	r := &testRecord{}
	c.Items = append(c.Items, r)
	return r
}
func (c *testRecords) Len() int        { return len(c.Items) }
func (c *testRecords) At(i int) Entity { return c.Items[i] }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := &testRecord{
		Code:    "r1",
		Note:    Some("a note"),
		Count:   Some(3),
		When:    Some(time.Date(2012, 4, 1, 10, 30, 0, 0, time.UTC)),
		Amounts: CurrencyAmount{"EUR": 1200, "USD": 1500},
	}

	data, err := EncodeBytes(in)
	require.NoError(t, err)

	out := &testRecord{}
	require.NoError(t, Decode(data, out))
	assert.Equal(t, in, out)
}

func TestEncodeOmitsAbsentOptionals(t *testing.T) {
	in := &testRecord{Code: "r1"}

	doc, err := Encode(in)
	require.NoError(t, err)

	root := doc.Root()
	assert.Nil(t, root.SelectElement("note"))
	assert.Nil(t, root.SelectElement("count"))
	assert.Nil(t, root.SelectElement("when"))
	assert.NotNil(t, root.SelectElement("code"))
}

func TestEncodeEmitsPresentEmptyString(t *testing.T) {
	in := &testRecord{Code: "r1", Note: Some("")}

	doc, err := Encode(in)
	require.NoError(t, err)

	note := doc.Root().SelectElement("note")
	require.NotNil(t, note)
	assert.Equal(t, "", note.Text())
}

func TestEncodeSkipsReadOnlyFields(t *testing.T) {
	in := &testRecord{Code: "r1", Stamped: Some(time.Now())}

	doc, err := Encode(in)
	require.NoError(t, err)
	assert.Nil(t, doc.Root().SelectElement("stamped_at"))
}

func TestEncodeResponseIncludesReadOnlyFields(t *testing.T) {
	in := &testRecord{Code: "r1", Stamped: Some(time.Date(2012, 4, 1, 10, 30, 0, 0, time.UTC))}

	doc, err := EncodeResponse(in)
	require.NoError(t, err)

	stamped := doc.Root().SelectElement("stamped_at")
	require.NotNil(t, stamped)
	assert.Equal(t, "2012-04-01T10:30:00Z", stamped.Text())
}

func TestEncodeRequiredFieldEmpty(t *testing.T) {
	_, err := EncodeBytes(&testRecord{})
	assert.Error(t, err)
}

func TestDecodeMissingOptionalYieldsAbsent(t *testing.T) {
	out := &testRecord{}
	require.NoError(t, Decode([]byte(`<record><code>r1</code></record>`), out))

	assert.False(t, out.Note.Present())
	assert.False(t, out.Count.Present())
	assert.False(t, out.When.Present())
	assert.Nil(t, out.Amounts)
}

func TestDecodeMissingRequiredElement(t *testing.T) {
	err := Decode([]byte(`<record><note>hi</note></record>`), &testRecord{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "code", decodeErr.Element)
}

func TestDecodeUnparsableInteger(t *testing.T) {
	err := Decode([]byte(`<record><code>r1</code><count>many</count></record>`), &testRecord{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestDecodeUnparsableTimestamp(t *testing.T) {
	err := Decode([]byte(`<record><code>r1</code><when>yesterday</when></record>`), &testRecord{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestDecodeWrongRootElement(t *testing.T) {
	err := Decode([]byte(`<other><code>r1</code></other>`), &testRecord{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestDecodeMalformedXML(t *testing.T) {
	err := Decode([]byte(`<record><code>`), &testRecord{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestListRoundTrip(t *testing.T) {
	in := &testRecords{Items: []*testRecord{
		{Code: "a", Note: Some("first")},
		{Code: "b", Count: Some(2)},
	}}

	data, err := EncodeListBytes(in)
	require.NoError(t, err)

	out := &testRecords{}
	require.NoError(t, DecodeList(data, out))
	require.Len(t, out.Items, 2)
	assert.Equal(t, "a", out.Items[0].Code)
	assert.Equal(t, "b", out.Items[1].Code)
	assert.Equal(t, Some(2), out.Items[1].Count)
}

func TestDecodeListUnexpectedChild(t *testing.T) {
	err := DecodeList([]byte(`<records><widget/></records>`), &testRecords{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestTimestampUTCNormalization(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	in := &testRecord{Code: "r1", When: Some(time.Date(2012, 4, 1, 12, 30, 0, 0, zone))}

	doc, err := Encode(in)
	require.NoError(t, err)
	assert.Equal(t, "2012-04-01T10:30:00Z", doc.Root().SelectElement("when").Text())
}

func TestTimestampParseToleratesOffset(t *testing.T) {
	out := &testRecord{}
	require.NoError(t, Decode([]byte(`<record><code>r1</code><when>2012-04-01T12:30:00+02:00</when></record>`), out))

	when, ok := out.When.Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2012, 4, 1, 10, 30, 0, 0, time.UTC), when)
}
