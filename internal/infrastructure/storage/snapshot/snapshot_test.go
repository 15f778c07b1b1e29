package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelkit/internal/domain/labels"
)

func TestDecode_BrowserPayload(t *testing.T) {
	payload := `[
		{"imei":"356938035643809","code":"12","serial":"1312345","at":1767225600000},
		{"imei":"490154203237518","code":"123","serial":"1312399","at":1767225660000}
	]`

	records, err := Decode([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, labels.Record{
		Identifier: "356938035643809",
		PrefixCode: "12",
		Serial:     "1312345",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, records[0])
	assert.Equal(t, "123", records[1].PrefixCode)
}

func TestDecode_Empty(t *testing.T) {
	for _, in := range []string{"", "  \n", "null", "[]"} {
		records, err := Decode([]byte(in))
		require.NoError(t, err, "%q", in)
		assert.Empty(t, records, "%q", in)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{"{", `{"imei":"1"}`, `[{"at":"yesterday"}]`} {
		_, err := Decode([]byte(in))
		assert.Error(t, err, "%q", in)
	}
}

func TestEncode_Shape(t *testing.T) {
	data, err := Encode([]labels.Record{
		{Identifier: "356938035643809", PrefixCode: "12", Serial: "1312345", CreatedAt: time.UnixMilli(1767225600000)},
		{Identifier: "490154203237518", PrefixCode: "45", Serial: "1345001"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"imei":"356938035643809","code":"12","serial":"1312345","at":1767225600000},
		{"imei":"490154203237518","code":"45","serial":"1345001","at":0}
	]`, string(data))
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
