package savedoc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		wantErr bool
		errMsg  string
	}{
		{name: "object", raw: `{"Save":{"Version":3}}`},
		{name: "empty object", raw: `{}`},
		{name: "invalid json", raw: `{"Save":`, wantErr: true, errMsg: "not valid JSON"},
		{name: "array root", raw: `[1,2]`, wantErr: true, errMsg: "must be a JSON object"},
		{name: "trailing data", raw: `{} {}`, wantErr: true, errMsg: "trailing data"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := savedoc.Parse([]byte(tc.raw))
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc.Root())
		})
	}
}

func TestParseKeepsLargeIntegers(t *testing.T) {
	raw := `{"Save":{"Seed":9007199254740993,"Ratio":0.25}}`

	doc, err := savedoc.Parse([]byte(raw))
	require.NoError(t, err)

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Contains(t, string(out), "9007199254740993")
}

func TestClone(t *testing.T) {
	doc, err := savedoc.Parse([]byte(`{"a":{"list":[{"id":1}],"flag":true}}`))
	require.NoError(t, err)

	clone := doc.Clone()
	inner := clone.Root()["a"].(map[string]any)
	inner["flag"] = false
	inner["list"].([]any)[0].(map[string]any)["id"] = json.Number("2")
	inner["list"] = append(inner["list"].([]any), "extra")

	out, err := doc.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"list":[{"id":1}],"flag":true}}`, string(out))
}

func TestFromMapNil(t *testing.T) {
	doc := savedoc.FromMap(nil)
	require.NotNil(t, doc.Root())

	out, err := doc.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestInt(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{name: "json number", value: json.Number("42"), want: 42, ok: true},
		{name: "json float integral", value: json.Number("4e1"), want: 40, ok: true},
		{name: "json fraction", value: json.Number("1.5"), ok: false},
		{name: "float64", value: float64(7), want: 7, ok: true},
		{name: "float64 fraction", value: 7.5, ok: false},
		{name: "int", value: 3, want: 3, ok: true},
		{name: "int64", value: int64(-1), want: -1, ok: true},
		{name: "string", value: "1", ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := savedoc.Int(tc.value)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestSameContent(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: `{"a":1}`, b: `{"a":1}`, want: true},
		{name: "indentation", a: "{\n  \"a\": 1,\n  \"b\": [true]\n}", b: `{"a":1,"b":[true]}`, want: true},
		{name: "key order", a: `{"b":2,"a":1}`, b: `{"a":1,"b":2}`, want: true},
		{name: "large integers", a: `{"id":9007199254740993}`, b: `{"id":9007199254740992}`, want: false},
		{name: "different value", a: `{"a":1}`, b: `{"a":2}`, want: false},
		{name: "unparseable", a: `{"a":`, b: `{"a":1}`, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, savedoc.SameContent([]byte(tc.a), []byte(tc.b)))
		})
	}
}
