package smartfarm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	recs, err := ParseRecords([]byte(`[
		{"userId":"F001","facilityId":"FAC1","addressName":"전남 나주시","itemCode":"080400","area":12.5},
		{"userId":"F002","extra":{"a":[1,2]},"note":null}
	]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"userId", "facilityId", "addressName", "itemCode", "area"}, recs[0].Keys())
	assert.Equal(t, "F001", recs[0].UserID())
	assert.Equal(t, "FAC1", recs[0].FacilityID())
	assert.Equal(t, "전남 나주시", recs[0].AddressName())
	assert.Equal(t, "080400", recs[0].ItemCode())
	assert.Equal(t, "12.5", recs[0].String("area"))

	assert.True(t, recs[1].Has("note"))
	assert.Equal(t, "", recs[1].String("note"))
	assert.False(t, recs[1].Has("itemCode"))
	assert.Equal(t, `{"a":[1,2]}`, recs[1].String("extra"))
}

func TestParseRecords_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"invalid json", `[{"userId":`},
		{"html error page", `<html><body>Service unavailable</body></html>`},
		{"object instead of array", `{"userId":"F001"}`},
		{"array of strings", `["F001","F002"]`},
		{"empty body", ``},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRecords([]byte(tc.body))
			assert.Error(t, err)
		})
	}
}

func TestParseRecords_Empty(t *testing.T) {
	recs, err := ParseRecords([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseRecords_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	recs, err := ParseRecords([]byte(`[{"a":"1","b":"2","a":"3"}]`))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"a", "b"}, recs[0].Keys())
	assert.Equal(t, "3", recs[0].String("a"))
}

func TestRecord_MarshalJSON(t *testing.T) {
	recs, err := ParseRecords([]byte(`[{"z":"토마토","a":1.50,"n":null,"b":true,"o":{"x":[1, 2]},"h":"<a&b>"}]`))
	require.NoError(t, err)

	got, err := json.Marshal(recs[0])
	require.NoError(t, err)
	assert.Equal(t, `{"z":"토마토","a":1.50,"n":null,"b":true,"o":{"x":[1,2]},"h":"\u003ca\u0026b\u003e"}`, string(got),
		"json.Marshal escapes HTML; export writers turn that off")

	raw, err := recs[0].MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":"토마토","a":1.50,"n":null,"b":true,"o":{"x":[1, 2]},"h":"<a&b>"}`, string(raw))
}

func TestRecord_Set(t *testing.T) {
	r := NewRecord("statusCode", "00", "userId", "OLD", "croppingSerlNo", "1")
	r.Set("userId", "F001")
	r.Set("memo", "새 작기")
	assert.Equal(t, []string{"statusCode", "userId", "croppingSerlNo", "memo"}, r.Keys())
	assert.Equal(t, "F001", r.UserID())
	assert.Equal(t, 4, r.Len())

	raw, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"statusCode":"00","userId":"F001","croppingSerlNo":"1","memo":"새 작기"}`, string(raw))
}

func TestRecord_Valid(t *testing.T) {
	recs, err := ParseRecords([]byte(`[
		{"statusCode":"00"},
		{"statusCode":"99"},
		{"statusCode":0},
		{"statusCode":null},
		{}
	]`))
	require.NoError(t, err)
	want := []bool{true, false, false, false, false}
	for i, r := range recs {
		assert.Equal(t, want[i], r.Valid(), "record %d", i)
	}
}

func TestFilterValid(t *testing.T) {
	f001, err := ParseRecords([]byte(`[{"statusCode":"00","croppingSerlNo":"1"}]`))
	require.NoError(t, err)
	f002, err := ParseRecords([]byte(`[{"statusCode":"99","croppingSerlNo":"2"}]`))
	require.NoError(t, err)

	var all []Record
	all = append(all, FilterValid(f001, "F001")...)
	all = append(all, FilterValid(f002, "F002")...)
	require.Len(t, all, 1)

	raw, err := all[0].MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"statusCode":"00","croppingSerlNo":"1","userId":"F001"}`, string(raw))
}

func TestFilterValid_OverwritesUserID(t *testing.T) {
	recs, err := ParseRecords([]byte(`[
		{"userId":"someone-else","statusCode":"00","croppingSerlNo":"1"},
		{"userId":null,"statusCode":"00","croppingSerlNo":"2"},
		{"statusCode":"01","userId":"F009"}
	]`))
	require.NoError(t, err)

	got := FilterValid(recs, "F009")
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "F009", r.UserID())
		assert.Equal(t, StatusOK, r.StatusCode())
		assert.Equal(t, UserIDField, r.Keys()[0], "userId keeps its position")
	}
	assert.Equal(t, "someone-else", recs[0].UserID(), "input records are not modified")
}

func TestColumns(t *testing.T) {
	recs := []Record{
		NewRecord("statusCode", "00", "userId", "F001"),
		NewRecord("croppingDate", "2024-03-01", "statusCode", "00", "extra", "x"),
	}
	assert.Equal(t, []string{"statusCode", "userId", "croppingDate", "extra"}, Columns(recs))
	assert.Empty(t, Columns(nil))
}

func TestRecord_Map(t *testing.T) {
	recs, err := ParseRecords([]byte(`[{"userId":"F001","area":3,"active":true}]`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"userId": "F001", "area": float64(3), "active": true}, recs[0].Map())
}
