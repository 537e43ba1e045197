package smartfarm

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Field names used by the Smart Farm Korea service.
const (
	UserIDField             = "userId"
	FacilityIDField         = "facilityId"
	AddressNameField        = "addressName"
	ItemCodeField           = "itemCode"
	StatusCodeField         = "statusCode"
	StatusMessageField      = "statusMessage"
	CroppingSerlNoField     = "croppingSerlNo"
	CroppingSeasonNameField = "croppingSeasonName"
	CroppingDateField       = "croppingDate"
	CroppingEndDateField    = "croppingEndDate"
)

// StatusOK marks a valid cropping season record.
const StatusOK = "00"

// CroppingColumns is the preferred column order for cropping season exports.
var CroppingColumns = []string{
	UserIDField,
	StatusCodeField,
	StatusMessageField,
	CroppingSerlNoField,
	ItemCodeField,
	CroppingSeasonNameField,
	CroppingDateField,
	CroppingEndDateField,
}

// ErrNotArray is returned by ParseRecords when the body is valid JSON
// but not an array of objects.
var ErrNotArray = errors.New("expected a JSON array of objects")

type field struct {
	key   string
	value gjson.Result
}

// Record is a JSON object returned by the Smart Farm Korea service.
// Fields keep the order in which the service sent them, so a record
// marshals back to the same key order it was parsed with.
type Record struct {
	fields []field
}

// ParseRecords parses a JSON array of objects.
func ParseRecords(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, ErrNotArray
	}
	records := []Record{}
	var err error
	i := 0
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = errors.Wrapf(ErrNotArray, "element %d is %s", i, v.Type)
			return false
		}
		var r Record
		v.ForEach(func(k, v gjson.Result) bool {
			r.set(k.String(), v)
			return true
		})
		records = append(records, r)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// NewRecord returns a record holding the given string fields,
// in argument order. It panics if kv has an odd length.
func NewRecord(kv ...string) Record {
	if len(kv)%2 != 0 {
		panic("smartfarm.NewRecord: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Get returns the raw value of key and whether it is present.
func (r Record) Get(key string) (gjson.Result, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return gjson.Result{}, false
}

// Has reports whether key is present, even with a null value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// String returns the value of key as text.
// Missing keys and null values return "".
func (r Record) String(key string) string {
	v, _ := r.Get(key)
	return v.String()
}

// Set stores a string value for key. An existing key keeps its position;
// a new key is appended.
func (r *Record) Set(key, value string) {
	raw, _ := json.Marshal(value)
	r.set(key, gjson.Result{Type: gjson.String, Str: value, Raw: string(raw)})
}

func (r *Record) set(key string, value gjson.Result) {
	for i := range r.fields {
		if r.fields[i].key == key {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, field{key: key, value: value})
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Map returns the record as a plain Go map, for display.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.key] = f.value.Value()
	}
	return m
}

// MarshalJSON writes the fields in order. Strings are re-encoded so
// escaped non-ASCII text from the service is written as UTF-8.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, f.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		switch {
		case f.value.Type == gjson.String:
			if err := writeString(&buf, f.value.Str); err != nil {
				return nil, err
			}
		case f.value.Raw != "":
			buf.WriteString(f.value.Raw)
		default:
			buf.WriteString("null")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

// UserID returns the farm account identifier.
func (r Record) UserID() string { return r.String(UserIDField) }

// FacilityID returns the facility identifier of a farm record.
func (r Record) FacilityID() string { return r.String(FacilityIDField) }

// AddressName returns the address of a farm record.
func (r Record) AddressName() string { return r.String(AddressNameField) }

// ItemCode returns the crop item code.
func (r Record) ItemCode() string { return r.String(ItemCodeField) }

// StatusCode returns the status code of a cropping season record.
func (r Record) StatusCode() string { return r.String(StatusCodeField) }

// Valid reports whether a cropping season record has StatusOK.
// Only string status codes count; a numeric 0 does not.
func (r Record) Valid() bool {
	v, ok := r.Get(StatusCodeField)
	return ok && v.Type == gjson.String && v.Str == StatusOK
}

// FilterValid returns the valid records of records, each with its
// userId field set to userID. The service does not always include
// userId, and the requested identifier is the one that counts.
func FilterValid(records []Record, userID string) []Record {
	var valid []Record
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		r.fields = append([]field(nil), r.fields...)
		r.Set(UserIDField, userID)
		valid = append(valid, r)
	}
	return valid
}

// Columns returns the union of field names across records,
// in order of first appearance.
func Columns(records []Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range records {
		for _, f := range r.fields {
			if !seen[f.key] {
				seen[f.key] = true
				cols = append(cols, f.key)
			}
		}
	}
	return cols
}
