package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetKeepsFirstPosition(t *testing.T) {
	r := NewRecord()
	r.Set("b", "1")
	r.Set("a", "2")
	r.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, "3", r.Value("b"))
	assert.Equal(t, 2, r.Len())
}

func TestRecord_Float(t *testing.T) {
	r := NewRecord()
	r.Set("price", " 12.5 ")
	r.Set("bad", "abc")
	r.Set("empty", "")
	r.Set("nan", "NaN")
	r.Set("inf", "+Inf")

	assert.Equal(t, 12.5, r.Float("price"))
	assert.Zero(t, r.Float("bad"))
	assert.Zero(t, r.Float("empty"))
	assert.Zero(t, r.Float("missing"))
	assert.Zero(t, r.Float("nan"))
	assert.Zero(t, r.Float("inf"))
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("a", "1")
	c := r.Clone()
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "1", r.Value("a"))
	assert.Equal(t, []string{"a"}, r.Keys())
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestRecord_JSONPreservesOrder(t *testing.T) {
	r := NewRecord()
	r.Set("zeta", "1")
	r.Set("alpha", "two \"quoted\"")
	r.Set("mid", "")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"two \"quoted\"","mid":""}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Keys(), back.Keys())
	assert.Equal(t, "two \"quoted\"", back.Value("alpha"))
}

func TestRecord_UnmarshalRejectsNonObject(t *testing.T) {
	var r Record
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &r))
}

func TestTable_AppendRow(t *testing.T) {
	tbl := NewTable([]string{" a", "b ", "c"})
	tbl.AppendRow([]string{" 1 ", "2"})
	tbl.AppendRow([]string{"1", "2", "3", "4"})

	require.Len(t, tbl.Records, 2)
	assert.Equal(t, FieldSchema{"a", "b", "c"}, tbl.Schema)

	_, ok := tbl.Records[0].Get("c")
	assert.False(t, ok, "short rows leave trailing fields absent")
	assert.Equal(t, "1", tbl.Records[0].Value("a"))
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Records[1].Keys())
}

func TestParseDataType(t *testing.T) {
	dt, err := ParseDataType(" Inventory ")
	require.NoError(t, err)
	assert.Equal(t, DataTypeInventory, dt)

	_, err = ParseDataType("foobar")
	assert.ErrorIs(t, err, ErrUnknownDataType)
}
