package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mawahib/portal/internal/model"
)

func TestDecodeList_Shapes(t *testing.T) {
	ep := StudentReports

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"bare array", `[{"_id":"r1"},{"_id":"r2"}]`, []string{"r1", "r2"}},
		{"envelope", `{"studentReports":[{"_id":"r3"}]}`, []string{"r3"}},
		{"null", `null`, []string{}},
		{"lone record", `{"_id":"r4","title":"x"}`, []string{"r4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ep.decodeList(json.RawMessage(tt.raw))
			require.NoError(t, err)
			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeList_Errors(t *testing.T) {
	_, err := StudentReports.decodeList(json.RawMessage(`{"message":"nope"}`))
	assert.Error(t, err)

	_, err = StudentReports.decodeList(json.RawMessage(`"text"`))
	assert.Error(t, err)
}

func TestDecodeItem_EnvelopeAndBare(t *testing.T) {
	rec, ok, err := FinancialReports.decodeItem(json.RawMessage(`{"financialReport":{"_id":"f1","title":"March"}}`))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "March", rec.Title)

	rec, ok, err = FinancialReports.decodeItem(json.RawMessage(`{"_id":"f2"}`))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "f2", rec.ID)

	_, ok, err = FinancialReports.decodeItem(json.RawMessage(`{"message":"done"}`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestItemPathEscapesID(t *testing.T) {
	assert.Equal(t, "/semester/a%2Fb", Semesters.itemPath("a/b"))
}

func TestMerge(t *testing.T) {
	sem := model.Semester{ID: "s1", SemesterNumber: 2}
	got, err := merge(sem, Patch{"semesterNumber": 3})
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, 3, got.SemesterNumber)
}
