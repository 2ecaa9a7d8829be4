package dataset

import (
	"errors"
	"testing"
	"time"

	"boardroom/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_InfersKinds(t *testing.T) {
	ds, err := FromRecords(
		[]string{"Date", "Sales", "Region"},
		[][]string{
			{"2023-01-05", "100", "north"},
			{"2024-01-05", "NA", "south"},
			{"2024-02-05", "50.5"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Date", "Sales", "Region"}, ds.Names())
	assert.Equal(t, KindText, ds.Column("Date").Kind)
	assert.Equal(t, KindNumber, ds.Column("Sales").Kind)
	assert.Equal(t, 1, ds.Column("Sales").MissingCount())
	assert.True(t, ds.Column("Region").Values[2].IsMissing())
}

func TestFromRecords_RejectsWideRows(t *testing.T) {
	_, err := FromRecords([]string{"a"}, [][]string{{"1"}, {"2", "3"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRaggedRow))
}

func TestUniqueNames(t *testing.T) {
	got := UniqueNames([]string{" id ", "", "id", "id", "id.1"})
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1", "id.2", "id.1.1"}, got)
}

func TestSetColumn(t *testing.T) {
	ds := New()
	require.NoError(t, ds.SetColumn("x", []Value{Number(1), Number(2)}))
	assert.Equal(t, 2, ds.Len())

	require.NoError(t, ds.SetColumn("x", []Value{Text("a"), Text("b")}))
	assert.Equal(t, 1, ds.Width())
	assert.Equal(t, KindText, ds.Column("x").Kind)

	err := ds.SetColumn("y", []Value{Number(1)})
	assert.True(t, errors.Is(err, core.ErrColumnLength))
}

func TestHasAndAbsent(t *testing.T) {
	ds, err := FromRecords([]string{"Spend", "Revenue"}, nil)
	require.NoError(t, err)

	assert.True(t, ds.Has("Spend", "Revenue"))
	assert.False(t, ds.Has("Spend", "Date"))
	assert.Equal(t, []string{"Date"}, ds.Absent("Spend", "Date"))
}

func TestKeepAndRowKey(t *testing.T) {
	ds, err := FromRecords([]string{"a", "b"}, [][]string{{"1", "x"}, {"1", "x"}, {"2", ""}})
	require.NoError(t, err)

	assert.Equal(t, ds.RowKey(0), ds.RowKey(1))
	assert.NotEqual(t, ds.RowKey(0), ds.RowKey(2))

	ds.Keep([]int{2, 0})
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2.0, ds.Column("a").Values[0].Num)
	assert.True(t, ds.Column("b").Values[0].IsMissing())
}

func TestHeadAndRecords(t *testing.T) {
	ds, err := FromRecords([]string{"z", "a"}, [][]string{{"1", "p"}, {"2", "q"}, {"3", "r"}})
	require.NoError(t, err)

	head := ds.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, 3, ds.Len())

	recs := ds.Records(1)
	require.Len(t, recs, 1)
	keys := []string{}
	for pair := recs[0].Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"z", "a"}, keys)
	v, _ := recs[0].Get("z")
	assert.Equal(t, 1.0, v)
}

func TestValueKeyAndString(t *testing.T) {
	day := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-03-01", Timestamp(day).String())
	assert.Equal(t, "2023-03-01 10:30:00", Timestamp(day.Add(10*time.Hour+30*time.Minute)).String())
	assert.Equal(t, "12.5", Number(12.5).String())
	assert.NotEqual(t, Number(1).Key(), Text("1").Key())
	assert.Equal(t, Missing().Key(), Text("").Key())
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2023-01-02", "2023-01-02 10:00:00", "01/02/2023", "Jan 2, 2023", "2023-01-02T10:00:00Z"} {
		tm, ok := ParseTime(s)
		require.True(t, ok, s)
		assert.Equal(t, 2023, tm.Year(), s)
	}
	_, ok := ParseTime("not a date")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber(" 1e3 ")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, f)
	for _, s := range []string{"", "1,000", "$5", "Inf", "NaN"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, s)
	}
}
