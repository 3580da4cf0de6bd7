package domain

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2026-03-01", want: "2026-03-01"},
		{in: "2026-03-01T09:30:00", want: "2026-03-01"},
		{in: "2026-3-1", wantErr: true},
		{in: "01/03/2026", wantErr: true},
		{in: "2026-02-30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDateStringOrderMatchesCalendarOrder(t *testing.T) {
	dates := []Date{
		NewDate(2026, time.December, 1),
		NewDate(2026, time.February, 9),
		NewDate(2025, time.December, 31),
		NewDate(2026, time.February, 10),
	}

	byString := append([]Date(nil), dates...)
	sort.Slice(byString, func(i, j int) bool { return byString[i].String() < byString[j].String() })
	byCalendar := append([]Date(nil), dates...)
	sort.Slice(byCalendar, func(i, j int) bool { return byCalendar[i].Before(byCalendar[j]) })

	assert.Equal(t, byCalendar, byString)
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2026, time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-07-04"`), &d))
	assert.True(t, d.Equal(NewDate(2026, time.July, 4)))

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &d))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2026-01-15"))
	assert.Equal(t, "2026-01-15", d.String())

	require.NoError(t, d.Scan([]byte("2026-01-16")))
	assert.Equal(t, "2026-01-16", d.String())

	require.NoError(t, d.Scan(time.Date(2026, time.May, 2, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-05-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2026, time.March, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", v)
}

func TestDateBR(t *testing.T) {
	assert.Equal(t, "01/03/2026", NewDate(2026, time.March, 1).BR())
	assert.Equal(t, "", Date{}.BR())
}
