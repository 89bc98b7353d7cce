package schedulejson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestDecodeClosedDays(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   []int
		wantOK bool
	}{
		{name: "native list", raw: `[0, 6]`, want: []int{0, 6}, wantOK: true},
		{name: "string encoded list", raw: `"[1,2]"`, want: []int{1, 2}, wantOK: true},
		{name: "list of strings", raw: `["3","4"]`, want: []int{3, 4}, wantOK: true},
		{name: "csv string", raw: `"0,6"`, want: []int{0, 6}, wantOK: true},
		{name: "postgres array literal", raw: `{1,5}`, want: []int{1, 5}, wantOK: true},
		{name: "empty list", raw: `[]`, want: []int{}, wantOK: true},
		{name: "out of range ignored", raw: `[0, 9]`, want: []int{0}, wantOK: true},
		{name: "null", raw: `null`, want: []int{0}, wantOK: true},
		{name: "empty", raw: ``, want: []int{0}, wantOK: true},
		{name: "garbage", raw: `"sunday"`, want: []int{0}, wantOK: false},
		{name: "object", raw: `{"a":1}`, want: []int{0}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeClosedDays([]byte(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.Days())
		})
	}
}

func TestDecodeWorkingHours(t *testing.T) {
	hours, ok := DecodeWorkingHours([]byte(`{
		"1": {"start": "09:00", "end": "18:00"},
		"2": {"start": "09:00", "end": "18:00", "closed": true},
		"3": {"start": "9am", "end": "18:00"}
	}`))
	assert.False(t, ok)
	require.Len(t, hours, 3)

	assert.Equal(t, domain.DaySchedule{Start: types.MustTimeString("09:00"), End: types.MustTimeString("18:00")}, hours[time.Monday])
	assert.True(t, hours[time.Tuesday].Closed)
	assert.True(t, hours[time.Wednesday].Closed)
	_, exists := hours[time.Thursday]
	assert.False(t, exists)
}

func TestDecodeWorkingHours_StringEncoded(t *testing.T) {
	hours, ok := DecodeWorkingHours([]byte(`"{\"5\":{\"start\":\"10:00\",\"end\":\"14:00\"}}"`))
	assert.True(t, ok)
	assert.Equal(t, "10:00", hours[time.Friday].Start.String())
}

func TestDecodeWorkingHours_Absent(t *testing.T) {
	for _, raw := range []string{``, `null`, `{}`} {
		hours, ok := DecodeWorkingHours([]byte(raw))
		assert.True(t, ok, raw)
		assert.Nil(t, hours, raw)
	}
}

func TestDecodeWorkingHours_BrokenJSONClosesEveryDay(t *testing.T) {
	hours, ok := DecodeWorkingHours([]byte(`{"1": `))
	assert.False(t, ok)
	require.Len(t, hours, 7)
	for _, d := range hours {
		assert.True(t, d.Closed)
	}
}

func TestEncodeWorkingHours_RoundTrip(t *testing.T) {
	in := domain.WorkingHours{
		time.Monday: {Start: types.MustTimeString("08:30"), End: types.MustTimeString("17:00")},
		time.Sunday: domain.ClosedDay(),
	}

	data, err := EncodeWorkingHours(in)
	require.NoError(t, err)

	out, ok := DecodeWorkingHours(data)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	data, err = EncodeWorkingHours(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDecodeTime(t *testing.T) {
	assert.True(t, DecodeTime(nil).IsZero())
	assert.True(t, DecodeTime(ptr.Ptr("late")).IsZero())
	assert.Equal(t, "07:15", DecodeTime(ptr.Ptr("07:15:00")).String())
}

func TestEncodeClosedDays(t *testing.T) {
	assert.JSONEq(t, `[0,3]`, string(EncodeClosedDays(domain.NewWeekdaySet(3, 0))))
}
