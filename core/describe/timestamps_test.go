package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineTimeStamp(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    float64
		wantRaw string
		ok      bool
	}{
		{"seconds only", "42", 42, "42", true},
		{"minutes and seconds", "1:23 Opening Number", 83, "1:23", true},
		{"hours minutes seconds", "1:02:03 Act Two", 3723, "1:02:03", true},
		{"leading zeros", "01:05", 65, "01:05", true},
		{"leading whitespace", "   3:30 Finale", 210, "3:30", true},
		{"no timestamp", "Just a lyric line", 0, "", false},
		{"empty line", "", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractLineTimeStamp(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want, got.Seconds)
			assert.Equal(t, tt.wantRaw, got.Raw)
		})
	}
}

func TestExtractLineTimeStampRestOfLine(t *testing.T) {
	got, ok := ExtractLineTimeStamp("1:23 Opening Number")
	require.True(t, ok)
	assert.Equal(t, " Opening Number", got.RestOfLine)
}

func TestExtractTimeStampsLabelsFromRestOfLine(t *testing.T) {
	stamps := ExtractTimeStamps("0:00 Overture\n1:23 Opening Number\n")
	require.Len(t, stamps, 2)
	assert.Equal(t, 0.0, stamps[0].Seconds)
	assert.Equal(t, "Overture", stamps[0].Label)
	assert.Equal(t, 83.0, stamps[1].Seconds)
	assert.Equal(t, "Opening Number", stamps[1].Label)
}

func TestExtractTimeStampsIndexLabelFallback(t *testing.T) {
	stamps := ExtractTimeStamps("0:10\n0:20 - 123\n0:30 Entr'acte")
	require.Len(t, stamps, 3)
	assert.Equal(t, "1", stamps[0].Label)
	assert.Equal(t, "2", stamps[1].Label)
	assert.Equal(t, "Entr'acte", stamps[2].Label)
}

func TestExtractTimeStampsSortedAscending(t *testing.T) {
	stamps := ExtractTimeStamps("2:00 Later\n0:30 Earlier\n1:00 Middle")
	require.Len(t, stamps, 3)
	assert.Equal(t, 30.0, stamps[0].Seconds)
	assert.Equal(t, 60.0, stamps[1].Seconds)
	assert.Equal(t, 120.0, stamps[2].Seconds)
}

func TestExtractTimeStampsSkipsNonTimestampLines(t *testing.T) {
	desc := "A practice recording.\n\nTracklist:\n0:00 Overture\nEnjoy!"
	stamps := ExtractTimeStamps(desc)
	require.Len(t, stamps, 1)
	assert.Equal(t, "Overture", stamps[0].Label)
}

func TestExtractTimeStampsEmptyDescription(t *testing.T) {
	assert.Empty(t, ExtractTimeStamps(""))
}

func TestParseISO8601Duration(t *testing.T) {
	assert.Equal(t, 0.0, parseISO8601Duration(""))
	assert.Equal(t, 0.0, parseISO8601Duration("garbage"))
	assert.Equal(t, 45.0, parseISO8601Duration("PT45S"))
	assert.Equal(t, 150.0, parseISO8601Duration("PT2M30S"))
	assert.Equal(t, 3723.0, parseISO8601Duration("PT1H2M3S"))
	assert.Equal(t, 3600.0, parseISO8601Duration("PT1H"))
}
