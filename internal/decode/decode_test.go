package decode

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullRecord = "12.500000  3.250000 -1.000000  0.000000\n"

func TestParseChannels_FullRecord(t *testing.T) {
	got, err := ParseChannels([]string{fullRecord})
	require.NoError(t, err)

	assert.Equal(t, []float64{12.5}, got[0])
	assert.Equal(t, []float64{3.25}, got[1])
	assert.Equal(t, []float64{-1.0}, got[2])
	assert.Equal(t, []float64{0.0}, got[3])
}

func TestParseChannels_FileOrder(t *testing.T) {
	lines := []string{
		"1.000000  2.000000  3.000000  4.000000",
		"5.000000  6.000000  7.000000  8.000000",
		"-9.00000  -10.0000  -11.0000  -12.0000",
	}
	got, err := ParseChannels(lines)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 5, -9}, got[0])
	assert.Equal(t, []float64{2, 6, -10}, got[1])
	assert.Equal(t, []float64{3, 7, -11}, got[2])
	assert.Equal(t, []float64{4, 8, -12}, got[3])
}

func TestParseChannels_BlankTrailingChannels(t *testing.T) {
	got, err := ParseChannels([]string{"12.500000                                \n"})
	require.NoError(t, err)

	assert.Equal(t, []float64{12.5}, got[0])
	assert.Empty(t, got[1])
	assert.Empty(t, got[2])
	assert.Empty(t, got[3])
}

func TestParseChannels_EmptyChannelThree(t *testing.T) {
	lines := []string{
		"1.000000  2.000000  3.000000  4.000000",
		"5.000000  6.000000            8.000000",
		"9.000000  10.00000  11.00000  12.00000",
	}
	got, err := ParseChannels(lines)
	require.NoError(t, err)

	assert.Len(t, got[0], 3)
	assert.Equal(t, []float64{3, 11}, got[2])
	assert.Equal(t, []float64{4, 8, 12}, got[3])
}

func TestParseChannels_ShortLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		ch1  float64
	}{
		{name: "channel one only", line: "0.125000", ch1: 0.125},
		{name: "shorter than one field", line: "7.5\n", ch1: 7.5},
		{name: "ends inside the first gap", line: "2.000000 ", ch1: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannels([]string{tt.line})
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.ch1}, got[0])
			for ch := 1; ch < NumChannels; ch++ {
				assert.Empty(t, got[ch], "channel %d", ch+1)
			}
		})
	}
}

func TestParseChannels_PartialTrailingField(t *testing.T) {
	// channel 4 is cut short by the end of the line
	got, err := ParseChannels([]string{"1.000000  2.000000  3.000000  0.5"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, got[3])
}

func TestParseChannels_MalformedOptionalChannels(t *testing.T) {
	lines := []string{
		"1.000000  abcdefgh  3.000000  4.000000",
		"2.000000  2.500000  --------  4.500000",
		"3.000000  2.750000  3.750000  1.2.3.4.",
	}
	got, err := ParseChannels(lines)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, got[0])
	assert.Equal(t, []float64{2.5, 2.75}, got[1])
	assert.Equal(t, []float64{3, 3.75}, got[2])
	assert.Equal(t, []float64{4, 4.5}, got[3])
}

func TestParseChannels_MalformedChannelOne(t *testing.T) {
	lines := []string{
		fullRecord,
		"bad data  3.250000 -1.000000  0.000000",
		fullRecord,
	}
	got, err := ParseChannels(lines)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrChannelOne))
	assert.True(t, errors.Is(err, strconv.ErrSyntax))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, "bad data", fe.Text)
	assert.Equal(t, Channels{}, got)
}

func TestParseChannels_OutOfRangeBecomesInf(t *testing.T) {
	lines := []string{
		"1e999999  -1e99999  1e-99999",
		"2.000000  3.000000",
	}
	got, err := ParseChannels(lines)
	require.NoError(t, err)

	assert.True(t, math.IsInf(got[0][0], 1))
	assert.Equal(t, 2.0, got[0][1])
	assert.True(t, math.IsInf(got[1][0], -1))
	assert.Equal(t, 3.0, got[1][1])
	assert.Equal(t, []float64{0}, got[2])
}

func TestParseChannels_HexIsMalformed(t *testing.T) {
	got, err := ParseChannels([]string{"1.000000  0x1p3     -0X10"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got[0])
	assert.Empty(t, got[1])
	assert.Empty(t, got[2])

	_, err = ParseChannels([]string{"0x1p3"})
	assert.ErrorIs(t, err, ErrChannelOne)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestParseChannels_EmptyChannelOneIsFatal(t *testing.T) {
	_, err := ParseChannels([]string{"          3.250000"})
	assert.ErrorIs(t, err, ErrChannelOne)
}

func TestParseChannels_Idempotent(t *testing.T) {
	lines := []string{
		fullRecord,
		"5.000000  6.000000            8.000000",
		"0.1",
	}
	first, err := ParseChannels(lines)
	require.NoError(t, err)
	second, err := ParseChannels(lines)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, fullRecord, lines[0])
}

func TestParseChannels_NoInput(t *testing.T) {
	got, err := ParseChannels(nil)
	require.NoError(t, err)
	for ch := 0; ch < NumChannels; ch++ {
		assert.Empty(t, got[ch])
	}
}

func TestLayout_CustomWidths(t *testing.T) {
	layout := Layout{{0, 4}, {4, 8}, {8, 12}, {12, 16}}
	got, err := layout.Parse([]string{"1.502.503.504.50"})
	require.NoError(t, err)

	assert.Equal(t, Channels{{1.5}, {2.5}, {3.5}, {4.5}}, got)
}

func TestField_Slice(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		line  string
		want  string
	}{
		{name: "inside", field: Field{2, 4}, line: "abcdef", want: "cd"},
		{name: "clamped end", field: Field{4, 10}, line: "abcdef", want: "ef"},
		{name: "start past end", field: Field{10, 18}, line: "abcdef", want: ""},
		{name: "empty line", field: Field{0, 8}, line: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Slice(tt.line))
		})
	}
}
