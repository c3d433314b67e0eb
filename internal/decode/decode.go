package decode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// NumChannels is the number of cavity channels in one record.
const NumChannels = 4

// Field is a half-open byte range [Start, End) within a record.
type Field struct {
	Start int
	End   int
}

// Slice returns the part of line covered by the field. Ranges past the end of
// the line are clamped, so a short line yields a short or empty string.
func (f Field) Slice(line string) string {
	start, end := f.Start, f.End
	if start > len(line) {
		start = len(line)
	}
	if end > len(line) {
		end = len(line)
	}
	if end < start {
		return ""
	}
	return line[start:end]
}

// Layout gives the byte range of every channel in a record.
type Layout [NumChannels]Field

// DefaultLayout is the record format written by the resonance data acquisition script.
var DefaultLayout = Layout{
	{Start: 0, End: 8},
	{Start: 10, End: 18},
	{Start: 20, End: 28},
	{Start: 30, End: 38},
}

// Channels holds decoded values in channel order: index 0 is channel 1.
type Channels [NumChannels][]float64

// ErrChannelOne is wrapped by FieldError when channel 1 of a record cannot be parsed.
var ErrChannelOne = errors.New("malformed channel 1 field")

// FieldError reports the record that stopped decoding.
type FieldError struct {
	Line int    // 1-based index into the decoded lines
	Text string // channel 1 slice as read
	Err  error  // underlying strconv error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: %v %q: %v", e.Line, ErrChannelOne, e.Text, e.Err)
}

// Unwrap lets errors.Is match both ErrChannelOne and the strconv error.
func (e *FieldError) Unwrap() []error {
	return []error{ErrChannelOne, e.Err}
}

// ParseChannels decodes lines using DefaultLayout.
func ParseChannels(lines []string) (Channels, error) {
	return DefaultLayout.Parse(lines)
}

// Parse decodes each line into up to four channel values.
//
// Channel 1 is required on every line: a value that does not parse aborts the
// call with a *FieldError. Channels 2-4 are optional: an empty or unparsable
// field drops only that value and decoding moves on.
func (l Layout) Parse(lines []string) (Channels, error) {
	var out Channels
	for i, line := range lines {
		text := strings.TrimSpace(l[0].Slice(line))
		v, err := parseValue(text)
		if err != nil {
			return Channels{}, &FieldError{Line: i + 1, Text: text, Err: err}
		}
		out[0] = append(out[0], v)

		for ch := 1; ch < NumChannels; ch++ {
			text := strings.TrimSpace(l[ch].Slice(line))
			if text == "" {
				continue
			}
			v, err := parseValue(text)
			if err != nil {
				continue
			}
			out[ch] = append(out[ch], v)
		}
	}
	return out, nil
}

// parseValue reads one decimal field. Magnitudes beyond float64 become ±Inf
// (or zero) instead of failing, and hexadecimal floats are rejected.
func parseValue(text string) (float64, error) {
	digits := strings.TrimLeft(text, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: text, Err: strconv.ErrSyntax}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}
