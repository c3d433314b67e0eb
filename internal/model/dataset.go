package model

import (
	"path/filepath"
	"regexp"
)

// NumChannels is the number of cavity channels in a data file.
const NumChannels = 4

// Dataset is a decoded data file.
type Dataset struct {
	Source   string   // file path, empty for in-memory data
	Header   []string // leading comment lines
	Records  int      // number of data lines decoded
	Channels [NumChannels][]float64
	Cavities [NumChannels]int // cavity recorded on each channel, 0 if unknown
}

// Channel returns the values of the 1-based channel n, or nil if n is out of range.
func (d *Dataset) Channel(n int) []float64 {
	if n < 1 || n > NumChannels {
		return nil
	}
	return d.Channels[n-1]
}

// Populated returns the 1-based numbers of channels holding at least one value.
func (d *Dataset) Populated() []int {
	var out []int
	for i, ch := range d.Channels {
		if len(ch) > 0 {
			out = append(out, i+1)
		}
	}
	return out
}

// Cavity returns the cavity recorded on the 1-based channel n, or 0 if unknown.
func (d *Dataset) Cavity(n int) int {
	if n < 1 || n > NumChannels {
		return 0
	}
	return d.Cavities[n-1]
}

// cavityListPattern matches the cavity list of a data file name such as
// "res_CM02_cav57_c3_20240101_120000".
var cavityListPattern = regexp.MustCompile(`_cav([1-8]+)_`)

// ChannelCavities maps the channels of a data file to cavities using the
// cavity list in its name. A file holds one rack, so a name listing cavities
// of both racks maps nothing.
func ChannelCavities(fileName string) [NumChannels]int {
	var out [NumChannels]int
	m := cavityListPattern.FindStringSubmatch(filepath.Base(fileName))
	if m == nil {
		return out
	}

	var rack Rack
	for _, digit := range m[1] {
		cav := int(digit - '0')
		r, err := RackForCavity(cav)
		if err != nil {
			return [NumChannels]int{}
		}
		if rack != "" && r != rack {
			return [NumChannels]int{}
		}
		rack = r
		out[rack.Channel(cav)-1] = cav
	}
	return out
}
