package model

import (
	"fmt"
	"strings"
)

// CavitiesPerCryomodule is the number of SRF cavities in every cryomodule.
const CavitiesPerCryomodule = 8

// CavitiesPerRack is the number of cavities served by one resonance chassis rack.
const CavitiesPerRack = 4

// Rack identifies one of the two resonance chassis racks of a cryomodule.
type Rack string

const (
	RackA Rack = "A" // cavities 1-4
	RackB Rack = "B" // cavities 5-8
)

// RackForCavity returns the rack serving the 1-based cavity number.
func RackForCavity(cavity int) (Rack, error) {
	switch {
	case cavity >= 1 && cavity <= CavitiesPerRack:
		return RackA, nil
	case cavity > CavitiesPerRack && cavity <= CavitiesPerCryomodule:
		return RackB, nil
	default:
		return "", fmt.Errorf("cavity %d out of range 1-%d", cavity, CavitiesPerCryomodule)
	}
}

// Cavities returns the cavity numbers served by the rack.
func (r Rack) Cavities() []int {
	first := 1
	if r == RackB {
		first = CavitiesPerRack + 1
	}
	cavities := make([]int, CavitiesPerRack)
	for i := range cavities {
		cavities[i] = first + i
	}
	return cavities
}

// Channel returns the 1-based data channel a cavity occupies in its rack's data file.
func (r Rack) Channel(cavity int) int {
	if r == RackB {
		return cavity - CavitiesPerRack
	}
	return cavity
}

// Cryomodule is a single cryomodule within a linac.
type Cryomodule struct {
	Linac string
	Name  string // "02", "H1", ...
}

// String returns the display name, e.g. "CM02".
func (c Cryomodule) String() string {
	return "CM" + c.Name
}

// PVPrefix returns the EPICS prefix of the cryomodule, e.g. "ACCL:L1B:0200:".
func (c Cryomodule) PVPrefix() string {
	return fmt.Sprintf("ACCL:%s:%s00:", c.Linac, c.Name)
}

// ResonancePrefix returns the EPICS prefix of a rack's resonance chassis.
func (c Cryomodule) ResonancePrefix(rack Rack) string {
	return fmt.Sprintf("%sRES%s:", c.PVPrefix(), rack)
}

// Linac is a named linac section and its cryomodules in beam order.
type Linac struct {
	Name        string
	Cryomodules []Cryomodule
}

// harmonicLinearizers are appended to L1B.
var harmonicLinearizers = []string{"H1", "H2"}

var linacLayout = []struct {
	name  string
	first int
	last  int
}{
	{"L0B", 1, 1},
	{"L1B", 2, 3},
	{"L2B", 4, 15},
	{"L3B", 16, 35},
}

// Machine returns all linacs in beam order.
func Machine() []Linac {
	linacs := make([]Linac, 0, len(linacLayout))
	for _, l := range linacLayout {
		linac := Linac{Name: l.name}
		for n := l.first; n <= l.last; n++ {
			linac.Cryomodules = append(linac.Cryomodules, Cryomodule{
				Linac: l.name,
				Name:  fmt.Sprintf("%02d", n),
			})
		}
		if l.name == "L1B" {
			for _, hl := range harmonicLinearizers {
				linac.Cryomodules = append(linac.Cryomodules, Cryomodule{Linac: l.name, Name: hl})
			}
		}
		linacs = append(linacs, linac)
	}
	return linacs
}

// FindCryomodule resolves names such as "2", "02", "CM02" or "h1".
func FindCryomodule(name string) (Cryomodule, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "CM")
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		key = "0" + key
	}
	for _, linac := range Machine() {
		for _, cm := range linac.Cryomodules {
			if cm.Name == key {
				return cm, nil
			}
		}
	}
	return Cryomodule{}, fmt.Errorf("unknown cryomodule: %s", name)
}
