package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CheckState is the tri-state check value of a node in the selection tree.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Partial
)

func (cs CheckState) String() string {
	switch cs {
	case Unchecked:
		return "unchecked"
	case Checked:
		return "checked"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// RackSelection is a set of cavities of one cryomodule rack; it maps onto a
// single acquisition.
type RackSelection struct {
	Cryomodule Cryomodule
	Rack       Rack
	Cavities   []int
}

// String returns e.g. "L1B CM02 rack A cavities 1,2".
func (rs RackSelection) String() string {
	parts := make([]string, len(rs.Cavities))
	for i, c := range rs.Cavities {
		parts[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("%s %s rack %s cavities %s", rs.Cryomodule.Linac, rs.Cryomodule, rs.Rack, strings.Join(parts, ","))
}

// GroupByRack splits cavities of one cryomodule into per-rack selections,
// rack A first. Duplicates are removed.
func GroupByRack(cm Cryomodule, cavities []int) ([]RackSelection, error) {
	byRack := make(map[Rack]map[int]bool)
	for _, cav := range cavities {
		rack, err := RackForCavity(cav)
		if err != nil {
			return nil, err
		}
		if byRack[rack] == nil {
			byRack[rack] = make(map[int]bool)
		}
		byRack[rack][cav] = true
	}

	var out []RackSelection
	for _, rack := range []Rack{RackA, RackB} {
		set := byRack[rack]
		if len(set) == 0 {
			continue
		}
		rs := RackSelection{Cryomodule: cm, Rack: rack}
		for cav := range set {
			rs.Cavities = append(rs.Cavities, cav)
		}
		sort.Ints(rs.Cavities)
		out = append(out, rs)
	}
	return out, nil
}

// ParseCavityList parses "1-4", "1,3,5-8" or "all" into sorted cavity numbers.
func ParseCavityList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return append(RackA.Cavities(), RackB.Cavities()...), nil
	}
	if s == "" {
		return nil, fmt.Errorf("empty cavity list")
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi := part, part
		if i := strings.Index(part, "-"); i >= 0 {
			lo, hi = part[:i], part[i+1:]
		}
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid cavity %q: %w", part, err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid cavity %q: %w", part, err)
		}
		if first > last {
			return nil, fmt.Errorf("invalid cavity range %q", part)
		}
		for c := first; c <= last; c++ {
			if _, err := RackForCavity(c); err != nil {
				return nil, err
			}
			seen[c] = true
		}
	}

	cavities := make([]int, 0, len(seen))
	for c := range seen {
		cavities = append(cavities, c)
	}
	sort.Ints(cavities)
	return cavities, nil
}

type cavityKey struct {
	cm     string
	cavity int
}

// Selection is the linac -> cryomodule -> cavity check tree. Only cavities
// hold state; linac and cryomodule states are derived from their children.
type Selection struct {
	linacs  []Linac
	byName  map[string]Cryomodule
	checked map[cavityKey]bool
}

// NewSelection creates an empty selection over the whole machine.
func NewSelection() *Selection {
	s := &Selection{
		linacs:  Machine(),
		byName:  make(map[string]Cryomodule),
		checked: make(map[cavityKey]bool),
	}
	for _, linac := range s.linacs {
		for _, cm := range linac.Cryomodules {
			s.byName[cm.Name] = cm
		}
	}
	return s
}

// Linacs returns the machine layout the selection covers.
func (s *Selection) Linacs() []Linac {
	return s.linacs
}

func (s *Selection) lookup(cm string) (Cryomodule, error) {
	found, err := FindCryomodule(cm)
	if err != nil {
		return Cryomodule{}, err
	}
	return s.byName[found.Name], nil
}

func (s *Selection) linac(name string) (Linac, error) {
	for _, linac := range s.linacs {
		if strings.EqualFold(linac.Name, name) {
			return linac, nil
		}
	}
	return Linac{}, fmt.Errorf("unknown linac: %s", name)
}

// SetCavity checks or unchecks a single cavity.
func (s *Selection) SetCavity(cm string, cavity int, on bool) error {
	found, err := s.lookup(cm)
	if err != nil {
		return err
	}
	if _, err := RackForCavity(cavity); err != nil {
		return err
	}
	s.set(found, cavity, on)
	return nil
}

// SetCryomodule checks or unchecks every cavity of a cryomodule.
func (s *Selection) SetCryomodule(cm string, on bool) error {
	found, err := s.lookup(cm)
	if err != nil {
		return err
	}
	for cav := 1; cav <= CavitiesPerCryomodule; cav++ {
		s.set(found, cav, on)
	}
	return nil
}

// SetLinac checks or unchecks every cavity of a linac.
func (s *Selection) SetLinac(name string, on bool) error {
	linac, err := s.linac(name)
	if err != nil {
		return err
	}
	for _, cm := range linac.Cryomodules {
		for cav := 1; cav <= CavitiesPerCryomodule; cav++ {
			s.set(cm, cav, on)
		}
	}
	return nil
}

func (s *Selection) set(cm Cryomodule, cavity int, on bool) {
	key := cavityKey{cm: cm.Name, cavity: cavity}
	if on {
		s.checked[key] = true
	} else {
		delete(s.checked, key)
	}
}

// Clear unchecks everything.
func (s *Selection) Clear() {
	s.checked = make(map[cavityKey]bool)
}

// CavityState reports whether a cavity is checked.
func (s *Selection) CavityState(cm string, cavity int) CheckState {
	found, err := s.lookup(cm)
	if err != nil {
		return Unchecked
	}
	if s.checked[cavityKey{cm: found.Name, cavity: cavity}] {
		return Checked
	}
	return Unchecked
}

// CryomoduleState derives the state of a cryomodule from its cavities.
func (s *Selection) CryomoduleState(cm string) CheckState {
	found, err := s.lookup(cm)
	if err != nil {
		return Unchecked
	}
	return s.countState(s.countCryomodule(found), CavitiesPerCryomodule)
}

// LinacState derives the state of a linac from all of its cavities.
func (s *Selection) LinacState(name string) CheckState {
	linac, err := s.linac(name)
	if err != nil {
		return Unchecked
	}
	n := 0
	for _, cm := range linac.Cryomodules {
		n += s.countCryomodule(cm)
	}
	return s.countState(n, len(linac.Cryomodules)*CavitiesPerCryomodule)
}

func (s *Selection) countCryomodule(cm Cryomodule) int {
	n := 0
	for cav := 1; cav <= CavitiesPerCryomodule; cav++ {
		if s.checked[cavityKey{cm: cm.Name, cavity: cav}] {
			n++
		}
	}
	return n
}

func (s *Selection) countState(n, total int) CheckState {
	switch {
	case n == 0:
		return Unchecked
	case n == total:
		return Checked
	default:
		return Partial
	}
}

// Selected returns the checked cavities grouped per cryomodule rack, in
// machine order.
func (s *Selection) Selected() []RackSelection {
	var out []RackSelection
	for _, linac := range s.linacs {
		for _, cm := range linac.Cryomodules {
			var cavities []int
			for cav := 1; cav <= CavitiesPerCryomodule; cav++ {
				if s.checked[cavityKey{cm: cm.Name, cavity: cav}] {
					cavities = append(cavities, cav)
				}
			}
			if len(cavities) == 0 {
				continue
			}
			// cavities are already validated; GroupByRack cannot fail here
			groups, _ := GroupByRack(cm, cavities)
			out = append(out, groups...)
		}
	}
	return out
}
