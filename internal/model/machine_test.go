package model

import "testing"

func TestMachineLayout(t *testing.T) {
	linacs := Machine()
	expected := map[string]int{"L0B": 1, "L1B": 4, "L2B": 12, "L3B": 20}

	if len(linacs) != len(expected) {
		t.Fatalf("Expected %d linacs, got %d", len(expected), len(linacs))
	}
	for _, linac := range linacs {
		if got := len(linac.Cryomodules); got != expected[linac.Name] {
			t.Errorf("%s: expected %d cryomodules, got %d", linac.Name, expected[linac.Name], got)
		}
	}

	l1b := linacs[1].Cryomodules
	if l1b[2].Name != "H1" || l1b[3].Name != "H2" {
		t.Errorf("Expected harmonic linearizers at the end of L1B, got %v", l1b)
	}
}

func TestFindCryomodule(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLinac string
		wantName  string
		wantErr   bool
	}{
		{"plain number", "02", "L1B", "02", false},
		{"single digit", "4", "L2B", "04", false},
		{"with prefix", "CM35", "L3B", "35", false},
		{"harmonic linearizer lower case", "h2", "L1B", "H2", false},
		{"unknown", "99", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := FindCryomodule(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cm.Linac != tt.wantLinac || cm.Name != tt.wantName {
				t.Errorf("FindCryomodule(%q) = %+v", tt.input, cm)
			}
		})
	}
}

func TestPrefixes(t *testing.T) {
	cm := Cryomodule{Linac: "L1B", Name: "H1"}
	if got := cm.PVPrefix(); got != "ACCL:L1B:H100:" {
		t.Errorf("PVPrefix() = %s", got)
	}
	if got := cm.ResonancePrefix(RackB); got != "ACCL:L1B:H100:RESB:" {
		t.Errorf("ResonancePrefix() = %s", got)
	}
}

func TestRacks(t *testing.T) {
	for cav := 1; cav <= CavitiesPerCryomodule; cav++ {
		rack, err := RackForCavity(cav)
		if err != nil {
			t.Fatalf("RackForCavity(%d): %v", cav, err)
		}
		want := RackA
		if cav > 4 {
			want = RackB
		}
		if rack != want {
			t.Errorf("RackForCavity(%d) = %s, expected %s", cav, rack, want)
		}
		if ch := rack.Channel(cav); ch < 1 || ch > 4 {
			t.Errorf("Channel(%d) = %d out of range", cav, ch)
		}
	}

	if _, err := RackForCavity(9); err == nil {
		t.Error("expected error for cavity 9")
	}
	if got := RackB.Cavities(); got[0] != 5 || got[3] != 8 {
		t.Errorf("RackB.Cavities() = %v", got)
	}
}
