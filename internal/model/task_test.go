package model

import (
	"testing"
	"time"
)

func TestAcquisitionTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, test := range tests {
		task := &AcquisitionTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestAcquisitionTask_GetDisplayTitle(t *testing.T) {
	cm := Cryomodule{Linac: "L1B", Name: "02"}
	tests := []struct {
		name       string
		cavities   []int
		outputPath string
		expected   string
	}{
		{"selection before output is known", []int{1, 2, 3, 4}, "", "L1B CM02 cav 1234"},
		{"output file name", []int{5}, "/data/res_CM02_cav5_c1_20240101_120000", "res_CM02_cav5_c1_20240101_120000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &AcquisitionTask{Cryomodule: cm, Cavities: tt.cavities, OutputPath: tt.outputPath}
			if got := task.GetDisplayTitle(); got != tt.expected {
				t.Errorf("GetDisplayTitle() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestAcquisitionTask_Selection(t *testing.T) {
	now := time.Now()
	task := &AcquisitionTask{
		ID:         "acq-123",
		Cryomodule: Cryomodule{Linac: "L2B", Name: "07"},
		Rack:       RackB,
		Cavities:   []int{5, 8},
		Status:     TaskStatusPending,
		ETASec:     -1,
		StartedAt:  now,
	}

	sel := task.Selection()
	if sel.Cryomodule.Name != "07" || sel.Rack != RackB || len(sel.Cavities) != 2 {
		t.Errorf("unexpected selection: %+v", sel)
	}
	if !task.StartedAt.Equal(now) {
		t.Errorf("Expected StartedAt to be %v, got %v", now, task.StartedAt)
	}
}

func TestDataset_Channel(t *testing.T) {
	ds := &Dataset{Channels: [NumChannels][]float64{{1, 2}, nil, {3}, nil}}

	if got := ds.Channel(1); len(got) != 2 {
		t.Errorf("Channel(1) length = %d, expected 2", len(got))
	}
	if got := ds.Channel(0); got != nil {
		t.Errorf("Channel(0) = %v, expected nil", got)
	}
	if got := ds.Channel(5); got != nil {
		t.Errorf("Channel(5) = %v, expected nil", got)
	}

	populated := ds.Populated()
	if len(populated) != 2 || populated[0] != 1 || populated[1] != 3 {
		t.Errorf("Populated() = %v, expected [1 3]", populated)
	}
}

func TestChannelCavities(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected [NumChannels]int
	}{
		{"rack A", "/data/res_CM02_cav1234_c1_20240101_120000", [NumChannels]int{1, 2, 3, 4}},
		{"rack B subset", "res_CM35_cav57_c3_20240101_120000", [NumChannels]int{5, 0, 7, 0}},
		{"both racks", "res_CM02_cav15_c1_20240101_120000", [NumChannels]int{}},
		{"no cavity list", "detuning.txt", [NumChannels]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelCavities(tt.fileName); got != tt.expected {
				t.Errorf("ChannelCavities(%q) = %v, expected %v", tt.fileName, got, tt.expected)
			}
		})
	}

	ds := &Dataset{Cavities: ChannelCavities("res_CM35_cav5678_c3_20240101_120000")}
	if got := ds.Cavity(1); got != 5 {
		t.Errorf("Cavity(1) = %d, expected 5", got)
	}
	if got := ds.Cavity(5); got != 0 {
		t.Errorf("Cavity(5) = %d, expected 0", got)
	}
}
