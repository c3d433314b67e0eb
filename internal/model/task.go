package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AcquisitionTask represents a single run of the acquisition script for one
// cryomodule rack
type AcquisitionTask struct {
	ID         string
	Cryomodule Cryomodule
	Rack       Rack
	Cavities   []int
	Buffers    int       // number of waveform buffers to collect
	Decimation int       // wave_samp_per setting of the resonance chassis
	OutputPath string    // path of the data file written by the script
	Status     TaskStatus
	Progress   float64   // 0.0 to 1.0
	Percent    int       // 0 to 100
	ETASec     int       // ETA in seconds, -1 if unknown
	LastError  string    // last error message if any
	StartedAt  time.Time // when acquisition started
	FinishedAt time.Time // when acquisition finished
}

// Selection returns the rack selection the task was created for.
func (at *AcquisitionTask) Selection() RackSelection {
	return RackSelection{Cryomodule: at.Cryomodule, Rack: at.Rack, Cavities: at.Cavities}
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (at *AcquisitionTask) GetETAString() string {
	if at.ETASec <= 0 {
		return "—"
	}

	hours := at.ETASec / 3600
	minutes := (at.ETASec % 3600) / 60
	seconds := at.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns the data file name once known, otherwise a
// description of the selection
func (at *AcquisitionTask) GetDisplayTitle() string {
	if at.OutputPath != "" {
		return filepath.Base(at.OutputPath)
	}

	cavities := make([]string, len(at.Cavities))
	for i, c := range at.Cavities {
		cavities[i] = strconv.Itoa(c)
	}
	return fmt.Sprintf("%s %s cav %s", at.Cryomodule.Linac, at.Cryomodule, strings.Join(cavities, ""))
}
