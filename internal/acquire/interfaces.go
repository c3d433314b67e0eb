package acquire

import (
	"context"

	"github.com/srf-tools/microphonics/internal/model"
)

// Acquirer defines the interface for the acquisition service.
type Acquirer interface {
	SetUpdateCallback(func(*model.AcquisitionTask))
	StartAcquisition(sel model.RackSelection, opts Options) (*model.AcquisitionTask, error)
	StopAcquisition(taskID string) error
	GetTask(taskID string) (*model.AcquisitionTask, bool)
	GetAllTasks() []*model.AcquisitionTask

	// Wait blocks until the task finishes or ctx is done
	Wait(ctx context.Context, taskID string) (*model.AcquisitionTask, error)
}
