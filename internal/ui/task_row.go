package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/srf-tools/microphonics/internal/model"
)

// MaxProgressPercent is shown for completed acquisitions
const MaxProgressPercent = 100

// TaskRow is a compact row for one acquisition task
type TaskRow struct {
	widget.BaseWidget

	task         *model.AcquisitionTask
	localization *Localization

	// UI components
	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	etaLabel      *widget.Label
	progressBar   *widget.ProgressBar

	// Action buttons
	stopBtn   *widget.Button
	loadBtn   *widget.Button
	revealBtn *widget.Button

	// Callbacks
	onStop   func(taskID string)
	onLoad   func(taskID string)
	onReveal func(filePath string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task *model.AcquisitionTask, localization *Localization) *TaskRow {
	if task == nil {
		task = &model.AcquisitionTask{Status: model.TaskStatusPending, ETASec: -1}
	}

	tr := &TaskRow{
		task:         task,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(onStop, onLoad func(taskID string), onReveal func(filePath string)) {
	tr.onStop = onStop
	tr.onLoad = onLoad
	tr.onReveal = onReveal
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.AcquisitionTask) {
	if task == nil {
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

// createUI creates the UI components
func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing
	tr.progressLabel = widget.NewLabel("")
	tr.progressLabel.Alignment = fyne.TextAlignTrailing
	tr.etaLabel = widget.NewLabel("")
	tr.etaLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.progressBar = widget.NewProgressBar()
	tr.progressBar.TextFormatter = func() string { return "" }

	// buttons read tr.task at click time, not at creation time
	tr.stopBtn = widget.NewButton(tr.localization.GetText(KeyStop), func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.loadBtn = widget.NewButton(tr.localization.GetText(KeyLoad), func() {
		if tr.onLoad != nil {
			tr.onLoad(tr.task.ID)
		}
	})
	tr.revealBtn = widget.NewButton(IconFolder, func() {
		if tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.revealBtn.Importance = widget.LowImportance
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	task := tr.task
	tr.titleLabel.SetText(task.GetDisplayTitle())

	switch task.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
		tr.statusLabel.SetText(IconError + " " + task.Status.String())
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
		tr.statusLabel.SetText(task.Status.String())
	case model.TaskStatusAcquiring:
		tr.statusLabel.Importance = widget.HighImportance
		tr.statusLabel.SetText(IconPlay + " " + task.Status.String())
	case model.TaskStatusPending, model.TaskStatusStarting:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconPending + " " + task.Status.String())
	case model.TaskStatusStopping, model.TaskStatusStopped:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(IconStop + " " + task.Status.String())
	default:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(task.Status.String())
	}

	percent := min(max(task.Percent, 0), MaxProgressPercent)
	if task.Status == model.TaskStatusCompleted {
		percent = MaxProgressPercent
	}
	tr.progressBar.SetValue(float64(percent) / MaxProgressPercent)
	tr.progressLabel.SetText(fmt.Sprintf(ProgressLabelFormat, percent))

	switch task.Status {
	case model.TaskStatusAcquiring:
		tr.etaLabel.SetText(task.GetETAString())
	case model.TaskStatusError:
		tr.etaLabel.SetText(task.LastError)
	default:
		tr.etaLabel.SetText("")
	}

	tr.updateButtons()
}

// updateButtons updates button states based on task status
func (tr *TaskRow) updateButtons() {
	if tr.task.Status.IsFinished() || tr.task.Status == model.TaskStatusStopping {
		tr.stopBtn.Disable()
	} else {
		tr.stopBtn.Enable()
	}

	// the data file only exists once the script succeeded
	if tr.task.Status == model.TaskStatusCompleted {
		tr.loadBtn.Enable()
		tr.revealBtn.Enable()
	} else {
		tr.loadBtn.Disable()
		tr.revealBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	// Helper to fix width using a transparent rectangle underneath
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(StatusLabelWidth, tr.statusLabel),
		fixedWidth(PercentLabelWidth, tr.progressLabel),
	)
	actions := container.NewHBox(tr.stopBtn, tr.loadBtn, tr.revealBtn)
	top := container.NewBorder(nil, nil, nil, container.NewHBox(info, actions), tr.titleLabel)
	bottom := container.NewBorder(nil, nil, nil, tr.etaLabel, tr.progressBar)

	return widget.NewSimpleRenderer(container.NewVBox(top, bottom, widget.NewSeparator()))
}
