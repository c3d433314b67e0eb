package ui

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/srf-tools/microphonics/internal/acquire"
	"github.com/srf-tools/microphonics/internal/analysis"
	"github.com/srf-tools/microphonics/internal/config"
	"github.com/srf-tools/microphonics/internal/decode"
	"github.com/srf-tools/microphonics/internal/model"
	"github.com/srf-tools/microphonics/internal/platform"
)

// RootUI represents the main viewer window
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	analysisCfg  config.AnalysisConfig
	acquirer     acquire.Acquirer
	localization *Localization

	// Cavity selection
	selection     *model.Selection
	selectionTree *SelectionTree
	selectedLabel *widget.Label
	acquireBtn    *widget.Button
	clearBtn      *widget.Button

	// Data file
	pathEntry    *widget.Entry
	loadBtn      *widget.Button
	latestBtn    *widget.Button
	datasetLabel *widget.Label
	channelTable *ChannelTable

	// Acquisitions
	taskList   *widget.List
	tasks      []*model.AcquisitionTask
	tasksMutex sync.Mutex
	handled    map[string]bool // completed tasks already auto-loaded

	// UI update debouncing
	lastUIUpdate  time.Time
	uiUpdateMutex sync.Mutex

	// Notification panel
	notificationLabel *widget.Label
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, settings *config.Settings, analysisCfg config.AnalysisConfig, acquirer acquire.Acquirer) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		analysisCfg:  analysisCfg,
		acquirer:     acquirer,
		localization: localization,
		selection:    model.NewSelection(),
		handled:      make(map[string]bool),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.acquirer.SetUpdateCallback(ui.onTaskUpdate)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()
	text := ui.localization.GetText

	// Left: cavity selection tree with its actions
	ui.selectionTree = NewSelectionTree(ui.selection, ui.onSelectionChanged)
	ui.selectedLabel = widget.NewLabel("")
	ui.acquireBtn = widget.NewButton(text(KeyAcquire), ui.onAcquireClick)
	ui.acquireBtn.Importance = widget.HighImportance
	ui.clearBtn = widget.NewButton(text(KeyClear), ui.onClearSelection)
	selectionActions := container.NewVBox(ui.selectedLabel, container.NewGridWithColumns(2, ui.clearBtn, ui.acquireBtn))
	left := container.NewBorder(nil, selectionActions, nil, nil, ui.selectionTree.Widget())

	// Top right: data file row
	ui.pathEntry = widget.NewEntry()
	ui.pathEntry.SetPlaceHolder(text(KeyEnterPath))
	ui.pathEntry.SetText(ui.settings.GetLastDataFile())
	ui.pathEntry.OnSubmitted = func(string) { ui.onLoadClick() }
	ui.loadBtn = widget.NewButton(text(KeyLoad), ui.onLoadClick)
	ui.latestBtn = widget.NewButton(text(KeyLatest), ui.onLatestClick)
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	fileRow := container.NewBorder(nil, nil, settingsBtn, container.NewHBox(ui.latestBtn, ui.loadBtn), ui.pathEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Hide()

	ui.datasetLabel = widget.NewLabel(text(KeyNoDataLoaded))
	ui.channelTable = NewChannelTable(ui.localization)

	// Bottom right: acquisition tasks
	ui.taskList = widget.NewList(
		func() int {
			ui.tasksMutex.Lock()
			defer ui.tasksMutex.Unlock()
			return len(ui.tasks)
		},
		func() fyne.CanvasObject { return ui.createTaskItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateTaskItem(id, obj) },
	)

	tableArea := container.NewBorder(ui.datasetLabel, nil, nil, nil, ui.channelTable.Widget())
	dataSplit := container.NewVSplit(tableArea, ui.taskList)
	right := container.NewBorder(container.NewVBox(fileRow, ui.notificationLabel), nil, nil, nil, dataSplit)

	split := container.NewHSplit(left, right)
	split.Offset = SplitOffset

	ui.onSelectionChanged()
	ui.window.SetContent(split)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	text := ui.localization.GetText
	fileMenu := fyne.NewMenu(text(KeyFile),
		fyne.NewMenuItem(text(KeyLatest), ui.onLatestClick),
		fyne.NewMenuItem(text(KeySettings), ui.onShowSettings),
	)
	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

// refreshUITexts updates all UI texts with the current language
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText
	ui.window.SetTitle(text(KeyAppTitle))
	ui.pathEntry.SetPlaceHolder(text(KeyEnterPath))
	ui.loadBtn.SetText(text(KeyLoad))
	ui.latestBtn.SetText(text(KeyLatest))
	ui.acquireBtn.SetText(text(KeyAcquire))
	ui.clearBtn.SetText(text(KeyClear))
	ui.channelTable.SetReports(ui.channelTable.Reports())
	ui.createMenu()
	ui.taskList.Refresh()
}

// showNotification displays a short message under the file row
func (ui *RootUI) showNotification(message string) {
	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		ui.notificationLabel.Show()
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
	}).Show()
}

// onSelectionChanged summarizes the selection and gates the acquire button
func (ui *RootUI) onSelectionChanged() {
	racks := ui.selection.Selected()
	cavities := 0
	for _, rs := range racks {
		cavities += len(rs.Cavities)
	}
	ui.selectedLabel.SetText(fmt.Sprintf("%d cavities, %d racks", cavities, len(racks)))
	if len(racks) == 0 {
		ui.acquireBtn.Disable()
	} else {
		ui.acquireBtn.Enable()
	}
}

// onClearSelection unchecks every cavity
func (ui *RootUI) onClearSelection() {
	ui.selection.Clear()
	ui.selectionTree.Refresh()
	ui.onSelectionChanged()
}

// onAcquireClick starts one acquisition per selected rack
func (ui *RootUI) onAcquireClick() {
	racks := ui.selection.Selected()
	if len(racks) == 0 {
		ui.showNotification(ui.localization.GetText(KeyNothingSelected))
		return
	}

	opts := acquire.Options{
		Buffers:    ui.settings.GetBuffers(),
		Decimation: ui.settings.GetDecimation(),
	}

	var errs []error
	started := 0
	for _, rs := range racks {
		task, err := ui.acquirer.StartAcquisition(rs, opts)
		if err != nil {
			log.Printf("Failed to start acquisition for %s: %v", rs, err)
			errs = append(errs, fmt.Errorf("%s: %w", rs, err))
			continue
		}
		ui.storeTask(task, false)
		started++
	}

	if len(errs) > 0 {
		dialog.ShowError(errors.Join(errs...), ui.window)
	}
	if started > 0 {
		ui.showNotification(fmt.Sprintf("%s: %d", ui.localization.GetText(KeyAcquisitionAdded), started))
	}
	ui.taskList.Refresh()
}

// onLoadClick loads the file named in the path entry
func (ui *RootUI) onLoadClick() {
	path := strings.TrimSpace(ui.pathEntry.Text)
	if path == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterPath))
		return
	}
	if err := ui.LoadFile(path); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorLoadingFile), err), ui.window)
	}
}

// onLatestClick loads the newest data file in the data directory
func (ui *RootUI) onLatestClick() {
	latest, err := platform.LatestDataFile(ui.settings.GetDataDirectory())
	if err != nil {
		ui.showNotification(ui.localization.GetText(KeyNoDataFiles))
		return
	}
	ui.pathEntry.SetText(latest.Path)
	ui.onLoadClick()
}

// LoadFile decodes and analyzes a data file and shows the channel summary
func (ui *RootUI) LoadFile(path string) error {
	ds, err := decode.Load(path)
	if err != nil {
		return err
	}

	decimation := ui.settings.GetDecimation()
	if d, ok := decode.Header(ds.Header).Decimation(); ok {
		decimation = d
	}
	reports, err := analysis.Analyze(ds, analysis.Options{
		Spacing:       analysis.SampleSpacing(decimation),
		HistogramBins: ui.settings.GetHistogramBins(),
		Peaks:         ui.analysisCfg.Peaks,
	})
	if err != nil {
		return err
	}

	log.Printf("Loaded %s: %d records, channels %v", path, ds.Records, ds.Populated())
	ui.settings.SetLastDataFile(path)
	ui.datasetLabel.SetText(fmt.Sprintf("%s%s%d records%sdecimation %d",
		filepath.Base(path), MiddleDotSeparator, ds.Records, MiddleDotSeparator, decimation))
	ui.channelTable.SetReports(reports)
	return nil
}

// createTaskItem creates a task row; the list fills it in updateTaskItem
func (ui *RootUI) createTaskItem() fyne.CanvasObject {
	row := NewTaskRow(nil, ui.localization)
	row.SetCallbacks(ui.onStopTask, ui.onLoadTaskFile, ui.onRevealFile)
	return row
}

// updateTaskItem binds a row to the task at id
func (ui *RootUI) updateTaskItem(id widget.ListItemID, item fyne.CanvasObject) {
	ui.tasksMutex.Lock()
	if id >= len(ui.tasks) {
		ui.tasksMutex.Unlock()
		return
	}
	task := ui.tasks[id]
	ui.tasksMutex.Unlock()

	if row, ok := item.(*TaskRow); ok {
		row.UpdateTask(task)
	}
}

// storeTask inserts a task into the list, newest first. A known task is
// replaced only when replace is set, and a finished task is never replaced by
// a late update. It reports whether the shown status changed.
func (ui *RootUI) storeTask(task *model.AcquisitionTask, replace bool) bool {
	ui.tasksMutex.Lock()
	defer ui.tasksMutex.Unlock()
	for i, existing := range ui.tasks {
		if existing.ID != task.ID {
			continue
		}
		if !replace || (existing.Status.IsFinished() && !task.Status.IsFinished()) {
			return false
		}
		changed := existing.Status != task.Status
		ui.tasks[i] = task
		return changed
	}
	ui.tasks = append(ui.tasks, task)
	sort.SliceStable(ui.tasks, func(i, j int) bool {
		return ui.tasks[i].StartedAt.After(ui.tasks[j].StartedAt)
	})
	return true
}

// onStopTask asks the service to stop a running acquisition
func (ui *RootUI) onStopTask(taskID string) {
	if err := ui.acquirer.StopAcquisition(taskID); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorStoppingTask), err), ui.window)
	}
}

// onLoadTaskFile shows the data file of a finished acquisition
func (ui *RootUI) onLoadTaskFile(taskID string) {
	task, ok := ui.acquirer.GetTask(taskID)
	if !ok || task.Status != model.TaskStatusCompleted {
		ui.showNotification(ui.localization.GetText(KeyNoDataFiles))
		return
	}
	ui.loadPath(task.OutputPath)
}

// loadPath puts filePath in the path entry and loads it
func (ui *RootUI) loadPath(filePath string) {
	ui.pathEntry.SetText(filePath)
	ui.onLoadClick()
}

// onRevealFile opens the data file location in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// debouncedUIUpdate reports whether enough time passed since the last progress redraw
func (ui *RootUI) debouncedUIUpdate() bool {
	ui.uiUpdateMutex.Lock()
	defer ui.uiUpdateMutex.Unlock()

	now := time.Now()
	if now.Sub(ui.lastUIUpdate) < UIUpdateDebounce {
		return false
	}
	ui.lastUIUpdate = now
	return true
}

// onTaskUpdate handles task updates from the acquisition service
func (ui *RootUI) onTaskUpdate(task *model.AcquisitionTask) {
	changed := ui.storeTask(task, true)

	autoLoad := false
	if task.Status == model.TaskStatusCompleted {
		ui.tasksMutex.Lock()
		if !ui.handled[task.ID] {
			ui.handled[task.ID] = true
			autoLoad = ui.settings.GetAutoLoadOnComplete()
		}
		ui.tasksMutex.Unlock()
	}

	// progress ticks are throttled; status changes always redraw
	if !changed && !autoLoad && !ui.debouncedUIUpdate() {
		return
	}

	fyne.Do(func() {
		ui.taskList.Refresh()
		if autoLoad {
			log.Printf("Auto-loading completed acquisition %s: %s", task.ID, task.OutputPath)
			ui.loadPath(task.OutputPath)
		}
	})
}
