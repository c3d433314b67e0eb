package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/srf-tools/microphonics/internal/config"
)

// Settings dialog size
const (
	SettingsDialogWidth  = 460
	SettingsDialogHeight = 380
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	dataDirEntry    *widget.Entry
	buffersEntry    *widget.Entry
	decimationEntry *widget.Entry
	binsEntry       *widget.Entry
	autoLoadCheck   *widget.Check
	languageSelect  *widget.Select
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// preferences were written.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.dataDirEntry = widget.NewEntry()
	sd.buffersEntry = widget.NewEntry()
	sd.buffersEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxBuffers))
	sd.decimationEntry = widget.NewEntry()
	sd.decimationEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxDecimation))
	sd.binsEntry = widget.NewEntry()
	sd.autoLoadCheck = widget.NewCheck(text(KeyAutoLoad), nil)

	languages := make([]string, 0)
	for code := range sd.settings.GetLanguageOptions() {
		languages = append(languages, code)
	}
	sort.Strings(languages)
	sd.languageSelect = widget.NewSelect(languages, nil)

	form := widget.NewForm(
		widget.NewFormItem(text(KeyDataDirectory), sd.dataDirEntry),
		widget.NewFormItem(text(KeyBuffers), sd.buffersEntry),
		widget.NewFormItem(text(KeyDecimation), sd.decimationEntry),
		widget.NewFormItem(text(KeyHistogramBins), sd.binsEntry),
		widget.NewFormItem("", sd.autoLoadCheck),
		widget.NewFormItem("Language", sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		container.NewPadded(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.dataDirEntry.SetText(sd.settings.GetDataDirectory())
	sd.buffersEntry.SetText(strconv.Itoa(sd.settings.GetBuffers()))
	sd.decimationEntry.SetText(strconv.Itoa(sd.settings.GetDecimation()))
	sd.binsEntry.SetText(strconv.Itoa(sd.settings.GetHistogramBins()))
	sd.autoLoadCheck.SetChecked(sd.settings.GetAutoLoadOnComplete())
	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// save writes the entered values; unparsable numbers leave the old value
func (sd *SettingsDialog) save() {
	if dir := sd.dataDirEntry.Text; dir != "" {
		sd.settings.SetDataDirectory(dir)
	}
	if n, err := strconv.Atoi(sd.buffersEntry.Text); err == nil {
		sd.settings.SetBuffers(n)
	}
	if n, err := strconv.Atoi(sd.decimationEntry.Text); err == nil {
		sd.settings.SetDecimation(n)
	}
	if n, err := strconv.Atoi(sd.binsEntry.Text); err == nil {
		sd.settings.SetHistogramBins(n)
	}
	sd.settings.SetAutoLoadOnComplete(sd.autoLoadCheck.Checked)
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
