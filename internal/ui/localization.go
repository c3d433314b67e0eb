package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyAcquire           = "acquire"
	KeyStop              = "stop"
	KeyLoad              = "load"
	KeyReveal            = "reveal"
	KeyLatest            = "latest"
	KeyClear             = "clear"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyDataDirectory     = "data_directory"
	KeyBuffers           = "buffers"
	KeyDecimation        = "decimation"
	KeyHistogramBins     = "histogram_bins"
	KeyAutoLoad          = "auto_load"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyEnterPath         = "enter_path"
	KeySettingsSaved     = "settings_saved"
	KeyAcquisitionAdded  = "acquisition_added"
	KeyNothingSelected   = "nothing_selected"
	KeyNoDataFiles       = "no_data_files"
	KeyPleaseEnterPath   = "please_enter_path"
	KeyErrorLoadingFile  = "error_loading_file"
	KeyErrorStoppingTask = "error_stopping_task"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyChannel           = "channel"
	KeyCavity            = "cavity"
	KeyCount             = "count"
	KeyMean              = "mean"
	KeyStdDev            = "std_dev"
	KeyRMS               = "rms"
	KeyPeakToPeak        = "peak_to_peak"
	KeyTopPeak           = "top_peak"
	KeyNoDataLoaded      = "no_data_loaded"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if text, found := l.texts[l.currentLanguage][key]; found {
		return text
	}
	if text, found := l.texts["en"][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Microphonics",
		KeyAcquire:           "Acquire",
		KeyStop:              "Stop",
		KeyLoad:              "Load",
		KeyReveal:            "Reveal",
		KeyLatest:            "Latest",
		KeyClear:             "Clear",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyDataDirectory:     "Data Directory",
		KeyBuffers:           "Buffers",
		KeyDecimation:        "Decimation",
		KeyHistogramBins:     "Histogram Bins",
		KeyAutoLoad:          "Load finished acquisitions",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyEnterPath:         "Data file path (res_CM...)",
		KeySettingsSaved:     "Settings saved",
		KeyAcquisitionAdded:  "Acquisition started",
		KeyNothingSelected:   "Select at least one cavity",
		KeyNoDataFiles:       "No data files found",
		KeyPleaseEnterPath:   "Please enter a data file path",
		KeyErrorLoadingFile:  "Error loading file",
		KeyErrorStoppingTask: "Error stopping acquisition",
		KeyErrorOpeningFile:  "Error opening file",
		KeyChannel:           "Channel",
		KeyCavity:            "Cavity",
		KeyCount:             "Samples",
		KeyMean:              "Mean",
		KeyStdDev:            "Std dev",
		KeyRMS:               "RMS",
		KeyPeakToPeak:        "Peak-peak",
		KeyTopPeak:           "Top peak",
		KeyNoDataLoaded:      "No data loaded",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Микрофоника",
		KeyAcquire:           "Запустить",
		KeyStop:              "Стоп",
		KeyLoad:              "Загрузить",
		KeyReveal:            "Показать",
		KeyLatest:            "Последний",
		KeyClear:             "Сбросить",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyDataDirectory:     "Папка данных",
		KeyBuffers:           "Буферы",
		KeyDecimation:        "Прореживание",
		KeyHistogramBins:     "Бины гистограммы",
		KeyAutoLoad:          "Открывать завершённые измерения",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyEnterPath:         "Путь к файлу данных (res_CM...)",
		KeySettingsSaved:     "Настройки сохранены",
		KeyAcquisitionAdded:  "Измерение запущено",
		KeyNothingSelected:   "Выберите хотя бы один резонатор",
		KeyNoDataFiles:       "Файлы данных не найдены",
		KeyPleaseEnterPath:   "Введите путь к файлу данных",
		KeyErrorLoadingFile:  "Ошибка загрузки файла",
		KeyErrorStoppingTask: "Ошибка остановки измерения",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyChannel:           "Канал",
		KeyCavity:            "Резонатор",
		KeyCount:             "Отсчёты",
		KeyMean:              "Среднее",
		KeyStdDev:            "СКО",
		KeyRMS:               "RMS",
		KeyPeakToPeak:        "Размах",
		KeyTopPeak:           "Главный пик",
		KeyNoDataLoaded:      "Нет данных",
	}
}
