package main

import (
	"flag"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/srf-tools/microphonics/internal/acquire"
	"github.com/srf-tools/microphonics/internal/config"
	"github.com/srf-tools/microphonics/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "edu.stanford.slac.microphonics"
	AppName = "Microphonics"

	WindowWidth  = 1100
	WindowHeight = 700
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML configuration file")
	flag.Parse()

	log.Printf("%s v%s starting...", AppName, version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// preferences win over the YAML file once the operator has changed them
	settings := config.NewSettings(myApp)
	settings.Apply(cfg)

	acqCfg := cfg.Acquisition
	acqCfg.DataDir = settings.GetDataDirectory()
	acquireSvc := acquire.NewService(acqCfg)
	acquireSvc.SetVerbose(cfg.Logging.Verbose)

	ui.NewRootUI(myWindow, settings, cfg.Analysis, acquireSvc)

	myWindow.ShowAndRun()
}
