package ui

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"skywatch/internal/config"
	"skywatch/internal/ui/cwidget"
	"skywatch/processing/capture"
)

var videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// Viewer is the application shell: source selection, start/stop
// control, and the live annotated display. All capture work happens on
// the loop's worker; every UI mutation from background goroutines goes
// through fyne.Do.
type Viewer struct {
	fyneApp fyne.App
	mainWin fyne.Window

	cfg     *config.Config
	loop    *capture.Loop
	log     zerolog.Logger
	loadErr error

	dynamicSettings *fyne.Container
	staticSettings  *fyne.Container

	videoCanvas  *canvas.Image
	statusLabel  *widget.Label
	fpsLabel     *widget.Label
	latencyLabel *widget.Label
}

// NewViewer builds the window. loadErr is a detector model-load
// failure to surface once at startup; the app stays usable so the
// user can still exercise sources, but every inference will fail.
func NewViewer(loop *capture.Loop, cfg *config.Config, loadErr error, log zerolog.Logger) *Viewer {
	a := app.New()
	w := a.NewWindow("Skywatch")
	w.Resize(fyne.NewSize(1100, 600))

	return &Viewer{
		fyneApp: a,
		mainWin: w,
		cfg:     cfg,
		loop:    loop,
		log:     log,
		loadErr: loadErr,
	}
}

func (v *Viewer) Run() {
	v.dynamicSettings = container.NewVBox()

	sourceTypeSelect := widget.NewSelect(config.SourcesList[:], func(s string) {
		v.cfg.SetActiveSource(config.SourceType(s))
		v.refreshSettingsUI(s)
	})
	sourceTypeSelect.SetSelected(string(v.cfg.GetActiveSource()))

	displayW, displayH := v.cfg.GetDisplaySize()
	v.videoCanvas = canvas.NewImageFromImage(nil)
	v.videoCanvas.FillMode = canvas.ImageFillContain
	v.videoCanvas.SetMinSize(fyne.NewSize(float32(displayW), float32(displayH)))

	v.statusLabel = widget.NewLabel("Idle")
	v.fpsLabel = widget.NewLabel(formatFPS(0))
	v.latencyLabel = widget.NewLabel(formatLatency(0))

	videoContainer := container.NewBorder(
		container.NewHBox(v.statusLabel, widget.NewSeparator(), v.fpsLabel, widget.NewSeparator(), v.latencyLabel),
		nil, nil, nil,
		v.videoCanvas,
	)

	v.setupStaticSettings()

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewSeparator(),
		widget.NewLabel("Source Type:"),
		sourceTypeSelect,
		widget.NewSeparator(),
		v.dynamicSettings,
		v.staticSettings,
		widget.NewSeparator(),
		widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), v.startCapture),
		widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), v.stopCapture),
	)

	split := container.NewHSplit(
		container.NewPadded(sidebar),
		container.NewPadded(videoContainer),
	)
	split.SetOffset(0.3)

	v.mainWin.SetContent(split)
	v.refreshSettingsUI(string(v.cfg.GetActiveSource()))

	v.mainWin.SetCloseIntercept(func() {
		v.stopCapture()
		if err := v.cfg.SaveByDefault(); err != nil {
			v.log.Warn().Err(err).Msg("config save failed")
		}
		v.mainWin.Close()
	})

	if v.loadErr != nil {
		dialog.ShowError(v.loadErr, v.mainWin)
	}

	v.mainWin.CenterOnScreen()
	v.mainWin.ShowAndRun()
}

func (v *Viewer) descriptor() capture.Descriptor {
	switch v.cfg.GetActiveSource() {
	case config.SourceFile:
		return capture.FileDescriptor(v.cfg.GetFilePath())
	case config.SourceYouTube:
		return capture.YouTubeDescriptor(v.cfg.GetYouTubeURL())
	default:
		return capture.CameraDescriptor(v.cfg.GetDeviceIndex())
	}
}

func (v *Viewer) startCapture() {
	desc := v.descriptor()
	events, err := v.loop.Start(desc)
	if err != nil {
		dialog.ShowError(err, v.mainWin)
		return
	}

	v.statusLabel.SetText("Running: " + desc.String())
	go v.pump(events)
	go v.statLoop()
}

// stopCapture blocks until the worker has exited and its source is
// released; the wait is bounded by one loop iteration.
func (v *Viewer) stopCapture() {
	v.loop.Stop()
}

// pump forwards loop events to the UI thread in production order.
func (v *Viewer) pump(events <-chan capture.Event) {
	sawFatal := false

	for ev := range events {
		ev := ev
		switch {
		case ev.Fatal:
			sawFatal = true
			fyne.Do(func() {
				v.statusLabel.SetText("Stopped: " + ev.Err.Error())
				dialog.ShowError(ev.Err, v.mainWin)
			})
		case ev.Err != nil:
			fyne.Do(func() {
				v.statusLabel.SetText(ev.Err.Error())
			})
		default:
			fyne.Do(func() {
				v.videoCanvas.Image = ev.Frame
				v.videoCanvas.Refresh()
			})
		}
	}

	if !sawFatal {
		fyne.Do(func() {
			v.statusLabel.SetText("Idle")
		})
	}
}

func (v *Viewer) statLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if !v.loop.Running() {
			return
		}
		st := v.loop.Stats()
		fyne.Do(func() {
			v.fpsLabel.SetText(formatFPS(st.FPS))
			v.latencyLabel.SetText(formatLatency(st.Latency))
		})
	}
}

func formatFPS(v uint) string {
	return fmt.Sprintf("FPS: %d", v)
}

func formatLatency(v time.Duration) string {
	return fmt.Sprintf("Latency: %d ms", v.Milliseconds())
}

func (v *Viewer) setupStaticSettings() {
	v.staticSettings = container.NewVBox()

	widthInput := cwidget.NewIntInput("Display width", "Enter integer", v.cfg.DisplayWidth, 160, 4096, v.cfg.SetDisplayWidth)
	heightInput := cwidget.NewIntInput("Display height", "Enter integer", v.cfg.DisplayHeight, 120, 4096, v.cfg.SetDisplayHeight)

	saveBtn := widget.NewButton("Save config", func() {
		if err := v.cfg.SaveByDefault(); err != nil {
			dialog.ShowError(err, v.mainWin)
		}
	})

	v.staticSettings.Add(widthInput)
	v.staticSettings.Add(heightInput)
	v.staticSettings.Add(saveBtn)
}

func (v *Viewer) refreshSettingsUI(sourceType string) {
	v.dynamicSettings.Objects = nil
	v.stopCapture()

	switch config.SourceType(sourceType) {
	case config.SourceCamera:
		v.buildCameraSettings()
	case config.SourceFile:
		v.buildFileSettings()
	case config.SourceYouTube:
		v.buildYouTubeSettings()
	}

	v.dynamicSettings.Refresh()
}

func (v *Viewer) buildCameraSettings() {
	deviceSelect := widget.NewSelect([]string{"Probing cameras..."}, func(s string) {
		if idx, err := strconv.Atoi(s); err == nil {
			v.cfg.SetDeviceIndex(idx)
		}
	})
	deviceSelect.SetSelected("Probing cameras...")
	deviceSelect.Disable()

	v.dynamicSettings.Add(widget.NewLabel("Select Camera:"))
	v.dynamicSettings.Add(deviceSelect)
	v.dynamicSettings.Refresh()

	go func() {
		devices := capture.ListCameras()

		fyne.Do(func() {
			if len(devices) == 0 {
				deviceSelect.Options = []string{"No cameras found"}
				deviceSelect.Refresh()
				return
			}

			options := make([]string, len(devices))
			for i, d := range devices {
				options[i] = strconv.Itoa(d)
			}
			deviceSelect.Options = options
			deviceSelect.Enable()

			current := strconv.Itoa(v.cfg.GetDeviceIndex())
			selected := options[0]
			for _, o := range options {
				if o == current {
					selected = o
				}
			}
			deviceSelect.SetSelected(selected)
			deviceSelect.Refresh()
		})
	}()
}

func (v *Viewer) buildFileSettings() {
	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("/path/to/video.mp4")
	pathEntry.SetText(v.cfg.GetFilePath())
	pathEntry.OnChanged = v.cfg.SetFilePath

	fileBtn := widget.NewButtonWithIcon("Open File", theme.FolderOpenIcon(), func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err == nil && reader != nil {
				pathEntry.SetText(reader.URI().Path())
				reader.Close()
			}
		}, v.mainWin)
		fd.SetFilter(storage.NewExtensionFileFilter(videoExtensions))
		fd.Show()
	})

	v.dynamicSettings.Add(widget.NewLabel("Video Path:"))
	v.dynamicSettings.Add(container.NewBorder(nil, nil, nil, fileBtn, pathEntry))
}

func (v *Viewer) buildYouTubeSettings() {
	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://youtube.com/watch?v=...")
	urlEntry.SetText(v.cfg.GetYouTubeURL())
	urlEntry.OnChanged = v.cfg.SetYouTubeURL

	v.dynamicSettings.Add(widget.NewLabel("YouTube URL:"))
	v.dynamicSettings.Add(urlEntry)
}
