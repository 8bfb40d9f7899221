package main

import (
	"os"

	"github.com/rs/zerolog"

	"skywatch/internal/config"
	"skywatch/internal/ui"
	"skywatch/processing/capture"
	"skywatch/processing/detector"
)

func main() {
	// OpenMP aborts the process when two copies of its runtime load;
	// the model stack can pull in both. Must be set before the
	// detection library initializes.
	os.Setenv("KMP_DUPLICATE_LIB_OK", "TRUE")

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	cfg := config.LoadConfigFile(config.DefaultConfigPath)

	var det detector.Detector
	var loadErr error

	switch cfg.Detector.Backend {
	case config.BackendRemote:
		det = detector.NewRemote(cfg.Detector.RemoteHost, log)
		log.Info().Str("host", cfg.Detector.RemoteHost).Msg("using remote detection backend")
	default:
		yolo, err := detector.NewYOLO(cfg.Detector.ModelPath, cfg.Detector.Confidence, cfg.Detector.NMSThreshold)
		det = yolo
		loadErr = err
		if err != nil {
			log.Error().Err(err).Msg("detection model unavailable")
		} else {
			log.Info().Str("model", cfg.Detector.ModelPath).Msg("detection model loaded")
		}
	}
	defer det.Close()

	loop := capture.NewLoop(capture.NewSource, det, log)

	viewer := ui.NewViewer(loop, cfg, loadErr, log)
	viewer.Run()

	// ShowAndRun has returned; the close intercept already stopped the
	// loop, this covers exits that bypass it.
	loop.Stop()
}
