package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"runtime"
	"time"

	"cannyedge/internal/models"
	"cannyedge/pkg/config"
	"cannyedge/pkg/detect"
	"cannyedge/pkg/raster"
	"cannyedge/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Input grayscale image (PNG or JPEG)")
	outputPath := flag.String("output", "edges.png", "Output edge map PNG filename")
	configPath := flag.String("config", "cannyedge.yaml", "Configuration file path")
	lowThreshold := flag.Float64("low", -1, "Hysteresis lower threshold (overrides config)")
	highThreshold := flag.Float64("high", -1, "Hysteresis upper threshold (overrides config)")
	kernelSize := flag.Int("kernel", 0, "Derivative kernel size, odd >= 3 (overrides config)")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines for the parallel stages")
	estimate := flag.Bool("estimate", false, "Derive thresholds from the magnitude distribution instead of fixed values")
	saveStages := flag.Bool("save-stages", false, "Save intermediate stage images")
	stagesDir := flag.String("stages-dir", "stage_results", "Directory for intermediate stage images")
	overlay := flag.String("overlay", "", "Optional path for an edge overlay PNG on the input image")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration and apply flag overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *lowThreshold >= 0 {
		cfg.Detection.LowThreshold = *lowThreshold
	}
	if *highThreshold >= 0 {
		cfg.Detection.HighThreshold = *highThreshold
	}
	if *kernelSize > 0 {
		cfg.Detection.KernelSize = *kernelSize
	}
	cfg.Processing.NumWorkers = *numWorkers
	if *saveStages {
		cfg.Processing.SaveStages = true
		cfg.Processing.StagesDir = *stagesDir
	}
	if *estimate {
		cfg.Estimation.Enabled = true
	}

	params, err := cfg.DetectParams()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	// Load the input image
	src, err := loadRaster(*inputPath)
	if err != nil {
		log.Fatalf("Failed to load input image: %v", err)
	}
	fmt.Printf("Loaded %s (%dx%d)\n", *inputPath, src.Width, src.Height)

	// Data-driven threshold estimation runs the gradient stage once on
	// its own to sample the magnitude distribution.
	if cfg.Estimation.Enabled {
		low, high, err := estimateThresholds(src, params, cfg)
		if err != nil {
			log.Fatalf("Threshold estimation failed: %v", err)
		}
		fmt.Printf("Estimated thresholds: low=%.1f high=%.1f\n", low, high)
		params.LowThreshold = low
		params.HighThreshold = high
	}

	detector, err := detect.NewDetector(params)
	if err != nil {
		log.Fatalf("Invalid parameters: %v", err)
	}

	// Run the detection pipeline
	startTime := time.Now()
	result, err := detector.Detect(src)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}
	elapsed := time.Since(startTime)

	// Save the edge map
	if err := visualization.SaveImage(result.Edges.ToImage(), *outputPath); err != nil {
		log.Fatalf("Failed to save edge map: %v", err)
	}

	edgeCount := result.Edges.Count()
	total := result.Edges.Width * result.Edges.Height
	fmt.Printf("Edge map saved to %s\n", *outputPath)
	fmt.Printf("Detected %d edge pixels (%.2f%% of image) in %.3f seconds\n",
		edgeCount, float64(edgeCount)/float64(total)*100, elapsed.Seconds())

	// Save intermediate stages if requested
	if params.KeepStages && cfg.Processing.SaveStages {
		fmt.Printf("Saving stage images to %s\n", cfg.Processing.StagesDir)
		if err := visualization.SaveStageSequence(result.Stages, cfg.Processing.StagesDir); err != nil {
			log.Printf("Warning: failed to save stage images: %v", err)
		}
	}

	// Save the overlay if requested
	if *overlay != "" {
		img, err := visualization.Overlay(src, result.Edges)
		if err != nil {
			log.Fatalf("Failed to build overlay: %v", err)
		}
		if err := visualization.SaveImage(img, *overlay); err != nil {
			log.Fatalf("Failed to save overlay: %v", err)
		}
		fmt.Printf("Overlay saved to %s\n", *overlay)
	}
}

// loadRaster decodes a PNG or JPEG image into a grayscale raster.
func loadRaster(path string) (*raster.Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}

// estimateThresholds runs the gradient stage alone and derives a
// threshold pair from the magnitude distribution.
func estimateThresholds(src *raster.Raster, params detect.Params, cfg *config.Config) (low, high float64, err error) {
	probe := params
	probe.KeepStages = true
	// Threshold values are irrelevant for the probe run but must be
	// valid.
	probe.LowThreshold = 0
	probe.HighThreshold = 0

	detector, err := detect.NewDetector(probe)
	if err != nil {
		return 0, 0, err
	}
	result, err := detector.Detect(src)
	if err != nil {
		return 0, 0, err
	}
	for _, stage := range result.Stages {
		if stage.Stage == models.StageMagnitude {
			return detect.EstimateThresholds(stage.Raster, cfg.Estimation.Quantile, cfg.Estimation.LowRatio)
		}
	}
	return 0, 0, fmt.Errorf("magnitude stage not captured")
}
