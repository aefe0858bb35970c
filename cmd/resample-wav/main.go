// Command resample-wav changes the sample rate of WAV audio files by treating
// every channel as a one-row grid and resizing it with B-spline projection.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 16 -quality very-high input.wav output.wav
//	resample-wav -rate 48 -parallel=false input.wav out.wav   # Disable parallel processing
//
// The whole file is decoded into memory, so the pipeline sees each channel
// as a single line with mirrored boundaries at both ends.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	resampler "github.com/tphakala/go-grid-resampler"
)

const (
	// Mono input is always resized sequentially
	monoChannels = 1

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	minRequiredArgs = 2
	percentScale    = 100

	// WAV output
	wavHeaderSize     = 44
	wavPCMFormat      = 1
	writeChunkSamples = 65536
	bitsPerByte       = 8
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\nOptions:\n", name)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav           # 44.1k -> 48k\n", name)
	fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav      # Reduce for speech\n", name)
	fmt.Fprintf(os.Stderr, "  %s -rate 8 -quality very-high in.wav o.wav # Strong reduction\n", name)
}

// startCPUProfile starts profiling into path and returns the stop function.
func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

func run() error {
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 32, 44.1, 48, 96)")
	quality := flag.String("quality", "high", "Quality preset: quick, low, medium, high, very-high")
	parallel := flag.Bool("parallel", true, "Resize channels concurrently (faster for stereo/multichannel)")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		flag.Usage()
		return fmt.Errorf("expected input and output paths, got %d arguments", len(args))
	}

	preset, err := resampler.ParseQualityPreset(*quality)
	if err != nil {
		return err
	}

	if *cpuprofile != "" {
		stop, err := startCPUProfile(*cpuprofile)
		if err != nil {
			return err
		}
		defer stop()
	}

	inputPath := args[0]
	outputPath := args[1]
	targetRate := int(*rateKHz * kHzToHz)

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Target rate: %d Hz", targetRate)
		log.Printf("Quality: %s, parallel: %t", preset, *parallel)
	}

	start := time.Now()
	stats, err := resampleWAV(inputPath, outputPath, targetRate, preset, *verbose, *parallel)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit, %s)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, stats.algorithm)
	fmt.Printf("  %s samples -> %s samples\n",
		humanize.Comma(stats.inputSamples), humanize.Comma(stats.outputSamples))
	fmt.Printf("  Written: %s, Elapsed: %s, Speed: %.1fx realtime\n",
		humanize.Bytes(stats.outputBytes),
		durafmt.Parse(elapsed).LimitFirstN(2),
		float64(stats.inputSamples)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	algorithm     string
	inputSamples  int64
	outputSamples int64
	outputBytes   uint64
}

// resampleWAV decodes the input, resizes every channel by the rate ratio and
// writes the result with the input's bit depth.
func resampleWAV(inputPath, outputPath string, targetRate int, preset resampler.QualityPreset, verbose, parallel bool) (stats *resampleStats, err error) {
	input, err := openWAVInput(inputPath, verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate == targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", targetRate)
	}

	channels, err := readChannels(input)
	if err != nil {
		return nil, err
	}
	numSamples := channels[0].Width()

	r, err := newChannelResizer(numSamples, input.rate, targetRate, preset)
	if err != nil {
		return nil, err
	}
	info := r.Info()
	if verbose {
		log.Printf("Pipeline: %s, stages %v, %s scratch",
			info.Algorithm, info.StagesX, humanize.Bytes(uint64(info.MemoryUsage)))
	}

	progress := newProgressTracker(int64(len(channels)), verbose)
	resized, err := resampleChannelData(r, channels, parallel, progress)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close errors matter: the header sizes are patched on close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	samples, err := interleaveChannels(resized, input.bitDepth)
	if err != nil {
		return nil, err
	}
	for start := 0; start < len(samples); start += writeChunkSamples * input.channels {
		end := min(start+writeChunkSamples*input.channels, len(samples))
		if err := output.WriteSamples(samples[start:end]); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
	}

	return &resampleStats{
		inputRate:     input.rate,
		outputRate:    targetRate,
		channels:      input.channels,
		bitDepth:      input.bitDepth,
		algorithm:     info.Algorithm,
		inputSamples:  int64(numSamples),
		outputSamples: int64(resized[0].Width()),
		outputBytes:   uint64(wavHeaderSize) + uint64(len(samples)*(input.bitDepth/bitsPerByte)),
	}, nil
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}
