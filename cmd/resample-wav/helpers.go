package main

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampler "github.com/tphakala/go-grid-resampler"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// readChannels decodes the whole PCM payload into one normalized 1-row grid
// per channel.
func readChannels(input *wavInputInfo) ([]*resampler.Grid[float64], error) {
	buf, err := input.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if input.channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", input.channels)
	}
	return deinterleave(buf.Data, input.channels, input.bitDepth)
}

// deinterleave converts interleaved int samples to per-channel grids in
// [-1.0, 1.0].
func deinterleave(data []int, channels, bitDepth int) ([]*resampler.Grid[float64], error) {
	numSamples := len(data) / channels
	if numSamples == 0 {
		return nil, fmt.Errorf("no audio samples")
	}
	invMaxVal := 1.0 / getMaxValue(bitDepth)

	normalized := make([]float64, numSamples*channels)
	for i := range normalized {
		normalized[i] = float64(data[i]) * invMaxVal
	}
	return resampler.DeinterleaveChannels(numSamples, 1, channels, normalized)
}

// newChannelResizer builds one resizer shared by all channels. The zoom is
// the rate ratio along the sample axis.
func newChannelResizer(numSamples, inputRate, targetRate int, preset resampler.QualityPreset) (*resampler.Resizer, error) {
	if inputRate <= 0 || targetRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", inputRate, targetRate)
	}
	r, err := resampler.NewResizer(numSamples, 1, &resampler.ResizeConfig{
		ZoomX:        float64(targetRate) / float64(inputRate),
		AllowEnlarge: true,
		Quality:      resampler.QualitySpec{Preset: preset},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resizer: %w", err)
	}
	return r, nil
}

// interleaveChannels clamps the resized channels to [-1.0, 1.0] and
// converts them back to interleaved integer samples.
func interleaveChannels(channels []*resampler.Grid[float64], bitDepth int) ([]int, error) {
	merged, err := resampler.InterleaveChannels(channels)
	if err != nil {
		return nil, err
	}
	maxVal := getMaxValue(bitDepth)
	out := make([]int, len(merged))
	for i, sample := range merged {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		out[i] = int(sample * maxVal)
	}
	return out, nil
}

// wavOutputWriter wraps the output file and its PCM encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	format  *audio.Format
	depth   int
}

// createWAVOutput creates output file and encoder.
func createWAVOutput(
	path string,
	sampleRate, bitDepth, channels int,
) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavPCMFormat),
		format:  &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		depth:   bitDepth,
	}, nil
}

// WriteSamples encodes interleaved samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	return w.encoder.Write(&audio.IntBuffer{
		Data:           samples,
		Format:         w.format,
		SourceBitDepth: w.depth,
	})
}

// Close finalizes the header sizes and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// progressTracker reports finished channels.
type progressTracker struct {
	mu           sync.Mutex
	total        int64
	done         int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(total int64, verbose bool) *progressTracker {
	return &progressTracker{
		total:   total,
		verbose: verbose,
	}
}

// advance records n finished units and reports when a threshold is crossed.
func (p *progressTracker) advance(n int64) {
	if p == nil || !p.verbose || p.total == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	progress := int(float64(p.done) / float64(p.total) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// resampleChannelData resizes every channel with the shared resizer.
// Multichannel input runs concurrently when parallel is set.
func resampleChannelData(
	r *resampler.Resizer,
	channels []*resampler.Grid[float64],
	parallel bool,
	progress *progressTracker,
) ([]*resampler.Grid[float64], error) {
	if parallel && len(channels) > monoChannels {
		return resampleParallel(r, channels, progress)
	}
	return resampleSequential(r, channels, progress)
}

// resampleParallel processes channels concurrently.
func resampleParallel(
	r *resampler.Resizer,
	channels []*resampler.Grid[float64],
	progress *progressTracker,
) ([]*resampler.Grid[float64], error) {
	resized := make([]*resampler.Grid[float64], len(channels))
	var wg sync.WaitGroup
	var processErr error
	var errMu sync.Mutex

	for ch := range channels {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			out, err := r.Process(channels[channel])
			if err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("resampling failed on channel %d: %w", channel, err)
				}
				errMu.Unlock()
				return
			}
			resized[channel] = out
			progress.advance(1)
		}(ch)
	}
	wg.Wait()

	if processErr != nil {
		return nil, processErr
	}
	return resized, nil
}

// resampleSequential processes channels one by one.
func resampleSequential(
	r *resampler.Resizer,
	channels []*resampler.Grid[float64],
	progress *progressTracker,
) ([]*resampler.Grid[float64], error) {
	resized := make([]*resampler.Grid[float64], len(channels))
	for ch, g := range channels {
		out, err := r.Process(g)
		if err != nil {
			return nil, fmt.Errorf("resampling failed on channel %d: %w", ch, err)
		}
		resized[ch] = out
		progress.advance(1)
	}
	return resized, nil
}
