// Command ksinfo renders one plucked string offline and prints how it
// evolves block by block.
//
// Usage:
//
//	ksinfo [flags]
//
// Examples:
//
//	ksinfo -freq 440
//	ksinfo -key f -blocks 20
//	ksinfo -freq 110 -decay 0.999 -damping 4 -excite saw
//	ksinfo -keys
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-pluck/dsp/bank"
	"github.com/cwbudde/algo-pluck/dsp/core"
	"github.com/cwbudde/algo-pluck/dsp/pluck"
	"github.com/cwbudde/algo-pluck/dsp/signal"
	"github.com/cwbudde/algo-pluck/dsp/window"
	"github.com/cwbudde/algo-pluck/internal/keymap"
	"github.com/cwbudde/algo-pluck/measure/tone"
)

var windows = map[string]window.Type{
	"rectangular": window.TypeRectangular,
	"hann":        window.TypeHann,
	"hamming":     window.TypeHamming,
	"blackman":    window.TypeBlackman,
}

func main() {
	freq := flag.Float64("freq", 440, "string frequency in Hz")
	key := flag.String("key", "", "pluck the string bound to this key instead of -freq")
	decay := flag.Float64("decay", 0.995, "feedback gain per sample, (0,1]")
	damping := flag.Int("damping", 2, "loop filter width in samples")
	rate := flag.Int("rate", 44100, "sample rate in Hz")
	block := flag.Int("block", 1024, "block size in samples")
	blocks := flag.Int("blocks", 10, "number of blocks to render")
	seed := flag.Int64("seed", 1, "noise seed")
	excite := flag.String("excite", "noise", "excitation: noise, saw or triangle")
	win := flag.String("window", "hann", "window for the centroid spectrum")
	keys := flag.Bool("keys", false, "print the keyboard layout and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ksinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders one Karplus-Strong string and prints per-block level\n")
		fmt.Fprintf(os.Stderr, "and brightness, followed by the detected pitch.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ksinfo -freq 440\n")
		fmt.Fprintf(os.Stderr, "  ksinfo -key f -blocks 20\n")
		fmt.Fprintf(os.Stderr, "  ksinfo -freq 110 -decay 0.999 -damping 4 -excite saw\n")
	}
	flag.Parse()

	if *keys {
		printKeys()
		return
	}

	slot := 0
	if *key != "" {
		b, ok := keymap.Lookup([]rune(*key)[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "error: key %q is not bound (use -keys to see the layout)\n", *key)
			os.Exit(1)
		}
		slot, *freq = b.Slot, b.Frequency
	}

	exciter, err := parseExciter(*excite, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	wt, ok := windows[strings.ToLower(*win)]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown window %q (one of %s)\n", *win, strings.Join(windowNames(), ", "))
		os.Exit(1)
	}

	b := bank.New(
		bank.WithProcessorOptions(core.WithSampleRate(float64(*rate)), core.WithBlockSize(*block)),
		bank.WithExciter(exciter),
	)
	if err := b.Trigger(slot, *freq, *decay, *damping, *rate); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	params := b.State(slot).Params
	rendered := render(b, max(*blocks, 1))

	printBlocks(rendered, b.SampleRate(), wt)
	printSummary(rendered, b.SampleRate(), params, *freq)
}

func parseExciter(name string, seed int64) (pluck.Exciter, error) {
	switch strings.ToLower(name) {
	case "noise":
		return signal.NewNoise(seed), nil
	case "saw", "sawtooth":
		return pluck.ExciterFunc(signal.Sawtooth), nil
	case "triangle":
		return pluck.ExciterFunc(signal.Triangle), nil
	default:
		return nil, fmt.Errorf("unknown excitation %q", name)
	}
}

func render(b *bank.Bank, blocks int) [][]float64 {
	out := make([][]float64, blocks)
	for i := range out {
		out[i] = b.Render(b.BlockSize())
	}
	return out
}

func printKeys() {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Key\tSlot\tNote\tFrequency [Hz]\n")
	_, _ = fmt.Fprintf(tw, "---\t----\t----\t--------------\n")
	for _, b := range keymap.Default() {
		_, _ = fmt.Fprintf(tw, "%c\t%d\t%s\t%.2f\n", b.Key, b.Slot, b.Name, b.Frequency)
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printBlocks(blocks [][]float64, sampleRate float64, wt window.Type) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Block\tTime [s]\tRMS\tRMS [dB]\tPeak\tCentroid [Hz]\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "-----\t--------\t---\t--------\t----\t-------------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	offset := 0
	for i, blk := range blocks {
		res, err := tone.Analyze(blk, sampleRate, tone.WithWindow(wt))
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: block %d: %v\n", i, err)
			return
		}

		if _, err := fmt.Fprintf(tw, "%d\t%.4f\t%.6f\t%.2f\t%.6f\t%.1f\n",
			i,
			float64(offset)/sampleRate,
			res.RMS,
			core.LinearToDB(res.RMS),
			res.Peak,
			res.Centroid,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}

		offset += len(blk)
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func printSummary(blocks [][]float64, sampleRate float64, p pluck.Params, requested float64) {
	var all []float64
	for _, blk := range blocks {
		all = append(all, blk...)
	}

	nominal := sampleRate / float64(p.Period)
	fmt.Printf("\nrequested %.2f Hz: period %d samples (%.2f Hz), decay %.6f, damping %d\n",
		requested, p.Period, nominal, p.Decay, p.Damping)

	res, err := tone.Analyze(all, sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if res.Period == 0 {
		fmt.Println("no pitch detected")
		return
	}

	level, err := tone.PartialLevel(all, res.Fundamental, sampleRate)
	if err != nil {
		level = 0
	}

	fmt.Printf("detected %.2f Hz (period %.2f samples, clarity %.3f, fundamental level %.2f dB)\n",
		res.Fundamental, res.Period, res.Clarity, core.LinearToDB(level))
}

func windowNames() []string {
	names := make([]string, 0, len(windows))
	for n := range windows {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
