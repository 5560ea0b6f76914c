package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/pipeline"
	"github.com/ezrec/intcode/translate"
)

// parseList parses a comma separated list of integers.
func parseList(text string) (values []int64, err error) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}

	for _, word := range strings.Split(text, ",") {
		var value int64
		value, err = strconv.ParseInt(strings.TrimSpace(word), 10, 64)
		if err != nil {
			return
		}
		values = append(values, value)
	}

	return
}

// optionalInt returns a flag setter for an integer that may be left unset.
func optionalInt(value **int64) func(string) error {
	return func(text string) (err error) {
		parsed, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return
		}
		*value = &parsed
		return
	}
}

// openInput opens a file, or stdin for "-".
func openInput(path string) (inf io.ReadCloser, err error) {
	if path == "-" {
		inf = io.NopCloser(os.Stdin)
		return
	}

	inf, err = os.Open(path)
	return
}

// loadImage reads an image, or assembles it if assemble is set.
func loadImage(path string, assemble bool) (image []int64, err error) {
	inf, err := openInput(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if assemble {
		asm := &cpu.Assembler{}
		image, err = asm.Parse(inf)
	} else {
		image, err = cpu.ParseImage(inf)
	}

	return
}

func printValues(values []int64) {
	for _, value := range values {
		fmt.Println(value)
	}
}

func main() {
	var input string
	var noun *int64
	var verb *int64
	var peek bool
	var phases string
	var feedback bool
	var start_signal int64
	var manifest string
	var assemble bool
	var disassemble bool
	var scale int
	var verbose bool
	var trace string

	flag.StringVar(&input, "i", "", "Input text file, or - for stdin")
	flag.Func("noun", "Noun written to cell 1", optionalInt(&noun))
	flag.Func("verb", "Verb written to cell 2", optionalInt(&verb))
	flag.BoolVar(&peek, "peek", false, "Print cell 0 after halting")
	flag.StringVar(&phases, "phases", "", "Run a pipeline, one machine per comma separated phase")
	flag.BoolVar(&feedback, "feedback", false, "Feed the pipeline's last machine to its first")
	flag.Int64Var(&start_signal, "signal", 0, "Pipeline input signal")
	flag.StringVar(&manifest, "c", "", ".toml pipeline manifest to run")
	flag.BoolVar(&assemble, "a", false, "Assemble the program, and print its image")
	flag.BoolVar(&disassemble, "d", false, "Disassemble the program")
	flag.IntVar(&scale, "scale", 1, "Memory capacity as a multiple of the image length")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&trace, "trace", "", "JSON trace log file")

	flag.Usage = func() {
		translate.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] program\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	var trace_output io.Writer
	if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			log.Fatalf("%v: %v", trace, err)
		}
		defer ouf.Close()
		trace_output = ouf
	}

	if verbose {
		level.Set(slog.LevelDebug)
	}
	logger := newLogger(os.Stderr, trace_output)
	slog.SetDefault(logger)

	config := emulator.Config{
		Verbose: verbose || trace_output != nil,
		Logger:  logger,
		Scale:   scale,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if len(manifest) != 0 {
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		mf, err := pipeline.LoadManifest(manifest)
		if err != nil {
			log.Fatal(err)
		}
		p, err := mf.Pipeline()
		if err != nil {
			log.Fatalf("%v: %v", manifest, err)
		}
		p.Config.Verbose = p.Config.Verbose || config.Verbose
		p.Config.Logger = logger

		result, err := p.Run(ctx, mf.Input...)
		if err != nil {
			log.Fatalf("%v: %v", manifest, err)
		}
		printValues([]int64{result})
		return
	}

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one program, got: %v", os.Args[0], flag.Args())
	}
	program := flag.Arg(0)

	image, err := loadImage(program, assemble)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	if disassemble {
		for ip, text := range cpu.Disassemble(image) {
			fmt.Printf("%6d: %v\n", ip, text)
		}
		return
	}

	if assemble {
		err = cpu.FormatImage(os.Stdout, image)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(phases) != 0 {
		phase_list, err := parseList(phases)
		if err != nil {
			log.Fatalf("-phases: %v", err)
		}

		p, err := pipeline.NewPipeline([][]int64{image}, phase_list)
		if err != nil {
			log.Fatal(err)
		}
		p.Config = config
		p.Feedback = feedback

		result, err := p.Run(ctx, start_signal)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		printValues([]int64{result})
		return
	}

	m := config.NewMachine(image)
	if noun != nil {
		err = m.SetNoun(*noun)
		if err != nil {
			log.Fatalf("-noun: %v", err)
		}
	}
	if verb != nil {
		err = m.SetVerb(*verb)
		if err != nil {
			log.Fatalf("-verb: %v", err)
		}
	}

	if len(input) != 0 {
		inf, err := openInput(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		text, err := io.ReadAll(inf)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		m.SetText(string(text))
	}

	err = m.Execute(ctx)
	printValues(m.Output())
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	if peek {
		value, _ := m.Peek(0)
		printValues([]int64{value})
	}
}
