package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
)

// Manifest is a pipeline described in TOML.
//
//	program = "amp.txt"
//	phases = [9, 8, 7, 6, 5]
//	input = [0]
//	feedback = true
type Manifest struct {
	Program      string   `toml:"program"`       // Image shared by every machine.
	Programs     []string `toml:"programs"`      // One image per machine.
	Phases       []int64  `toml:"phases"`        // Phase setting of each machine.
	Input        []int64  `toml:"input"`         // Input of the first machine, after its phase.
	Feedback     bool     `toml:"feedback"`      // Feed the last machine's output to the first.
	Scale        int      `toml:"scale"`         // Memory capacity as a multiple of the image length.
	LinkCapacity int      `toml:"link_capacity"` // Values in flight between machines.
	Verbose      bool     `toml:"verbose"`       // Trace every instruction.

	// Dir is the directory that relative program paths are found in.
	Dir string `toml:"-"`
}

// ParseManifest parses a manifest, with program paths relative to dir.
func ParseManifest(text string, dir string) (mf *Manifest, err error) {
	mf = &Manifest{}
	md, err := toml.Decode(text, mf)
	if err != nil {
		mf = nil
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) != 0 {
		mf = nil
		err = ErrManifestKey(undecoded[0].String())
		return
	}

	mf.Dir = dir
	return
}

// LoadManifest reads a manifest file. Program paths are relative to the
// directory holding the manifest.
func LoadManifest(path string) (mf *Manifest, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	mf, err = ParseManifest(string(data), filepath.Dir(path))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// loadImage reads the program image at path.
func (mf *Manifest) loadImage(path string) (image []int64, err error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(mf.Dir, path)
	}

	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	image, err = cpu.ParseImage(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// Pipeline loads the programs and creates the pipeline the manifest
// describes.
func (mf *Manifest) Pipeline() (p *Pipeline, err error) {
	paths := mf.Programs
	if len(mf.Program) != 0 {
		paths = append([]string{mf.Program}, paths...)
	}
	if len(paths) == 0 {
		err = ErrProgramEmpty
		return
	}

	images := make([][]int64, len(paths))
	for n, path := range paths {
		images[n], err = mf.loadImage(path)
		if err != nil {
			return
		}
	}

	p, err = NewPipeline(images, mf.Phases)
	if err != nil {
		return
	}

	p.Feedback = mf.Feedback
	p.Config = emulator.Config{
		Verbose:      mf.Verbose,
		Scale:        mf.Scale,
		LinkCapacity: mf.LinkCapacity,
	}

	return
}
