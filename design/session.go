package design

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/voxfold/apps/chroma"
	"github.com/BurntSushi/voxfold/pdb"
)

// Generator builds conditioners and samples structures from them.
// *chroma.Model is the production implementation.
type Generator interface {
	Condition(req chroma.ConditionRequest) (*chroma.Conditioner, error)
	Sample(cond *chroma.Conditioner) (*chroma.Sample, error)
}

// TargetDump names a transform used to write the conditioner's target shape
// to its own file.
type TargetDump struct {
	Name      string
	Transform pdb.Transform
}

// Options controls which files a session writes and how.
type Options struct {
	// Policy for the sampled backbone.
	SampleLayout    pdb.Layout
	SampleTransform pdb.Transform

	// One target shape file is written per entry, always with an
	// alpha-carbon layout.
	Targets []TargetDump

	// When true, the structure written for each sample is read back and
	// summarized.
	Summarize bool

	// Now is used to timestamp output file names.
	Now func() time.Time
}

// DefaultOptions writes the full backbone as generated and the target shape
// with its original axes.
var DefaultOptions = Options{
	SampleLayout:    pdb.BackboneQuartet,
	SampleTransform: pdb.Identity,
	Targets:         []TargetDump{{Name: "identity", Transform: pdb.Identity}},
	Summarize:       true,
	Now:             time.Now,
}

// Session runs the interactive generation loop against a loaded model.
type Session struct {
	Collector *Collector
	Gen       Generator
	Options   Options

	out io.Writer
}

// NewSession creates a session that reads answers from in and reports to
// out. The collector may be adjusted before calling Run.
func NewSession(gen Generator, opts Options, in io.Reader,
	out io.Writer) *Session {

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SampleTransform == nil {
		opts.SampleTransform = pdb.Identity
	}
	return &Session{
		Collector: NewCollector(in, out),
		Gen:       gen,
		Options:   opts,
		out:       out,
	}
}

// Run collects parameters and generates one structure per set of parameters
// until the user exits. Any error other than a missing voxel path stops the
// loop and is returned.
func (s *Session) Run() error {
	for {
		req, err := s.Collector.Next()
		if err == ErrExit {
			s.printf("Exiting program...\n")
			return nil
		} else if err != nil {
			return err
		}
		if err := s.Generate(req); err != nil {
			return err
		}
	}
}

// Generate builds a conditioner for req, samples a structure with it and
// writes the structure and target shapes next to the voxel file.
func (s *Session) Generate(req chroma.ConditionRequest) error {
	s.printf("\nSetting a conditioner\n")
	start := time.Now()
	cond, err := s.Gen.Condition(req)
	if err != nil {
		return err
	}
	defer cond.Clean()
	s.printf("Conditioner setup time: %.2f seconds\n",
		time.Since(start).Seconds())

	if req.AutoLength() {
		s.printf("\nRecommended amino acid length range is [%d, %d].\n",
			cond.LengthMin, cond.LengthMax)
		s.printf("%d was chosen from the range.\n", cond.NumResidues)
	}

	s.printf("\nGenerating a structure\n")
	start = time.Now()
	sample, err := s.Gen.Sample(cond)
	if err != nil {
		return err
	}
	s.printf("Structure generation time: %.2f seconds\n",
		time.Since(start).Seconds())

	stamp := s.Options.Now().Format("0102_150405")
	outPath := OutputPath(req.Voxel, stamp)
	err = pdb.WriteFile(outPath, sample.Backbone,
		s.Options.SampleLayout, s.Options.SampleTransform)
	if err != nil {
		return err
	}
	s.printf("\nSaved the output to\n> %s\n", outPath)

	for i, dump := range s.Options.Targets {
		targetPath := OutputPath(req.Voxel, targetSuffix(i, dump.Name))
		err := pdb.WriteFile(targetPath, cond.Target,
			pdb.CarbonAlpha, dump.Transform)
		if err != nil {
			return err
		}
		s.printf("Saved the target shape to\n> %s\n", targetPath)
	}

	sdf, dw, err := sample.FinalLosses()
	if err != nil {
		return err
	}
	s.printf("\nSDF loss:%.2f %s\n", sdf, Indicator(sdf))
	s.printf("D_w loss:%.2f\n", dw)

	if s.Options.Summarize {
		s.summarize(outPath, cond.Target)
	}
	return nil
}

func (s *Session) printf(format string, v ...interface{}) {
	fmt.Fprintf(s.out, format, v...)
}

// OutputPath replaces the extension of the voxel path with "_<suffix>.pdb".
func OutputPath(voxel, suffix string) string {
	base := strings.TrimSuffix(voxel, filepath.Ext(voxel))
	return fmt.Sprintf("%s_%s.pdb", base, suffix)
}

// targetSuffix names the i'th target dump. The first dump keeps the plain
// "X_target" name.
func targetSuffix(i int, name string) string {
	if i == 0 {
		return "X_target"
	}
	return "X_target_" + strings.NewReplacer(",", "_", " ", "").Replace(name)
}
