package main

import (
	"flag"
	"os"
	"strings"

	"github.com/BurntSushi/voxfold/cmd/util"
	"github.com/BurntSushi/voxfold/design"
	"github.com/BurntSushi/voxfold/pdb"
)

var (
	flagThreshold    = true
	flagSummary      = true
	flagSampleLayout = "backbone"
	flagSampleAxes   = "identity"
	flagTargetAxes   = "identity"
)

func init() {
	flag.BoolVar(&flagThreshold, "threshold", flagThreshold,
		"When set, an SDF threshold is asked for along with the other "+
			"parameters.\nOtherwise a threshold of 0 is always used.")
	flag.BoolVar(&flagSummary, "summary", flagSummary,
		"When set, each generated structure is read back and its fit to "+
			"the\ntarget shape is reported.")
	flag.StringVar(&flagSampleLayout, "sample-layout", flagSampleLayout,
		"The atoms written per residue of a generated structure: "+
			"'backbone'\n(N, CA, C, O) or 'ca'.")
	flag.StringVar(&flagSampleAxes, "sample-axes", flagSampleAxes,
		"A comma separated list of transforms applied to generated "+
			"coordinates\nbefore writing. Transforms are 'identity', "+
			"'swap-xz' and 'center'.")
	flag.StringVar(&flagTargetAxes, "target-axes", flagTargetAxes,
		"A space separated list of transforms. The target shape is "+
			"written once\nper entry. Each entry may combine transforms "+
			"with commas, as in\n-sample-axes.")

	util.FlagUse("verbose", "config", "chroma", "weights-backbone",
		"weights-design", "key", "device", "steps")
	util.FlagParse("",
		"voxfold interactively generates protein backbones shaped like "+
			"voxel grids.")
	util.AssertNArg(0)
}

func main() {
	opts := options()

	model, err := design.Load(util.ChromaConfig(), os.Stdout)
	util.Assert(err, "Could not load the model")
	util.Verbosef("Sampling with %d steps.", model.Steps())

	session := design.NewSession(model, opts, os.Stdin, os.Stdout)
	session.Collector.AskThreshold = flagThreshold
	util.Assert(session.Run())
}

// options builds the output policy from the command line.
func options() design.Options {
	opts := design.DefaultOptions
	opts.Summarize = flagSummary

	var err error
	opts.SampleLayout, err = pdb.ParseLayout(flagSampleLayout)
	util.Assert(err, "Invalid -sample-layout")
	opts.SampleTransform, err = pdb.ParseTransform(flagSampleAxes)
	util.Assert(err, "Invalid -sample-axes")

	opts.Targets = nil
	for _, names := range strings.Fields(flagTargetAxes) {
		tf, err := pdb.ParseTransform(names)
		util.Assert(err, "Invalid -target-axes")
		opts.Targets = append(opts.Targets,
			design.TargetDump{Name: names, Transform: tf})
	}
	return opts
}
