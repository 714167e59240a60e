package util

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/voxfold/apps/chroma"
)

var (
	FlagVerbose = false

	flagConfig   = ""
	flagExec     = chroma.DefaultConfig.Exec
	flagBackbone = ""
	flagDesign   = ""
	flagKey      = os.Getenv("CHROMA_API_KEY")
	flagDevice   = ""
	flagSteps    = chroma.DefaultConfig.Steps
)

func init() {
	log.SetFlags(0)
}

type commonFlag struct {
	set func()

	// apply copies the flag's value into a model configuration. It is only
	// called for flags given on the command line, so that they take
	// precedence over a config file.
	apply func(conf *chroma.Config)
	use   bool
}

var commonFlags = map[string]*commonFlag{
	"verbose": {
		set: func() {
			flag.BoolVar(&FlagVerbose, "verbose", FlagVerbose,
				"When set, every model command is echoed to stderr along "+
					"with its output.")
		},
		apply: func(conf *chroma.Config) { conf.Verbose = FlagVerbose },
	},
	"config": {
		set: func() {
			flag.StringVar(&flagConfig, "config", flagConfig,
				"A JSON file with model settings. Flags given on the\n"+
					"command line override it.")
		},
	},
	"chroma": {
		set: func() {
			flag.StringVar(&flagExec, "chroma", flagExec,
				"The executable that hosts the Chroma model.")
		},
		apply: func(conf *chroma.Config) { conf.Exec = flagExec },
	},
	"weights-backbone": {
		set: func() {
			flag.StringVar(&flagBackbone, "weights-backbone", flagBackbone,
				"The path to the backbone network weights.")
		},
		apply: func(conf *chroma.Config) { conf.WeightsBackbone = flagBackbone },
	},
	"weights-design": {
		set: func() {
			flag.StringVar(&flagDesign, "weights-design", flagDesign,
				"The path to the design network weights.")
		},
		apply: func(conf *chroma.Config) { conf.WeightsDesign = flagDesign },
	},
	"key": {
		set: func() {
			flag.StringVar(&flagKey, "key", flagKey,
				"The access key registered with the model.\n"+
					"Defaults to $CHROMA_API_KEY.")
		},
		apply: func(conf *chroma.Config) { conf.Key = flagKey },
	},
	"device": {
		set: func() {
			flag.StringVar(&flagDevice, "device", flagDevice,
				"The compute device (cuda or cpu). When empty, a GPU is\n"+
					"used if one is found.")
		},
		apply: func(conf *chroma.Config) { conf.Device = flagDevice },
	},
	"steps": {
		set: func() {
			flag.IntVar(&flagSteps, "steps", flagSteps,
				"The number of diffusion steps per sample.")
		},
		apply: func(conf *chroma.Config) { conf.Steps = flagSteps },
	},
}

func FlagUse(names ...string) {
	for _, name := range names {
		commonFlags[name].use = true
	}
}

func FlagParse(positional string, desc string) {
	for _, fl := range commonFlags {
		if fl.use {
			fl.set()
		}
	}

	flag.Usage = func() {
		log.Printf("Usage: %s [flags] %s\n\n",
			path.Base(os.Args[0]), positional)
		if len(desc) > 0 {
			log.Printf("%s\n", desc)
		}
		flag.VisitAll(func(fl *flag.Flag) {
			var def string
			if len(fl.DefValue) > 0 {
				def = fmt.Sprintf(" (default: %s)", fl.DefValue)
			}

			usage := strings.Replace(fl.Usage, "\n", "\n    ", -1)
			log.Printf("-%s%s\n", fl.Name, def)
			log.Printf("    %s\n", usage)
		})
		os.Exit(1)
	}
	flag.Parse()
}

// ChromaConfig builds the model configuration from the -config file (when
// given) and the common flags. Flags set on the command line win over the
// file, and the access key falls back to $CHROMA_API_KEY.
func ChromaConfig() chroma.Config {
	conf := chroma.DefaultConfig
	if commonFlags["config"].use && len(flagConfig) > 0 {
		var err error
		conf, err = chroma.ReadConfig(flagConfig)
		Assert(err)
	}
	flag.Visit(func(fl *flag.Flag) {
		if c, ok := commonFlags[fl.Name]; ok && c.use && c.apply != nil {
			c.apply(&conf)
		}
	})
	if len(conf.Key) == 0 {
		conf.Key = flagKey
	}
	return conf
}
