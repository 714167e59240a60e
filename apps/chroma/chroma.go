package chroma

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/cmd"
	"github.com/pkg/errors"
)

// Config specifies the location of the bridge executable and the model
// weights, along with sampling parameters shared by every request.
type Config struct {
	// Exec points to the bridge executable. If it is in your PATH, the
	// base name is sufficient.
	Exec string `json:"exec"`

	// Paths to the backbone and design network weights.
	WeightsBackbone string `json:"weights_backbone"`
	WeightsDesign   string `json:"weights_design"`

	// Key is the access key registered with the model before loading.
	Key string `json:"key"`

	// Device is the compute device, i.e., "cuda" or "cpu". When empty,
	// Load picks one with DetectDevice.
	Device string `json:"device"`

	// The number of diffusion steps used when sampling.
	Steps int `json:"steps"`

	// When true, each bridge command is printed to stderr and the bridge's
	// stdout and stderr are mapped to the current process.
	Verbose bool `json:"verbose"`
}

// DefaultConfig provides some sane defaults. Weight paths and the access key
// must still be filled in.
var DefaultConfig = Config{
	Exec:    "chroma-bridge",
	Device:  "",
	Steps:   500,
	Verbose: false,
}

// ReadConfig reads a JSON configuration file. Any key missing from the file
// keeps its value from DefaultConfig.
func ReadConfig(path string) (Config, error) {
	conf := DefaultConfig
	f, err := os.Open(path)
	if err != nil {
		return conf,
			fmt.Errorf("Error opening the config file '%s': %s.", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&conf); err != nil {
		return conf,
			fmt.Errorf("Error decoding JSON in '%s': %s.", path, err)
	}
	return conf, nil
}

// DetectDevice returns "cuda" if an NVIDIA GPU is visible on this machine and
// "cpu" otherwise.
func DetectDevice() string {
	if err := cmd.New("nvidia-smi", "-L").Run(); err == nil {
		return "cuda"
	}
	return "cpu"
}

// Model is a loaded model. It is read-only after Load returns and may be used
// for any number of Condition and Sample calls.
type Model struct {
	conf Config
}

// Load checks that both weight files exist, registers the access key, picks
// a device (if one isn't configured) and asks the bridge to load the weights.
// The returned model uses the resolved device for every request.
func Load(conf Config) (*Model, error) {
	for _, w := range []string{conf.WeightsBackbone, conf.WeightsDesign} {
		if len(w) == 0 {
			return nil, errors.New("Both backbone and design weights must " +
				"be specified.")
		}
		if _, err := os.Stat(w); err != nil {
			return nil, errors.Wrapf(err, "Could not find weights '%s'", w)
		}
	}
	if len(conf.Key) == 0 {
		return nil, errors.New("An access key must be specified.")
	}
	if conf.Steps <= 0 {
		return nil, errors.Errorf("The number of steps must be positive, "+
			"but got %d.", conf.Steps)
	}
	if len(conf.Device) == 0 {
		conf.Device = DetectDevice()
	}

	m := &Model{conf: conf}
	if err := m.run("register", "-key", conf.Key); err != nil {
		return nil, errors.Wrap(err, "Could not register access key")
	}
	if err := m.run("load", m.loadArgs()...); err != nil {
		return nil, errors.Wrap(err, "Could not load weights")
	}
	return m, nil
}

// Device returns the compute device used by this model.
func (m *Model) Device() string {
	return m.conf.Device
}

// Steps returns the number of diffusion steps used when sampling.
func (m *Model) Steps() int {
	return m.conf.Steps
}

func (m *Model) loadArgs() []string {
	return []string{
		"-backbone", m.conf.WeightsBackbone,
		"-design", m.conf.WeightsDesign,
		"-device", m.conf.Device,
	}
}

// run executes the bridge with a sub-command and its arguments.
func (m *Model) run(subcmd string, args ...string) error {
	c := cmd.New(m.conf.Exec, append([]string{subcmd}, args...)...)
	if m.conf.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s\n", c)
		c.Cmd.Stdout = os.Stdout
		c.Cmd.Stderr = os.Stderr
	}
	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "chroma %s failed", subcmd)
	}
	return nil
}

// readJSON decodes the JSON file at path into v.
func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "Could not read bridge output")
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "Could not decode bridge output '%s'", path)
	}
	return nil
}
