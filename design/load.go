package design

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/voxfold/apps/chroma"
)

// Load settles the compute device, loads the model described by conf and
// reports the device and the loading time to out.
func Load(conf chroma.Config, out io.Writer) (*chroma.Model, error) {
	if len(conf.Device) == 0 {
		conf.Device = chroma.DetectDevice()
	}
	fmt.Fprintf(out, "Device is %s\n", conf.Device)

	fmt.Fprintln(out, "Loading weights")
	start := time.Now()
	model, err := chroma.Load(conf)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Weights loading time: %.2f seconds\n",
		time.Since(start).Seconds())
	return model, nil
}
