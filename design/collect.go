package design

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/voxfold/apps/chroma"
)

// ErrExit is returned by Collector.Next when the user asks to quit or when
// input ends.
var ErrExit = errors.New("exit requested")

// Default values used when a numeric prompt is left blank.
const (
	DefaultLength    = 0 // automatic
	DefaultStep      = 2
	DefaultThreshold = 0.0
)

// Collector reads conditioner parameters from an interactive console.
type Collector struct {
	// When false, the threshold prompt is skipped and DefaultThreshold is
	// always used.
	AskThreshold bool

	// Exists reports whether a voxel path can be used. It defaults to
	// checking the file system.
	Exists func(path string) bool

	in  *bufio.Reader
	out io.Writer
}

// NewCollector creates a collector that prompts on out and reads answers
// from in.
func NewCollector(in io.Reader, out io.Writer) *Collector {
	return &Collector{
		AskThreshold: true,
		Exists:       fileExists,
		in:           bufio.NewReader(in),
		out:          out,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Next prompts for a voxel path until an existing one is given, then prompts
// for the length, step and (optionally) threshold.
//
// ErrExit is returned if the user enters "exit" at the path prompt or if the
// input ends. Answers to numeric prompts that are not blank and not numbers
// result in a parse error.
func (c *Collector) Next() (chroma.ConditionRequest, error) {
	var req chroma.ConditionRequest

	for {
		c.printf("\nEnter new input VOXEL path (or 'exit' to quit):\n")
		path, err := c.readLine()
		if err != nil {
			return req, err
		}
		if strings.ToLower(path) == "exit" {
			return req, ErrExit
		}
		if c.Exists(path) {
			req.Voxel = path
			break
		}
		c.printf("Could not found '%s', try again.\n", path)
	}

	c.printf("\nEnter new length of a protein to generate [default=auto]:\n")
	length, err := c.readInt(DefaultLength)
	if err != nil {
		return req, err
	}
	req.Length = length
	if req.AutoLength() {
		c.printf("auto\n")
	} else {
		c.printf("%d\n", req.Length)
	}

	c.printf("\nEnter new step size to parse a voxel.\n")
	c.printf("It is highly related to a resolution and 5A is enough " +
		"[default=2]:\n")
	if req.Step, err = c.readInt(DefaultStep); err != nil {
		return req, err
	}
	c.printf("%d\n", req.Step)

	req.Threshold = DefaultThreshold
	if c.AskThreshold {
		c.printf("\nEnter new SDF threshold value to generate a target " +
			"shape [default=0]:\n")
		if req.Threshold, err = c.readFloat(DefaultThreshold); err != nil {
			return req, err
		}
		c.printf("%s\n", strconv.FormatFloat(req.Threshold, 'f', -1, 64))
	}
	return req, nil
}

func (c *Collector) printf(format string, v ...interface{}) {
	fmt.Fprintf(c.out, format, v...)
}

// readLine prints the input marker and reads one trimmed line. A final line
// without a newline is still returned. ErrExit is returned at end of input.
func (c *Collector) readLine() (string, error) {
	c.printf("> ")
	line, err := c.in.ReadString('\n')
	if err == io.EOF {
		if len(line) == 0 {
			return "", ErrExit
		}
	} else if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Collector) readInt(def int) (int, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return def, nil
	}
	num, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("Could not parse '%s' as an integer: %s",
			line, err)
	}
	return num, nil
}

func (c *Collector) readFloat(def float64) (float64, error) {
	line, err := c.readLine()
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return def, nil
	}
	num, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("Could not parse '%s' as a number: %s",
			line, err)
	}
	return num, nil
}
