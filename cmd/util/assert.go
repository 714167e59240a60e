package util

import (
	"flag"
	"fmt"
	"log"
)

// Verbosef logs only when the -verbose flag is set.
func Verbosef(format string, v ...interface{}) {
	if FlagVerbose {
		log.Printf(format, v...)
	}
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// Assert quits the program with err (and an optional formatted prefix) if
// err is not nil.
func Assert(err error, v ...interface{}) {
	if err == nil {
		return
	}
	if len(v) == 0 {
		Fatalf("ERROR: %s.", err)
	}
	format := v[0].(string)
	Fatalf("%s: %s.", fmt.Sprintf(format, v[1:]...), err)
}

func AssertNArg(n int) {
	if flag.NArg() != n {
		flag.Usage()
	}
}
