package main

import (
	"os"
)

// module defs - set at build time via ldflags
var (
	Version   = "dev"
	BuildDate = "unknown"

	AppName = "awbw_replay"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	if cerr := a.teardown(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}
