package main

import (
	"log"

	"github.com/zintix-labs/droplab/sdk/perf"
)

// makefile runner
func main() {
	bindVar()
	if err := perf.RunPProf(execute, cfg.pprofmode); err != nil {
		log.Println(err)
	}
}
