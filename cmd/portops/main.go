package main

import (
	"fmt"
	"os"

	"github.com/afterglow3292/portops/portservice"
)

func main() {
	if err := portservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
