// ABOUTME: Entry point for the homealign CLI
// ABOUTME: Terminal client for the HomeAlign dashboard proxy

package main

import (
	"fmt"
	"os"

	"github.com/jacksmith315/homealign-dashboard/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
