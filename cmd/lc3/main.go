package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"gone/cpu"
	"gone/debugger"
	"gone/loader"
	"gone/mem"
	"gone/term"
)

func main() {
	log.SetFlags(0)

	var debug bool
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "lc3 <image>",
		Short: "Run an LC-3 program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], debug, verbose)
		},
	}
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "route execution through the debugger")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a disassembly trace of every instruction executed")

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(imagePath string, debug bool, verbose bool) error {
	memory := mem.New()

	pc, err := loader.Load(imagePath, memory)
	if err != nil {
		return fmt.Errorf("lc3: %w", err)
	}
	state := cpu.NewState(memory, pc)

	termState, err := term.MakeRaw()
	if err != nil {
		return fmt.Errorf("lc3: %w", err)
	}
	defer term.Restore(termState)

	if debug {
		debugger.New().Run(state)
		return nil
	}

	for state.Running() {
		if verbose {
			fmt.Fprintf(os.Stderr, "%04x: %s\n", state.PC, cpu.Disassemble(state.Fetch()))
		}
		if err := state.Step(); err != nil {
			return fmt.Errorf("lc3: %w", err)
		}
	}

	return nil
}
