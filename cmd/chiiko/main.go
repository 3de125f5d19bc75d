package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chiiko/chiiko/internal/assembler"
	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/emulator"
)

const (
	exitOK        = 0
	exitAssembler = 1
	exitRuntime   = 2
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chiiko",
		Short: "Chiiko assembler and emulator",
	}

	var outPath string
	var baseFlag uint16

	assembleCmd := &cobra.Command{
		Use:   "assemble <source.ku>",
		Short: "Assemble a source file into a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := assembler.AssembleFile(args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = args[0] + ".rom"
			}
			if err := os.WriteFile(outPath, rom, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", outPath, len(rom))
			return nil
		},
	}
	assembleCmd.Flags().StringVarP(&outPath, "output", "o", "", "output ROM path (default: <source>.rom)")

	runCmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "Load and execute a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return &chiikoerr.SourceError{Path: args[0], Cause: err}
			}
			return runROM(image)
		},
	}

	asmrunCmd := &cobra.Command{
		Use:   "asmrun <source.ku>",
		Short: "Assemble a source file and execute it immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return &chiikoerr.SourceError{Path: args[0], Cause: err}
			}
			rom, err := assembler.AssembleAt(string(source), baseFlag)
			if err != nil {
				return err
			}
			return runROM(rom)
		},
	}
	asmrunCmd.Flags().Uint16Var(&baseFlag, "base", 0x8000, "ROM base/reset-vector address")

	rootCmd.AddCommand(assembleCmd, runCmd, asmrunCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func runROM(image []byte) error {
	rom, err := emulator.NewROM(image)
	if err != nil {
		return &chiikoerr.EmulatorError{Cause: err}
	}
	bus := emulator.NewBus(emulator.NewRAM(), rom)
	cpu := emulator.NewCPU(bus, os.Stdin, os.Stdout)

	if err := cpu.Run(); err != nil {
		return &chiikoerr.EmulatorError{Cause: err}
	}
	return nil
}

func exitCodeFor(err error) int {
	var asmErr *chiikoerr.AssemblerError
	if errors.As(err, &asmErr) {
		return exitAssembler
	}
	var srcErr *chiikoerr.SourceError
	if errors.As(err, &srcErr) {
		return exitAssembler
	}
	var emuErr *chiikoerr.EmulatorError
	if errors.As(err, &emuErr) {
		return exitRuntime
	}
	return exitRuntime
}
