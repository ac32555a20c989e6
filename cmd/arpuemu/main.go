// Copyright 2026, ReFruity <refruity@users.noreply.github.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ReFruity/arpuemu/emulator"
	"github.com/ReFruity/arpuemu/ports"
)

func main() {
	var compile string
	var run bool
	var input string
	var output string
	var ram string
	var limit int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".arpu file to assemble")
	flag.BoolVar(&run, "x", false, "Execute after assembly")
	flag.StringVar(&input, "i", "-", "Port input tape")
	flag.StringVar(&output, "o", "-", "Port output tape")
	flag.StringVar(&ram, "r", "", "RAM image to load")
	flag.IntVar(&limit, "n", 1_000_000, "Maximum steps to execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: no source file", os.Args[0])
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	emu, err := emulator.NewEmulator(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	emu.Verbose = verbose

	// Program-memory image, one hex byte per element.
	for n, data := range emu.Memory {
		if n > 0 {
			fmt.Print(" ")
		}
		fmt.Printf("%02x", data)
	}
	fmt.Println()

	if !run {
		return
	}

	if len(ram) != 0 {
		image, err := os.ReadFile(ram)
		if err != nil {
			log.Fatalf("%v: %v", ram, err)
		}
		err = emu.LoadRam(image)
		if err != nil {
			log.Fatalf("%v: %v", ram, err)
		}
	}

	tape := &ports.Tape{}

	if input == "-" {
		tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		tape.Input = inf
	}

	if output == "-" {
		tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}

	emu.OutputHook = func(port int, value byte) { tape.Write(value) }

	for steps := 0; !emu.Halted(); steps++ {
		if steps == limit {
			log.Fatalf("%v: no halt after %d steps", compile, limit)
		}

		err = emu.Step()
		if errors.Is(err, emulator.ErrProgramEnd) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		if emu.WaitingPortInput {
			value, ok := tape.Read()
			if !ok {
				log.Fatalf("%v: port input exhausted", compile)
			}
			err = emu.PortInput(value)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	fmt.Print(emu.String())
}
