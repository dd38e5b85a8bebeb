package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/parlang/parlang"
)

type args struct {
	programPath *string
	inputPath   *string
	configPath  *string
	asmOnly     *bool
	highlight   *bool
}

func readArgs() *args {
	a := &args{
		programPath: flag.String("program", "", "Path to the program listing"),
		inputPath:   flag.String("input", "", "Path to the input file; stdin when empty"),
		configPath:  flag.String("config", "", "Path to a TOML file with runtime limits"),

		// Debugging Options

		asmOnly:   flag.Bool("asm-only", false, "Print the assembled listing and exit"),
		highlight: flag.Bool("highlight", false, "Colorize the output"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()
	if *a.programPath == "" {
		fmt.Fprintln(os.Stderr, "missing required option -program")
		flag.Usage()
		os.Exit(2)
	}

	source, err := os.ReadFile(*a.programPath)
	if err != nil {
		fatal(err)
	}
	program, err := parlang.Assemble(string(source))
	if err != nil {
		fatal(fmt.Errorf("%s: %w", *a.programPath, err))
	}

	if *a.asmOnly {
		if *a.highlight {
			fmt.Print(program.HighlightPrettyString())
		} else {
			fmt.Print(program.PrettyString())
		}
		return
	}

	cfg := parlang.DefaultConfig()
	if *a.configPath != "" {
		if cfg, err = parlang.LoadConfig(*a.configPath); err != nil {
			fatal(err)
		}
	}

	input, err := readInput(*a.inputPath)
	if err != nil {
		fatal(err)
	}

	machine := parlang.NewMachineWithConfig(program, cfg)
	value, cursor, err := machine.Match(input)
	if err != nil {
		var matchErr *parlang.MatchError
		if errors.As(err, &matchErr) {
			fmt.Fprintf(os.Stderr, "%s @ %d\n", matchErr, matchErr.FFP)
			os.Exit(1)
		}
		fatal(err)
	}

	fmt.Printf("matched %d code points\n", cursor)
	if value == nil {
		return
	}
	if *a.highlight {
		fmt.Println(parlang.HighlightPrettyString(value))
	} else {
		fmt.Println(parlang.PrettyString(value))
	}
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(2)
}
