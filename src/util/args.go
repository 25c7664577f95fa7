package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options holds the compiler configuration assembled from the command line by the driver.
// The back end phases only read the configuration; they never mutate it.
type Options struct {
	Src     string // Path to source file.
	Out     string // Path to output file.
	Target  int    // Build target; decides whether the TAC program is interpreted or lowered to assembly.
	Verbose bool   // Set true if compiler should log statistical data to stdout.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "decaf compiler 1.0"

// Build targets. PA3 stops at three-address code and runs the program on the TAC
// simulator, PA5 continues into register allocation and native x86 code generation.
const (
	UnknownTarget = iota
	PA3
	PA5
)

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments.
func ParseArgs() (Options, error) {
	opt := Options{Target: PA5}
	if len(os.Args) < 2 {
		return opt, nil
	}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args)-1; i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			// Help and usage.
			printHelp()
			os.Exit(0)
		case "-o":
			// Output file.
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		case "-target":
			// Build target.
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			switch args[i1+1] {
			case "pa3":
				opt.Target = PA3
			case "pa5":
				opt.Target = PA5
			default:
				return opt, fmt.Errorf("unexpected build target: %s", args[i1+1])
			}
			i1++
		case "-v", "--v", "-version", "--version":
			// Application version.
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			// Verbose mode.
			opt.Verbose = true
		default:
			return opt, fmt.Errorf("unexpected flag: %s", args[i1])
		}
	}
	if len(args) > 0 {
		opt.Src = args[len(args)-1]
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-o\tPath and name of the output file.")
	_, _ = fmt.Fprintln(w, "-target\tBuild target. Can be either 'pa3' or 'pa5'. Defaults to 'pa5'.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_, _ = fmt.Fprintln(w, "-vb\tVerbose mode: print compiler statistics to stdout.")
	_ = w.Flush()
}
