// Package cli implements the dynexport command line: a host process that
// owns one registry and drives its attribute class from a command script.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

// Options is the root command that groups sub-commands. The struct tags are
// interpreted by github.com/jessevdk/go-flags.
type Options struct {
	Run     *RunCmd     `command:"run" description:"Host a registry and execute commands from a script or stdin"`
	Version *VersionCmd `command:"version" description:"Print the version"`
}

// Init instantiates the sub-command referenced by the first argument so that
// the parser can populate its fields.
func (o *Options) Init(firstArg string) {
	switch firstArg {
	case "run":
		o.Run = &RunCmd{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	case "version":
		o.Version = &VersionCmd{stdout: os.Stdout}
	}
}

// Run parses args and executes the selected command. It returns the process
// exit code.
func Run(args []string) int {
	opts := &Options{}
	var first string
	if len(args) > 0 {
		first = args[0]
	}
	opts.Init(first)

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// VersionCmd prints the version string.
type VersionCmd struct {
	stdout io.Writer
}

// Execute implements flags.Commander.
func (v *VersionCmd) Execute(_ []string) error {
	_, err := fmt.Fprintln(v.stdout, Version())
	return err
}

// version is set by the main package via SetVersion, which in turn is
// populated through -ldflags. Defaults to "dev".
var version = "dev"

// SetVersion initializes the version string if non-empty.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Version returns the current version string.
func Version() string { return version }
