// Command satkit is the CLI collaborator for the satkit toolkit: it reads
// a DIMACS CNF problem, dispatches it to one of the six decision engines,
// and reports the verdict.
package main

import (
	"fmt"
	"os"

	hcli "github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "satkit",
		Level: hclog.Info,
	})

	c := hcli.NewCLI("satkit", "0.1.0")
	c.Args = args
	c.Commands = map[string]hcli.CommandFactory{
		"solve": func() (hcli.Command, error) {
			return &solveCommand{logger: logger.Named("solve")}, nil
		},
		"bench": func() (hcli.Command, error) {
			return &benchCommand{logger: logger.Named("bench")}, nil
		},
		"selftest": func() (hcli.Command, error) {
			return &selftestCommand{logger: logger.Named("selftest")}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitStatus
}
