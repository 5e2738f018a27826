package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/depp/atlaskit/lib/atlas"
	"github.com/depp/atlaskit/lib/render"
)

type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string {
	return fmt.Sprintf("%q: %v", e.name, e.err)
}

func (e *fileError) Unwrap() error {
	return e.err
}

var flagVerbose bool

var cmdRoot = cobra.Command{
	Use:           "atlas",
	Short:         "Atlas builds and inspects packed texture atlases.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// newRegistry returns a registry which keeps textures in memory.
func newRegistry() (*atlas.Registry, *render.Memory, error) {
	mem := render.NewMemory()
	reg, err := atlas.NewRegistry(atlas.Config{
		Renderer: mem,
		Log:      logrus.StandardLogger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return reg, mem, nil
}

func main() {
	cmdRoot.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug messages")
	cmdRoot.AddCommand(&cmdBuild, &cmdInfo, &cmdExtract, &cmdBench)
	if err := cmdRoot.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
