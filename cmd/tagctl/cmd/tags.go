package cmd

import (
	tagscmd "github.com/plonetools/tagctl/cmd/tagctl/cmd/tags"
	"github.com/plonetools/tagctl/internal/cmd/globals"
	engine "github.com/plonetools/tagctl/internal/tags"
)

// appContext gives the tags subcommands lazy access to the engine; the
// gateway is only built once flags are parsed.
type appContext struct{}

func (appContext) Coordinator() (*engine.Coordinator, error) {
	client, err := newGateway()
	if err != nil {
		return nil, err
	}
	return engine.NewCoordinator(client), nil
}

func (appContext) Flags() *globals.Flags {
	return globalFlags
}

func init() {
	rootCmd.AddCommand(tagscmd.NewCommand(appContext{}))
}
