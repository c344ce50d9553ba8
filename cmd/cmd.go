// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, connectCommand, sourcesCommand, importCommand, renderCommand, registryCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the descriptor cache database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

func connectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "connect",
		Usage:  "Verify the middleware is reachable",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Connect,
	}
}

// sourcesCommand handles selection resolution and the descriptor cache
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sources",
		Aliases: []string{"src"},
		Usage:   "Resolve and list middleware audio-file sources",
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve the current middleware selection to audio-file sources",
				Flags: append([]cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "cache",
						Usage: "Store resolved descriptors in the local cache database",
					},
				}, outputFlags()...),
				Action: r.SourcesResolve,
			},
			{
				Name:   "cached",
				Usage:  "List descriptors from the local cache database",
				Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
				Action: r.SourcesCached,
			},
		},
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "import",
		Usage:  "Import the resolved middleware selection into the timeline host",
		Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
		Action: r.Import,
	}
}

func renderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "render",
		Usage:  "Render the host's selected items back over their original files",
		Flags:  append([]cli.Flag{configFlag()}, outputFlags()...),
		Action: r.Render,
	}
}

// registryCommand handles the in-memory source registry
func registryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "registry",
		Aliases: []string{"reg"},
		Usage:   "Inspect the session's source registry",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List imported source records",
				Flags:  outputFlags(),
				Action: r.RegistryList,
			},
			{
				Name:   "clear",
				Usage:  "Remove all records from the registry",
				Action: r.RegistryClear,
			},
			{
				Name:  "export",
				Usage: "Export registry records to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, txt",
						Value: "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when empty)",
					},
				},
				Action: r.RegistryExport,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive import/render workflow",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the localhost status/control server",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}
