// Command symgraph is the CLI entrypoint: index a workspace, run the MCP
// stdio server over it, or answer a one-shot query. Built around
// urfave/cli/v2: a single *cli.App with subcommands, cli.Exit mapping
// errors to process exit codes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/codeintel/symgraph/internal/config"
	"github.com/codeintel/symgraph/internal/debugx"
	"github.com/codeintel/symgraph/internal/ierrors"
	"github.com/codeintel/symgraph/internal/indexer"
	"github.com/codeintel/symgraph/internal/lang/c"
	"github.com/codeintel/symgraph/internal/lang/cpp"
	"github.com/codeintel/symgraph/internal/lang/csharp"
	"github.com/codeintel/symgraph/internal/lang/gdscript"
	"github.com/codeintel/symgraph/internal/lang/kotlin"
	"github.com/codeintel/symgraph/internal/lang/php"
	"github.com/codeintel/symgraph/internal/lang/python"
	"github.com/codeintel/symgraph/internal/lang/rust"
	"github.com/codeintel/symgraph/internal/lang/typescript"
	"github.com/codeintel/symgraph/internal/query"
	"github.com/codeintel/symgraph/internal/registry"
	"github.com/codeintel/symgraph/internal/rpc"
	"github.com/codeintel/symgraph/internal/store"
	"github.com/codeintel/symgraph/internal/types"
)

// buildRegistry wires every supported language into a fresh Registry.
// This aggregation has to live at the top of the dependency graph: each
// lang/* package imports registry, so registry itself can never import
// them back without a cycle.
func buildRegistry() (*registry.Registry, error) {
	reg := registry.New()
	defs := []registry.LanguageDefinition{
		rust.Definition{},
		python.Definition{},
		typescript.Definition{},
		csharp.Definition{},
		gdscript.Definition{},
		kotlin.Definition{},
		php.Definition{},
		c.Definition{},
		cpp.Definition{},
	}
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Exit codes: 0 success, 1 generic error, 2 blocking/config error,
// 3 not-found, 4 partial-success-with-warnings.
const (
	exitSuccess      = 0
	exitGeneric      = 1
	exitConfigError  = 2
	exitNotFound     = 3
	exitPartialWarns = 4
)

var version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "symgraph",
		Usage:   "Polyglot symbol graph indexer and query server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "Workspace root to index", Value: "."},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Commands: []*cli.Command{
			indexCommand(),
			serveCommand(),
			findSymbolCommand(),
			getReferencesCommand(),
			analyzeImpactCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		if coder, ok := err.(cli.ExitCoder); ok {
			fmt.Fprintln(os.Stderr, coder.Error())
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGeneric)
	}
}

func loadSettings(c *cli.Context) (*config.Settings, error) {
	root := c.String("root")
	settings, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if c.Bool("debug") {
		settings.Debug = true
	}
	if settings.Debug {
		os.Setenv("DEBUG", "1")
		if _, err := debugx.InitLogFile(); err != nil {
			return nil, err
		}
	}
	return settings, nil
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Index a workspace and persist the symbol graph",
		Action: func(c *cli.Context) error {
			settings, err := loadSettings(c)
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			st := store.New(settings.IndexPath)
			if err := st.Load(); err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			reg, err := buildRegistry()
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}
			idx := indexer.New(reg, settings, st)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			stats, err := idx.Run(ctx, settings.WorkspaceRoot)
			if err != nil {
				if _, ok := err.(*ierrors.ConfigError); ok {
					return cli.Exit(err.Error(), exitConfigError)
				}
				return cli.Exit(err.Error(), exitGeneric)
			}

			fmt.Printf("indexed %d files (%d skipped, %d warnings)\n", stats.FilesIndexed, stats.FilesSkipped, stats.ParseWarnings)
			if stats.ParseWarnings > 0 {
				return cli.Exit("", exitPartialWarns)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP stdio query server over a previously indexed workspace",
		Action: func(c *cli.Context) error {
			debugx.SetMCPMode(true)
			settings, err := loadSettings(c)
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			st := store.New(settings.IndexPath)
			if err := st.Load(); err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			engine := query.NewEngine(st)
			server := rpc.NewServer(engine, "symgraph", version)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			if err := server.Run(ctx); err != nil {
				return cli.Exit(err.Error(), exitGeneric)
			}
			return nil
		},
	}
}

func findSymbolCommand() *cli.Command {
	return &cli.Command{
		Name:      "find-symbol",
		Usage:     "Look up a symbol by name",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("find-symbol requires a <name> argument", exitGeneric)
			}
			settings, err := loadSettings(c)
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}
			st := store.New(settings.IndexPath)
			if err := st.Load(); err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			env := query.NewEngine(st).FindSymbol(c.Args().First())
			return printEnvelope(env)
		},
	}
}

func getReferencesCommand() *cli.Command {
	return &cli.Command{
		Name:      "get-references",
		Usage:     "List every relationship targeting a symbol id",
		ArgsUsage: "<symbol-id>",
		Action: func(c *cli.Context) error {
			id, err := parseSymbolIDArg(c)
			if err != nil {
				return err
			}
			settings, err := loadSettings(c)
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}
			st := store.New(settings.IndexPath)
			if err := st.Load(); err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			env := query.NewEngine(st).GetReferences(id)
			return printEnvelope(env)
		},
	}
}

func analyzeImpactCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze-impact",
		Usage:     "Find transitive callers of a symbol id up to a depth",
		ArgsUsage: "<symbol-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "depth", Value: 1, Usage: "Maximum call-graph hops to walk backwards"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseSymbolIDArg(c)
			if err != nil {
				return err
			}
			settings, err := loadSettings(c)
			if err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}
			st := store.New(settings.IndexPath)
			if err := st.Load(); err != nil {
				return cli.Exit(err.Error(), exitConfigError)
			}

			env := query.NewEngine(st).AnalyzeImpact(id, c.Int("depth"))
			return printEnvelope(env)
		},
	}
}

func parseSymbolIDArg(c *cli.Context) (types.SymbolID, error) {
	if c.NArg() < 1 {
		return 0, cli.Exit("a <symbol-id> argument is required", exitGeneric)
	}
	n, err := strconv.ParseUint(c.Args().First(), 10, 32)
	if err != nil {
		return 0, cli.Exit("invalid symbol id: "+err.Error(), exitGeneric)
	}
	return types.SymbolID(n), nil
}

func printEnvelope(env query.Envelope) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return cli.Exit(err.Error(), exitGeneric)
	}
	fmt.Println(string(data))
	if env.Error != nil && env.Error.Code == "QUERY_SYMBOL_NOT_FOUND" {
		return cli.Exit("", exitNotFound)
	}
	return nil
}
