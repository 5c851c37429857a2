package main

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/quillpress/quillpress-server/internal/di"
)

// Version information, set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags are forwarded to config.Load so quillctl resolves the same
// database and key as the server.
type globalFlags struct {
	configFile string
	envFile    string
	dataPath   string
	dbDriver   string
	dbDSN      string
	logLevel   string
}

func (g *globalFlags) args() []string {
	args := []string{"-env-file", g.envFile, "-log-level", g.logLevel}
	for flag, value := range map[string]string{
		"-config":    g.configFile,
		"-data-path": g.dataPath,
		"-db-driver": g.dbDriver,
		"-db-dsn":    g.dbDSN,
	} {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	return args
}

// container builds the DI container. Callers must Shutdown it.
func (g *globalFlags) container() *do.RootScope {
	return di.NewContainer(g.args(), Version)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "quillctl",
		Short: "QuillPress administration tool",
		Long: `quillctl manages a QuillPress installation: it applies the schema,
creates the first super admin, hashes passwords and exports the API document.

Configuration is resolved exactly like the server: flags, then QUILL_* environment
variables, then the .env file, then the YAML config file.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "Path to YAML config file")
	pf.StringVar(&g.envFile, "env-file", ".env", "Path to .env file")
	pf.StringVar(&g.dataPath, "data-path", "", "Directory for the sqlite database and auth key")
	pf.StringVar(&g.dbDriver, "db-driver", "", "Database driver (sqlite, postgres)")
	pf.StringVar(&g.dbDSN, "db-dsn", "", "Database DSN or sqlite file path")
	pf.StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(g),
		newBootstrapAdminCmd(g),
		newHashPasswordCmd(),
		newOpenAPICmd(g),
		newVersionCmd(),
	)
	return root
}
