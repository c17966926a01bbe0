package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"gopkg.in/guregu/null.v3"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jsa/config"
)

const version = "0.1.0"

// rootCommand carries what every subcommand needs: the file system, the
// output streams and the loaded configuration.
type rootCommand struct {
	fs        afero.Fs
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	getwd     func() (string, error)
	colorful  bool

	configPath string
	verbose    int
	analyzers  []string
	conf       config.Config
}

func newRootCommand() *rootCommand {
	return &rootCommand{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		getwd:     os.Getwd,
		colorful:  isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

func (rc *rootCommand) command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "jsa",
		Short:             "A JavaScript and TypeScript analyzer",
		SilenceUsage:      true,
		PersistentPreRunE: rc.loadConfig,
	}
	rootCmd.SetOut(rc.stdout)
	rootCmd.SetErr(rc.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rc.configPath, "config", "c", "", "configuration file (default: "+config.FileName+" in the working directory)")
	flags.CountVarP(&rc.verbose, "verbose", "v", "increase log verbosity")
	flags.StringSliceVar(&rc.analyzers, "analyzers", nil, "analyzers to enable (default: all)")

	rootCmd.AddCommand(rc.newLSPCmd())
	rootCmd.AddCommand(rc.newParseCmd())
	rootCmd.AddCommand(rc.newCheckCmd())
	rootCmd.AddCommand(rc.newQueryCmd())

	return rootCmd
}

// loadConfig layers defaults, config file, environment and flags.
func (rc *rootCommand) loadConfig(cmd *cobra.Command, args []string) error {
	path := rc.configPath
	if path == "" {
		if wd, err := rc.getwd(); err == nil {
			path = config.FindFile(rc.fs, wd)
		}
	}
	conf, err := config.Load(rc.fs, path, rc.lookupEnv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		conf.Log.Verbosity = null.IntFrom(int64(rc.verbose))
	}
	if flags.Changed("analyzers") {
		conf.Analyzers = rc.analyzers
		if err := conf.Validate(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	rc.conf = conf

	commonlog.Configure(int(conf.Log.Verbosity.Int64), conf.LogFile())
	return nil
}

func main() {
	if err := newRootCommand().command().Execute(); err != nil {
		os.Exit(1)
	}
}
