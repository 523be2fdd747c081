package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/feeaudit/internal/buildinfo"
	"github.com/cleared-dev/feeaudit/internal/config"
	"github.com/cleared-dev/feeaudit/internal/logger"
)

// runtime is the state shared by subcommands once flags, env and the
// config file have been merged.
type runtime struct {
	v   *viper.Viper
	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rt := &runtime{v: viper.New(), log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:     "feeaudit",
		Short:   "Audit bank statements for excess charges",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:      true,
		PersistentPreRunE: rt.setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", config.FileName, "config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	_ = rt.v.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = rt.v.BindPFlag("logging.format", pf.Lookup("log-format"))

	rt.v.SetEnvPrefix("FEEAUDIT")
	rt.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	rt.v.AutomaticEnv()

	rootCmd.AddCommand(newAuditCommand(rt))
	rootCmd.AddCommand(newCategoriesCommand(rt))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServeCommand(rt))

	return rootCmd
}

// setup loads the config file, layers flags and FEEAUDIT_* env vars over it
// and builds the logger.
func (rt *runtime) setup(cmd *cobra.Command, _ []string) error {
	cfgFlag := cmd.Flags().Lookup("config")
	path := cfgFlag.Value.String()

	var err error
	if cfgFlag.Changed {
		rt.cfg, err = config.Load(path)
	} else {
		rt.cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return err
	}

	rt.v.SetDefault("logging.level", rt.cfg.Logging.Level)
	rt.v.SetDefault("logging.format", rt.cfg.Logging.Format)
	rt.v.SetDefault("output.format", rt.cfg.Output.Format)
	rt.v.SetDefault("output.parallel", rt.cfg.Output.Parallel)
	rt.v.SetDefault("server.addr", rt.cfg.Server.Addr)

	rt.cfg.Logging.Level = rt.v.GetString("logging.level")
	rt.cfg.Logging.Format = rt.v.GetString("logging.format")
	rt.cfg.Output.Format = rt.v.GetString("output.format")
	rt.cfg.Output.Parallel = rt.v.GetBool("output.parallel")
	rt.cfg.Server.Addr = rt.v.GetString("server.addr")

	rt.log, err = logger.New(rt.cfg.Logging.Level, rt.cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return rt.cfg.Validate()
}
