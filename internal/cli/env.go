package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envPrefix is prepended to every environment variable name.
var envPrefix = strings.ToUpper(cmdName) + "_"

// bindEnvVars makes every flag of cmd and its subcommands settable through
// an environment variable named LINTCFG_<FLAG>, with the flag name upper
// cased and dashes replaced by underscores:
//
//   - "log-level" is read from LINTCFG_LOG_LEVEL
//   - "format" is read from LINTCFG_FORMAT, for each command that has one
//
// Command line arguments override the environment, which overrides the flag
// default. The variable name is appended to the flag usage.
//
// It must run after all subcommands are added and before arguments are
// parsed.
func bindEnvVars(cmd *cobra.Command) {
	seen := map[*pflag.Flag]bool{}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		bind := func(f *pflag.Flag) {
			if seen[f] {
				return
			}

			seen[f] = true
			bindFlagToEnv(f)
		}

		c.PersistentFlags().VisitAll(bind)
		c.Flags().VisitAll(bind)

		for _, sub := range c.Commands() {
			walk(sub)
		}
	}

	walk(cmd)
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	value, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(value)
	if err != nil {
		// The default stays in place.
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", value),
			slog.Any("error", err),
		)
	}
}

func flagToEnvName(flagName string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
