package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/config"
)

// Flags mirroring the config keys. Values end up in config.Config via viper,
// so nothing here keeps a pointer to them.
func addConfigFlags(set *pflag.FlagSet) {
	set.StringP(config.KeyRepo, "C", config.DefaultRepo, "Path to the git repository to analyze")
	set.StringP(config.KeyBranch, "b", config.DefaultBranch, "Branch or revision to analyze")
	set.String(config.KeyInclude, "", strings.TrimSpace(`
Regular expression selecting files to blame. Only files not excluded by
--exclude are checked. Case-insensitive
	`))
	set.String(config.KeyExclude, "", "Regular expression selecting files to skip. Case-insensitive")
	set.IntP(config.KeyParallel, "p", concurrent.DefaultParallelism(), "Number of blame processes to run in parallel")
	set.StringP(config.KeyOutput, "o", config.DefaultOutput, "File to write results to. Empty to skip writing a file")
	set.Bool(config.KeyVerboseOutput, false, "Write one row per author and file instead of per author and extension")
	set.StringP(config.KeyMerge, "m", "", strings.TrimSpace(`
Author aliases to merge, e.g. "[Jane Doe|jdoe][Bob|bob@work]". The first
alias in each group names the merged author
	`))
	set.Bool(config.KeyStrictAliases, false, "Treat an alias listed in more than one group as an error")
	set.Bool(config.KeyNoCache, false, "Don't read or write the blame cache")
	set.String(config.KeyMetricsFile, "", "Write Prometheus metrics for the run to this file")
	set.String(config.KeyLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn or error")
}
