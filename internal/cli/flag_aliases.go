package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var reportFlagAliases = map[string]string{
	"skip-email": "no-email",
	"skip_email": "no-email",
	"assume-yes": "yes",
}

func addReportFlagAliases(cmd *cobra.Command) {
	setFlagAliases(cmd.Flags(), reportFlagAliases)
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
