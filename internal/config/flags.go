package config

import (
	flagpkg "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PFlags adapts a *pflag.FlagSet (as cobra exposes on cmd.Flags()) to the
// FlagBinder interface Load expects.
type PFlags struct {
	Set *flagpkg.FlagSet
}

// flagKeys maps each dashed CLI flag name to the underscored mapstructure
// key it overrides. BindPFlags binds a flag under its own Name verbatim, so
// a flag named "grid-width" would otherwise shadow a completely different
// viper key than "grid_width" — this table keeps the conventional dashed
// flag spelling while still landing on the right Config field.
var flagKeys = map[string]string{
	"grid-width":     "grid_width",
	"grid-height":    "grid_height",
	"tick-rate-hz":   "tick_rate_hz",
	"robot-count":    "robot_count",
	"gui":            "gui",
	"telemetry-addr": "telemetry_addr",
}

// BindTo binds every known flag in the set into v under its mapstructure
// key, so a flag the caller actually set on the command line takes
// precedence over file/env/defaults.
func (p PFlags) BindTo(v *viper.Viper) error {
	for name, key := range flagKeys {
		f := p.Set.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
