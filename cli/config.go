package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/contribsys/binheap/util"
	"github.com/pkg/errors"
)

/*
LoadConfig reads a TOML file into a map of subsystem tables, e.g.

	[heap]
	type = "max"

	[redis]
	url = "redis://localhost:6379/2"
*/
func LoadConfig(path string) (map[string]any, error) {
	cfg := map[string]any{}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "Unable to parse config file %s", path)
	}
	util.Debugf("Loaded config from %s", path)
	return cfg, nil
}

func (opts *CmdOptions) String(subsys string, key string, defval string) string {
	val := opts.Config(subsys, key, defval)
	str, ok := val.(string)
	if !ok {
		util.Warnf("Config error: %s/%s is not a String", subsys, key)
		return defval
	}
	return str
}

func (opts *CmdOptions) Int(subsys string, key string, defval int) int {
	val := opts.Config(subsys, key, defval)
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		util.Warnf("Config error: %s/%s is not an Integer", subsys, key)
		return defval
	}
}

func (opts *CmdOptions) Config(subsys string, key string, defval any) any {
	mapp, ok := opts.GlobalConfig[subsys]
	if !ok {
		return defval
	}

	maps, ok := mapp.(map[string]any)
	if !ok {
		util.Warnf("Invalid configuration, expected a %s subsystem, using default", subsys)
		return defval
	}

	val, ok := maps[key]
	if !ok {
		return defval
	}
	return val
}
