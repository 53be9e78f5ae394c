// Package config holds the settings of the nefstar commands. Values
// come from flags, NEFSTAR_* environment variables (a .env file is
// read first) and an optional .nefstar.yaml.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andrew-torda/nefstar/ccd"
	"github.com/andrew-torda/nefstar/coord"
	"github.com/andrew-torda/nefstar/csstat"
	"github.com/andrew-torda/nefstar/translate"
)

// RescueConfig switches the repairs of damaged NMR-STAR input.
type RescueConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	ResetAuthSeq   bool `mapstructure:"reset_auth_seq"`
	AdoptAuthChain bool `mapstructure:"adopt_auth_chain"`
}

// Config is everything a run needs.
type Config struct {
	LeaveUnmatched    bool         `mapstructure:"leave_unmatched"`
	Strict            bool         `mapstructure:"strict"`
	InsertOriginalPDB bool         `mapstructure:"insert_original_pdb_cs_items"`
	BMRBOnly          bool         `mapstructure:"bmrb_only"`
	AllowEmpty        bool         `mapstructure:"allow_empty"`
	Rescue            RescueConfig `mapstructure:"rescue"`
	CCDPath           []string     `mapstructure:"ccd_path"` // TOML files of extra components
	CIFPath           string       `mapstructure:"cif_path"` // coordinates with author labels
	Report            string       `mapstructure:"report"`   // YAML report file, "" for none
	Verbose           bool         `mapstructure:"verbose"`
	Workers           int          `mapstructure:"workers"`
}

// SetDefaults puts the built in values under v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("leave_unmatched", false)
	v.SetDefault("strict", false)
	v.SetDefault("insert_original_pdb_cs_items", false)
	v.SetDefault("bmrb_only", false)
	v.SetDefault("allow_empty", false)
	v.SetDefault("rescue.enabled", false)
	v.SetDefault("rescue.reset_auth_seq", false)
	v.SetDefault("rescue.adopt_auth_chain", false)
	v.SetDefault("ccd_path", []string{})
	v.SetDefault("cif_path", "")
	v.SetDefault("report", "")
	v.SetDefault("verbose", false)
	v.SetDefault("workers", runtime.NumCPU())
}

// Init tells v where to look. file may name a config file; otherwise
// .nefstar.yaml is looked for here and in the home directory. A
// missing file is not an error.
func Init(v *viper.Viper, file string) error {
	_ = godotenv.Load()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".nefstar")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix("NEFSTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load unpacks v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Stat builds the component dictionary, with any extra components,
// and the shift statistics over it.
func (c Config) Stat() (*csstat.Stat, error) {
	d, err := ccd.Load(c.CCDPath...)
	if err != nil {
		return nil, err
	}
	return csstat.New(d), nil
}

// Options gives the translator options. The coordinates are read here
// if there are any.
func (c Config) Options(lg *log.Logger) (translate.Options, error) {
	o := translate.Options{
		LeaveUnmatched:    c.LeaveUnmatched,
		InsertOriginalPDB: c.InsertOriginalPDB,
		BMRBOnly:          c.BMRBOnly,
		AllowEmpty:        c.AllowEmpty,
		Strict:            c.Strict,
		Rescue:            c.Rescue.Enabled,
		ResetAuthSeq:      c.Rescue.ResetAuthSeq,
		AdoptAuthChain:    c.Rescue.AdoptAuthChain,
		Verbose:           c.Verbose,
		Logger:            lg,
	}
	if c.CIFPath != "" {
		m, err := coord.ReadFile(c.CIFPath)
		if err != nil {
			return o, fmt.Errorf("coordinates: %w", err)
		}
		o.Coords = m
	}
	return o, nil
}
