package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	. "github.com/andrew-torda/nefstar/pkg/common"
	"github.com/andrew-torda/nefstar/pkg/config"
	"github.com/andrew-torda/nefstar/pkg/nefstar"
	"github.com/andrew-torda/nefstar/schema"
	"github.com/andrew-torda/nefstar/translate"
)

var exitCode = ExitSuccess

var rootCmd = &cobra.Command{
	Use:           "nefstar",
	Short:         "Translate NMR data between NEF and NMR-STAR",
	Version:       translate.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// flags maps flag names to config keys.
var flags = map[string]string{
	"leave-unmatched":     "leave_unmatched",
	"strict":              "strict",
	"insert-original-pdb": "insert_original_pdb_cs_items",
	"bmrb-only":           "bmrb_only",
	"allow-empty":         "allow_empty",
	"rescue":              "rescue.enabled",
	"reset-auth-seq":      "rescue.reset_auth_seq",
	"adopt-auth-chain":    "rescue.adopt_auth_chain",
	"ccd":                 "ccd_path",
	"cif":                 "cif_path",
	"report":              "report",
	"verbose":             "verbose",
	"workers":             "workers",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .nefstar.yaml)")
	pf.Bool("leave-unmatched", false, "keep atom names that cannot be expanded")
	pf.Bool("strict", false, "stop at the first error")
	pf.Bool("insert-original-pdb", false, "keep NEF atom names in the Original_PDB shift columns")
	pf.Bool("bmrb-only", false, "keep residue numbers that are already positive")
	pf.Bool("allow-empty", false, "missing mandatory loops are only warnings")
	pf.Bool("rescue", false, "allow repairs of damaged NMR-STAR")
	pf.Bool("reset-auth-seq", false, "renumber STAR residues from the coordinates (needs --rescue and --cif)")
	pf.Bool("adopt-auth-chain", false, "fill empty STAR chains from the author chains (needs --rescue)")
	pf.StringSlice("ccd", nil, "TOML files of extra chemical components")
	pf.String("cif", "", "coordinates with the author chain and residue labels")
	pf.String("report", "", "write a YAML report here")
	pf.BoolP("verbose", "v", false, "say more")
	pf.IntP("workers", "j", 0, "files translated at once (default: number of CPUs)")
	for flag, key := range flags {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		convertCmd("nef2star", "Translate a NEF file into NMR-STAR", schema.STAR),
		convertCmd("star2nef", "Translate an NMR-STAR file into NEF", schema.NEF),
		batchCmd, watchCmd, validateCmd,
	)
}

// setup reads the config and makes the runner.
func setup(cmd *cobra.Command) (*nefstar.Runner, error) {
	file, _ := cmd.Flags().GetString("config")
	v := viper.GetViper()
	if err := config.Init(v, file); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return nefstar.NewRunner(cfg, log.New(os.Stderr, "nefstar: ", 0))
}

func convertCmd(use, short string, to schema.Dialect) *cobra.Command {
	return &cobra.Command{
		Use:   use + " input [output]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := setup(cmd)
			if err != nil {
				return err
			}
			j := nefstar.Job{In: args[0], To: to}
			if len(args) > 1 {
				j.Out = args[1]
			}
			exitCode = r.Run(cmd.Context(), []nefstar.Job{j})
			return nil
		},
	}
}

var batchOut string

var batchCmd = &cobra.Command{
	Use:   "batch files...",
	Short: "Translate many files, each into the dialect it is not in",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := setup(cmd)
		if err != nil {
			return err
		}
		jobs := make([]nefstar.Job, len(args))
		for i, a := range args {
			jobs[i] = nefstar.Job{In: a, OutDir: batchOut, Auto: true}
		}
		exitCode = r.Run(cmd.Context(), jobs)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch dir outdir",
	Short: "Translate files as they arrive in a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return r.Watch(ctx, args[0], args[1])
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate files...",
	Short: "Check files without translating them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := setup(cmd)
		if err != nil {
			return err
		}
		exitCode = r.Validate(args, os.Stdout)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "outdir", "o", "", "directory for the output (default: next to each input)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsageError)
	}
	os.Exit(exitCode)
}
