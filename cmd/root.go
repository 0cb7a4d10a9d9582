// solbuild [path], solbuild compile [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/solbuild/solbuild/internal/msg"
	"github.com/solbuild/solbuild/internal/project"
	"github.com/spf13/cobra"
)

var (
	flagProfile   string
	flagOutputDir string
	flagOverwrite bool
	flagForce     bool
	flagDryRun    bool
	flagMode      EnumValue = NewEnumValue("manifest", map[string]string{
		"manifest": "Use the packaging mode from Solbuild.toml (default)",
		"separate": "One output file per artifact",
		"combined": "Single combined JSON manifest",
	})
)

func doCompile(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	p, err := project.Load(target, flagProfile)
	if err != nil {
		msg.Fatal("%v", err)
	}

	mode := flagMode.Value()
	if mode == "manifest" {
		mode = ""
	}
	err = p.Compile(cmd.Context(), project.Options{
		Profile:   flagProfile,
		OutputDir: flagOutputDir,
		Mode:      mode,
		Overwrite: flagOverwrite,
		Force:     flagForce,
		DryRun:    flagDryRun,
	})
	if err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "solbuild [project path]",
	Short: "Solidity compile driver",
	Long:  `Drives solc from a Solbuild.toml manifest`,
	Args:  cobra.MinimumNArgs(1),
	Run:   doCompile,
}

var compileCmd = &cobra.Command{
	Use:   "compile [project path]",
	Short: "Compile the project",
	Long:  `Compile the project. If no project path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doCompile,
}

func init() {
	addCompileFlags(rootCmd)

	// solbuild compile subcommand
	rootCmd.AddCommand(compileCmd)
	addCompileFlags(compileCmd)
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagProfile, "profile", "p", "debug", "Compile with the given profile")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Override the artifact output directory")
	cmd.Flags().VarP(&flagMode, "mode", "m", "Packaging mode, one of "+flagMode.HelpString())
	cmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Allow solc to overwrite existing artifacts")
	cmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Compile even if nothing changed")
	cmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Print the solc command line without running it")
	cmd.RegisterFlagCompletionFunc("mode", flagMode.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
