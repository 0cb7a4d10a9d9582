// solbuild abi <file>, solbuild bin <file>
package cmd

import (
	"fmt"
	"os"

	"github.com/solbuild/solbuild/internal/msg"
	"github.com/solbuild/solbuild/internal/project"
	"github.com/solbuild/solbuild/internal/solc"
	"github.com/spf13/cobra"
)

var artifactProject string

func openLocator() *solc.Solc {
	p, err := project.Load(artifactProject, "debug")
	if err != nil {
		msg.Fatal("%v", err)
	}
	s, err := p.Locator("")
	if err != nil {
		msg.Fatal("%v", err)
	}
	return s
}

var abiCmd = &cobra.Command{
	Use:   "abi <file>",
	Short: "Print an ABI artifact from the output directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := openLocator().LoadABI(args[0])
		if err != nil {
			msg.Fatal("%v", err)
		}
		os.Stdout.Write(data)
	},
}

var binCmd = &cobra.Command{
	Use:   "bin <file>",
	Short: "Print linked bytecode from the output directory",
	Long:  `Print linked bytecode from the output directory. Fails on unlinked output, which still contains placeholder markers.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := openLocator().LoadBytecode(args[0])
		if err != nil {
			msg.Fatal("%v", err)
		}
		fmt.Printf("%x\n", code)
	},
}

func init() {
	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(binCmd)
	for _, c := range []*cobra.Command{abiCmd, binCmd} {
		c.Flags().StringVarP(&artifactProject, "project", "C", ".", "Project directory")
	}
}
