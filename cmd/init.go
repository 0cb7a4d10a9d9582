// solbuild init [name], solbuild new [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/solbuild/solbuild/internal/msg"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "solbuild"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn initializes a project in an existing specified directory
func initIn(dir, name string) {
	if template != "" {
		if err := cloneTemplate(template, dir); err != nil {
			msg.Fatal("fetch template %s: %v", template, err)
		}
	} else {
		// Solbuild.toml
		writefile(`[package]
name = "`+name+`"
description = "This is where I make a contract."
authors = ["AzureDiamond"]

[contract]
sources = ["contracts/**.sol"]

[output]
dir = "build"
overwrite = true
`, dir, "Solbuild.toml")

		mkdir(dir, "contracts")

		// contracts/Greeter.sol
		writefile(`// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

contract Greeter {
    string public greeting;

    constructor() {
        greeting = "Hello, World!";
    }

    function greet() public view returns (string memory) {
        return greeting;
    }
}
`, dir, "contracts", "Greeter.sol")
	}

	// .gitignore
	writefile(`build/
`, dir, ".gitignore")

	programName := getProgramName()
	fmt.Printf("You can now do %s to compile.\n", color.HiCyanString(programName+" "+dir))
}

var template string

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new project in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0])
	},
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create a new project in a new directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], filepath.Base(args[0]))
	},
}

func init() {
	// solbuild init subcommand
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&template, "template", "t", "", "Scaffold from a git template (gh:user/repo, git:<url>, ...)")

	// solbuild new subcommand
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&template, "template", "t", "", "Scaffold from a git template (gh:user/repo, git:<url>, ...)")
}
