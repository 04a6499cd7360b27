// cargo-c init [name]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kleisauke/cargo-c/internal/msg"
	"github.com/kleisauke/cargo-c/internal/template"
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
		return "cargo-c"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

// initIn initializes a C-ABI library crate in an existing specified directory
func initIn(dir, name string) {
	if fromTemplate != "" {
		if err := template.Clone(fromTemplate, dir); err != nil {
			msg.Fatal("fetch template %s: %v", fromTemplate, err)
		}
	}

	libname := strings.ReplaceAll(name, "-", "_")

	// Cargo.toml
	writefile(`[package]
name = "`+name+`"
version = "0.1.0"
description = "A C-ABI compatible library."
edition = "2021"

[lib]
name = "`+libname+`"

[package.metadata.capi.header]
name = "`+libname+`"
subdirectory = "`+libname+`"

[package.metadata.capi.pkg_config]
filename = "`+libname+`"
`, dir, "Cargo.toml")

	mkdir(dir, "src")

	// src/lib.rs
	writefile(`#[no_mangle]
pub extern "C" fn `+libname+`_hello() {
    println!("Hello, World!");
}
`, dir, "src", "lib.rs")

	// cbindgen.toml
	writefile(`language = "C"
include_guard = "`+strings.ToUpper(libname)+`_H"
`, dir, "cbindgen.toml")

	// .gitignore
	writefile(`target/
`, dir, ".gitignore")

	programName := getProgramName()
	fmt.Printf("You can now do %s to build, or %s to build and install.\n",
		color.HiCyanString(programName+" build "+dir), color.HiCyanString(programName+" install "+dir))
}

var fromTemplate string

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new library crate in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0])
	},
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create a new library crate in a new directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], filepath.Base(args[0]))
	},
}

func init() {
	// cargo-c init subcommand
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&fromTemplate, "from", "", "Start from a git template repository")

	// cargo-c new subcommand
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&fromTemplate, "from", "", "Start from a git template repository")
}
