// cargo-c [path], cargo-c build [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/kleisauke/cargo-c/internal/build"
	"github.com/kleisauke/cargo-c/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagProfile     string
	flagTarget      string
	flagLibraryType EnumValue = NewEnumValue("both", map[string]string{
		"both":      "Build both the static and the shared library",
		"staticlib": "Build only the static library",
		"cdylib":    "Build only the shared library",
	})
)

func libraryTypes() build.LibraryTypes {
	switch flagLibraryType.Value() {
	case "staticlib":
		return build.LibraryTypes{Staticlib: true}
	case "cdylib":
		return build.LibraryTypes{Cdylib: true}
	default:
		return build.LibraryTypes{Staticlib: true, Cdylib: true}
	}
}

func builderFor(args []string) *build.Builder {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	b, err := build.NewBuilderInDirectory(dir, flagTarget)
	if err != nil {
		msg.Fatal("%v", err)
	}
	return b
}

func doBuild(cmd *cobra.Command, args []string) {
	b := builderFor(args)
	if _, err := b.Build(flagProfile, libraryTypes()); err != nil {
		msg.Fatal("%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cargo-c [crate path]",
	Short: "Build and install C-ABI compatible cargo crates",
	Long:  `Build and install C-ABI compatible cargo crates`,
	Args:  cobra.MinimumNArgs(1),
	Run:   doBuild,
}

var buildCmd = &cobra.Command{
	Use:   "build [crate path]",
	Short: "Build the library crate as a C library",
	Long:  `Build the library crate as a C library. If no crate path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doBuild,
}

func init() {
	addBuildFlags(rootCmd)

	// cargo-c build subcommand
	rootCmd.AddCommand(buildCmd)
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagProfile, "profile", "p", "debug", "Build with the given profile")
	cmd.Flags().StringVarP(&flagTarget, "target", "t", "", "Build for the given target triple instead of the host")
	cmd.Flags().VarP(&flagLibraryType, "library-type", "l", "Library types to build, one of "+flagLibraryType.HelpString())
	cmd.RegisterFlagCompletionFunc("library-type", flagLibraryType.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
