// cargo-c install [path]
package cmd

import (
	"github.com/kleisauke/cargo-c/internal/install"
	"github.com/kleisauke/cargo-c/internal/msg"
	"github.com/spf13/cobra"
)

var (
	flagDestdir      string
	flagPrefix       string
	flagLibdir       string
	flagIncludedir   string
	flagBindir       string
	flagDatadir      string
	flagPkgconfigdir string
)

func doInstall(cmd *cobra.Command, args []string) {
	b := builderFor(args)
	bt, err := b.Build(flagProfile, libraryTypes())
	if err != nil {
		msg.Fatal("%v", err)
	}

	paths := install.Paths{
		Destdir:      flagDestdir,
		Prefix:       flagPrefix,
		Libdir:       flagLibdir,
		Includedir:   flagIncludedir,
		Bindir:       flagBindir,
		Datadir:      flagDatadir,
		Pkgconfigdir: flagPkgconfigdir,
	}
	if err := install.Install(bt, paths, b.Manifest().Capi.Header.Subdirectory); err != nil {
		msg.Fatal("%v", err)
	}
}

var installCmd = &cobra.Command{
	Use:   "install [crate path]",
	Short: "Build and install the C library",
	Long:  `Build the library crate and install the C library artifacts. If no crate path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doInstall,
}

func init() {
	// cargo-c install subcommand
	rootCmd.AddCommand(installCmd)
	addBuildFlags(installCmd)
	installCmd.Flags().StringVar(&flagDestdir, "destdir", "", "Stage the install under this directory")
	installCmd.Flags().StringVar(&flagPrefix, "prefix", "/usr/local", "Install prefix")
	installCmd.Flags().StringVar(&flagLibdir, "libdir", "", "Library directory (default $prefix/lib)")
	installCmd.Flags().StringVar(&flagIncludedir, "includedir", "", "Header directory (default $prefix/include)")
	installCmd.Flags().StringVar(&flagBindir, "bindir", "", "Binary directory (default $prefix/bin)")
	installCmd.Flags().StringVar(&flagDatadir, "datadir", "", "Data directory (default $prefix/share)")
	installCmd.Flags().StringVar(&flagPkgconfigdir, "pkgconfigdir", "", "pkg-config directory (default $libdir/pkgconfig)")
}
