// Command xtestdata-pack is the developer-side pack-and-ship tool: it
// packages a source tree, records exactly the VCS objects its tests
// demand, and can later reproduce that test run against the packaged
// result. See the xtestdata package for the runtime half of this system.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HeroicKatora/xtest-data-go/internal/diag"
	"github.com/HeroicKatora/xtest-data-go/internal/orchestrator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		diag.Abort(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xtestdata-pack",
		Short:         "package, archive, and reproduce xtest-data fixture runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCiCmd())
	root.AddCommand(newPackageCmd())
	root.AddCommand(newFetchArtifactsCmd())
	root.AddCommand(newTestCmd())
	return root
}

func newPackageCmd() *cobra.Command {
	var path string
	var allowDirty bool
	cmd := &cobra.Command{
		Use:     "package",
		Aliases: []string{"pack"},
		Short:   "package and archive the pack-objects for the current commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := orchestrator.Pack(path, allowDirty)
			if err != nil {
				return err
			}
			archivePath, err := orchestrator.Archive(result.PackObjects, os.TempDir())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.CratePath)
			fmt.Fprintln(cmd.OutOrStdout(), archivePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "source tree to package")
	cmd.Flags().BoolVar(&allowDirty, "allow-dirty", false, "allow packaging a dirty working copy")
	return cmd
}

func newCiCmd() *cobra.Command {
	var path string
	var allowDirty bool
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "package, archive, unpack, re-test, and emit the artifact path",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := orchestrator.Pack(path, allowDirty)
			if err != nil {
				return err
			}
			archivePath, err := orchestrator.Archive(result.PackObjects, os.TempDir())
			if err != nil {
				return err
			}
			if _, err := orchestrator.RunTestPass(result.CratePath, result.PinPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), archivePath)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", ".", "source tree to package")
	cmd.Flags().BoolVar(&allowDirty, "allow-dirty", false, "allow packaging a dirty working copy")
	return cmd
}

func newFetchArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch-artifacts <crate-path> [pack-artifact] [output]",
		Short: "obtain or unpack a pack-objects artifact, emitting its path",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var artifactURL, output string
			if len(args) > 1 {
				artifactURL = args[1]
			}
			if len(args) > 2 {
				output = args[2]
			}
			packObjects, err := orchestrator.FetchArtifacts(args[0], artifactURL, output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), packObjects)
			return nil
		},
	}
	return cmd
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [crate-path] [pack-artifact]",
		Short: "reproduce a downstream test run against a packaged crate",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cratePath := "."
			if len(args) > 0 {
				cratePath = args[0]
			}
			tmpRoot, err := orchestrator.RunTestPass(cratePath, "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tmpRoot)
			return nil
		},
	}
	return cmd
}
