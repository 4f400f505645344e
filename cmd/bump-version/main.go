package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"pdfo/internal/version"

	"github.com/spf13/cobra"
)

// newRootCmd builds the bump-version command.
func newRootCmd() *cobra.Command {
	var (
		file    string
		bump    string
		current bool
	)

	cmd := &cobra.Command{
		Use:   "bump-version",
		Short: "Bump the semantic version in pyproject.toml",
		Long: `Reads the version = "X.Y.Z" line of a project manifest, increments
the requested component and writes it back. The new version is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if current {
				v, err := version.ReadFile(file)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
				return nil
			}

			if bump == "" {
				return errors.New("--bump is required unless --current is set")
			}
			part, err := version.ParsePart(bump)
			if err != nil {
				return err
			}

			next, err := version.BumpFile(file, part)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, next)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", version.DefaultManifest, "path to pyproject.toml")
	cmd.Flags().StringVar(&bump, "bump", "", "bump type: major, minor or patch")
	cmd.Flags().BoolVar(&current, "current", false, "print current version")

	return cmd
}

// execute runs the command with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
