package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	publishName string

	accessProject string
	accessOut     string
)

var publishCmd = &cobra.Command{
	Use:   "publish <file>",
	Short: "Encrypt an article, upload it to Walrus and register its key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		name := publishName
		if name == "" {
			name = filepath.Base(args[0])
		}
		pub, err := newPublisher().Publish(cmd.Context(), name, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "blobId: %s\nfile:   %s\nsize:   %d\n", pub.BlobID, pub.FileName, pub.Size)
		return nil
	},
}

var accessCmd = &cobra.Command{
	Use:   "access <blobId>",
	Short: "Fetch and decrypt an article you have funded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if accessProject == "" {
			return fmt.Errorf("--project is required")
		}
		if current.Address == "" {
			return fmt.Errorf("--address is required (or set it with profile set)")
		}
		plain, err := newPublisher().Access(cmd.Context(), accessProject, args[0], current.Address)
		if err != nil {
			return err
		}

		out := accessOut
		if out == "" {
			out = strings.TrimSuffix(args[0], "/") + ".pdf"
		}
		if err := os.WriteFile(out, plain, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(plain))
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishName, "name", "", "file name to upload under (default: base name of <file>)")
	accessCmd.Flags().StringVar(&accessProject, "project", "", "project id")
	accessCmd.Flags().StringVarP(&accessOut, "out", "o", "", "output file (default: <blobId>.pdf)")
	rootCmd.AddCommand(publishCmd, accessCmd)
}
