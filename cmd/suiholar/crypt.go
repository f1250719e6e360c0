package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suiholar/research-dao-backend/internal/cryptobox"
)

var (
	cryptOut string
	cryptKey string
	cryptIV  string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypt a file locally and print its base64 key and iv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		key, err := cryptobox.NewKey()
		if err != nil {
			return err
		}
		sealed, err := key.Seal(plain)
		if err != nil {
			return err
		}
		out := cryptOut
		if out == "" {
			out = args[0] + ".enc"
		}
		if err := os.WriteFile(out, sealed, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "file: %s\nkey:  %s\niv:   %s\n", out, key.EncodedKey(), key.EncodedIV())
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file>",
	Short: "Decrypt a file with a base64 key and iv",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := cryptobox.ParseKey(cryptKey, cryptIV)
		if err != nil {
			return err
		}
		sealed, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		plain, err := key.Open(sealed)
		if err != nil {
			return err
		}
		if cryptOut == "" {
			_, err = cmd.OutOrStdout().Write(plain)
			return err
		}
		return os.WriteFile(cryptOut, plain, 0o600)
	},
}

func init() {
	encryptCmd.Flags().StringVarP(&cryptOut, "out", "o", "", "output file (default: <file>.enc)")
	decryptCmd.Flags().StringVarP(&cryptOut, "out", "o", "", "output file (default: stdout)")
	decryptCmd.Flags().StringVar(&cryptKey, "key", "", "base64 AES-256 key")
	decryptCmd.Flags().StringVar(&cryptIV, "iv", "", "base64 12-byte iv")
	_ = decryptCmd.MarkFlagRequired("key")
	_ = decryptCmd.MarkFlagRequired("iv")
	rootCmd.AddCommand(encryptCmd, decryptCmd)
}
