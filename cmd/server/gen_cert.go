package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"connectly/internal/certgen"
)

var certOutDir string

var genCertCmd = &cobra.Command{
	Use:   "gen-cert",
	Short: "Write a self-signed certificate for local HTTPS",
	Long: `Write cert.pem and key.pem for localhost and 127.0.0.1, valid for one
year. Point TLS_CERT_FILE and TLS_KEY_FILE at them to serve HTTPS.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		certPath, keyPath, err := certgen.WriteFiles(certOutDir, certgen.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "TLS_CERT_FILE=%s\nTLS_KEY_FILE=%s\n", certPath, keyPath)
		return nil
	},
}

func init() {
	genCertCmd.Flags().StringVarP(&certOutDir, "out", "o", ".", "output directory")
}
