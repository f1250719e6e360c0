package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Profile holds the CLI defaults persisted between runs.
type Profile struct {
	APIURL     string `toml:"api_url"`
	APIKey     string `toml:"api_key,omitempty"`
	GatewayURL string `toml:"gateway_url,omitempty"`
	Address    string `toml:"address,omitempty"`
}

func defaultProfilePath() string {
	if p := os.Getenv("SUIHOLAR_PROFILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "suiholar.toml"
	}
	return filepath.Join(home, ".config", "suiholar", "profile.toml")
}

func loadProfile(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return p, nil
}

func saveProfile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

// merge fills empty fields of p from fallback.
func (p Profile) merge(fallback Profile) Profile {
	if p.APIURL == "" {
		p.APIURL = fallback.APIURL
	}
	if p.APIKey == "" {
		p.APIKey = fallback.APIKey
	}
	if p.GatewayURL == "" {
		p.GatewayURL = fallback.GatewayURL
	}
	if p.Address == "" {
		p.Address = fallback.Address
	}
	return p
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the saved CLI profile",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the given flags into the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		saved, err := loadProfile(profilePath)
		if err != nil {
			return err
		}
		next := flags.merge(saved)
		if err := saveProfile(profilePath, next); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", profilePath)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p := current
		if p.APIKey != "" {
			p.APIKey = "********"
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(p)
	},
}

func init() {
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
