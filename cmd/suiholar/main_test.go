package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.toml")

	p, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)

	want := Profile{APIURL: "https://dao.example", APIKey: "k", Address: "0xabc"}
	require.NoError(t, saveProfile(path, want))
	got, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	merged := Profile{Address: "0xflag"}.merge(got).merge(defaults)
	assert.Equal(t, "0xflag", merged.Address)
	assert.Equal(t, "https://dao.example", merged.APIURL)
	assert.Equal(t, defaults.GatewayURL, merged.GatewayURL)
}

func TestEncryptDecryptCommands(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.toml")
	in := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF results"), 0o600))

	out := run(t, "--profile", profile, "encrypt", in)
	fields := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		k, v, ok := strings.Cut(line, ":")
		require.True(t, ok, line)
		fields[k] = strings.TrimSpace(v)
	}
	assert.Equal(t, in+".enc", fields["file"])

	plainOut := filepath.Join(dir, "plain.pdf")
	run(t, "--profile", profile, "decrypt", fields["file"], "--key", fields["key"], "--iv", fields["iv"], "-o", plainOut)
	got, err := os.ReadFile(plainOut)
	require.NoError(t, err)
	assert.Equal(t, "%PDF results", string(got))
}
