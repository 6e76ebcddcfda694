// Copyright 2026 The mplsliveness Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package launcher_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/private/app/command"
	"github.com/tunnelwatch/mplsliveness/private/app/launcher"
	"github.com/tunnelwatch/mplsliveness/private/config"
	"github.com/tunnelwatch/mplsliveness/private/env"
)

type testConfig struct {
	General env.General `toml:"general,omitempty"`
	Logging log.Config  `toml:"log,omitempty"`
}

func (cfg *testConfig) InitDefaults() {
	config.InitAll(&cfg.General, &cfg.Logging)
}

func (cfg *testConfig) Validate() error {
	return config.ValidateAll(&cfg.General, &cfg.Logging)
}

func (cfg *testConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &cfg.General, &cfg.Logging)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "agent.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestExecuteRunsMain(t *testing.T) {
	var cfg testConfig
	var called bool
	app := launcher.Application{
		TOMLConfig: &cfg,
		Main: func(ctx context.Context) error {
			called = true
			return nil
		},
	}
	file := writeConfig(t, `
[general]
id = "agent-7"

[log.console]
level = "debug"
`)
	require.NoError(t, app.Execute(context.Background(), []string{"--config", file}))
	assert.True(t, called)
	assert.Equal(t, "agent-7", cfg.General.ID)
	assert.Equal(t, "debug", cfg.Logging.Console.Level)
	assert.Equal(t, "human", cfg.Logging.Console.Format)
}

func TestExecuteErrors(t *testing.T) {
	testCases := map[string]struct {
		args func(t *testing.T) []string
	}{
		"missing flag": {
			args: func(*testing.T) []string { return nil },
		},
		"missing file": {
			args: func(t *testing.T) []string {
				return []string{"--config", filepath.Join(t.TempDir(), "none.toml")}
			},
		},
		"unknown key": {
			args: func(t *testing.T) []string {
				return []string{"--config", writeConfig(t, "[general]\nname = \"x\"\n")}
			},
		},
		"invalid log level": {
			args: func(t *testing.T) []string {
				return []string{"--config", writeConfig(t, "[log.console]\nlevel = \"loud\"\n")}
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			app := launcher.Application{
				TOMLConfig: &testConfig{},
				Main: func(context.Context) error {
					t.Fatal("main must not run")
					return nil
				},
				ErrorWriter: io.Discard,
			}
			assert.Error(t, app.Execute(context.Background(), tc.args(t)))
		})
	}
}

func TestSampleConfig(t *testing.T) {
	var out bytes.Buffer
	app := launcher.Application{
		TOMLConfig: &testConfig{},
		Commands: []func(command.Pather) *cobra.Command{
			func(command.Pather) *cobra.Command {
				return &cobra.Command{Use: "noop", Run: func(*cobra.Command, []string) {}}
			},
		},
	}
	// The sample command writes to stdout of the root command.
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	err = app.Execute(context.Background(), []string{"sample", "config"})
	os.Stdout = stdout
	require.NoError(t, w.Close())
	require.NoError(t, err)
	_, err = out.ReadFrom(r)
	require.NoError(t, err)

	var cfg testConfig
	require.NoError(t, config.Decode(out.Bytes(), &cfg))
	cfg.InitDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Console.Level)

	assert.NoError(t, app.Execute(context.Background(), []string{"noop"}))
}
