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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/log/testlog"
	"github.com/tunnelwatch/mplsliveness/private/config"
)

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg log.Config
	config.WriteSample(&sample, nil, nil, &cfg)

	var decoded struct {
		Log log.Config `toml:"log"`
	}
	err := toml.NewDecoder(bytes.NewReader(sample.Bytes())).DisallowUnknownFields().
		Decode(&decoded)
	require.NoError(t, err, sample.String())
	assert.Equal(t, log.DefaultConsoleLevel, decoded.Log.Console.Level)
	assert.Equal(t, log.DefaultConsoleFormat, decoded.Log.Console.Format)
}

func TestConfigValidate(t *testing.T) {
	testCases := map[string]struct {
		console   log.ConsoleConfig
		assertErr assert.ErrorAssertionFunc
	}{
		"defaults":     {assertErr: assert.NoError},
		"debug json":   {console: log.ConsoleConfig{Level: "debug", Format: "json"}, assertErr: assert.NoError},
		"upper case":   {console: log.ConsoleConfig{Level: "ERROR"}, assertErr: assert.NoError},
		"bad level":    {console: log.ConsoleConfig{Level: "loud"}, assertErr: assert.Error},
		"warn refused": {console: log.ConsoleConfig{Level: "warn"}, assertErr: assert.Error},
		"bad format":   {console: log.ConsoleConfig{Format: "xml"}, assertErr: assert.Error},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := log.Config{Console: tc.console}
			cfg.InitDefaults()
			tc.assertErr(t, cfg.Validate())
		})
	}
}

func TestFromCtx(t *testing.T) {
	assert.NotNil(t, log.FromCtx(context.Background()))

	logger, logs := testlog.NewObserved()
	ctx := log.CtxWith(context.Background(), logger)
	ctx, labeled := log.WithLabels(ctx, "peer", "10.0.0.2")
	assert.Same(t, labeled, log.FromCtx(ctx))

	log.FromCtx(ctx).Info("hello", "tunnel_key", 7)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, map[string]any{"peer": "10.0.0.2", "tunnel_key": int64(7)},
		entry.ContextMap())
}
