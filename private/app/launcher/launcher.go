// Copyright 2020 Anapaya Systems
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

// Package launcher contains the harness shared by the long running
// binaries: command line parsing, config loading, logging setup and signal
// handling.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/prom"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/private/app/command"
	libconfig "github.com/tunnelwatch/mplsliveness/private/config"
	"github.com/tunnelwatch/mplsliveness/private/env"
)

// Configuration keys used by the launcher.
const (
	cfgConfigFile       = "config"
	cfgLogConsoleLevel  = "log.console.level"
	cfgLogConsoleFormat = "log.console.format"
	cfgGeneralID        = "general.id"
)

// Application models a long running application.
type Application struct {
	// TOMLConfig holds the application specific TOML configuration. It is
	// loaded from the file passed with --config before Main is called.
	TOMLConfig libconfig.Config

	// Samplers contains additional sample subcommands. The sample of
	// TOMLConfig is always available as "sample config".
	Samplers []func(command.Pather) *cobra.Command

	// Commands contains additional subcommands of the root command.
	Commands []func(command.Pather) *cobra.Command

	// ShortName is the short name of the application. If empty, the
	// executable name is used.
	ShortName string

	// Main is the custom logic of the application. If nil, only the
	// setup/teardown harness runs. The context is canceled on SIGINT or
	// SIGTERM.
	Main func(ctx context.Context) error

	// ErrorWriter specifies where error output should be printed. If nil,
	// os.Stderr is used.
	ErrorWriter io.Writer

	config *viper.Viper
}

// Run sets up the harness and passes control to Main. It exits the
// process if it encounters a fatal error.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		// If the main goroutine shuts down everything in time, this won't
		// get a chance to run.
		time.AfterFunc(env.ShutdownGraceInterval, func() {
			defer log.HandlePanic()
			panic(fmt.Sprintf("Main goroutine did not shut down in time (waited %v). "+
				"It's probably stuck. Forcing shutdown.", env.ShutdownGraceInterval))
		})
	}()

	if err := a.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(a.getErrorWriter(), "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// Execute runs the application with the given command line arguments.
func (a *Application) Execute(ctx context.Context, args []string) error {
	executable := filepath.Base(os.Args[0])
	shortName := a.getShortName(executable)

	cmd := a.newCommand(executable, shortName)
	cmd.SetArgs(args)
	cmd.SetErr(a.getErrorWriter())
	return cmd.ExecuteContext(ctx)
}

func (a *Application) newCommand(executable, shortName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           executable,
		Short:         shortName,
		Example:       fmt.Sprintf("  %s --config agent.toml", executable),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.executeCommand(cmd.Context(), shortName)
		},
	}
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	if err := cmd.MarkFlagRequired(cfgConfigFile); err != nil {
		panic(err)
	}
	samplers := append([]func(command.Pather) *cobra.Command{
		command.NewSampleConfig(a.TOMLConfig, libconfig.CtxMap{libconfig.ID: executable}),
	}, a.Samplers...)
	cmd.AddCommand(
		command.NewSample(cmd, samplers...),
		command.NewGendocs(cmd),
	)
	for _, c := range a.Commands {
		cmd.AddCommand(c(cmd))
	}

	a.config = viper.New()
	a.config.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	a.config.SetDefault(cfgLogConsoleFormat, log.DefaultConsoleFormat)
	a.config.SetDefault(cfgGeneralID, executable)
	// The config file location is only known once the flags are parsed.
	if err := a.config.BindPFlag(cfgConfigFile, cmd.Flags().Lookup(cfgConfigFile)); err != nil {
		panic(err)
	}
	return cmd
}

func (a *Application) executeCommand(ctx context.Context, shortName string) error {
	os.Setenv("TZ", "UTC")

	// Load launcher configurations from the same config file as the custom
	// application configuration.
	file := a.config.GetString(cfgConfigFile)
	a.config.SetConfigType("toml")
	a.config.SetConfigFile(file)
	if err := a.config.ReadInConfig(); err != nil {
		return serrors.Wrap("loading generic server config from file", err, "file", file)
	}
	if err := libconfig.LoadFile(file, a.TOMLConfig); err != nil {
		return serrors.Wrap("loading config from file", err, "file", file)
	}
	a.TOMLConfig.InitDefaults()

	if err := log.Setup(a.getLogging()); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()
	id := a.config.GetString(cfgGeneralID)
	env.LogAppStarted(shortName, id)
	defer env.LogAppStopped(shortName, id)
	defer log.HandlePanic()

	prom.ExportElementID(prometheus.DefaultRegisterer, id)
	if err := a.TOMLConfig.Validate(); err != nil {
		return serrors.Wrap("validate config", err)
	}
	if a.Main == nil {
		return nil
	}
	return a.Main(ctx)
}

func (a *Application) getLogging() log.Config {
	return log.Config{
		Console: log.ConsoleConfig{
			Level:  a.config.GetString(cfgLogConsoleLevel),
			Format: a.config.GetString(cfgLogConsoleFormat),
		},
	}
}

func (a *Application) getShortName(executable string) string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return executable
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
