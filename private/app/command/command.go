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

// Package command contains cobra subcommands shared by the binaries.
package command

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/tunnelwatch/mplsliveness/private/config"
)

// Pather returns the command path of the parent command. It is used to
// render examples that refer to sibling commands.
type Pather interface {
	CommandPath() string
}

// StringPather is a Pather with a fixed path.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// NewSample returns the "sample" command. The given subcommands are added
// to it.
func NewSample(pather Pather, samplers ...func(Pather) *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display sample files",
		Args:  cobra.NoArgs,
	}
	for _, s := range samplers {
		cmd.AddCommand(s(cmd))
	}
	return cmd
}

// NewSampleConfig returns a sampler subcommand that prints a sample of cfg
// as TOML.
func NewSampleConfig(cfg config.Sampler, ctx config.CtxMap) func(Pather) *cobra.Command {
	return func(p Pather) *cobra.Command {
		return &cobra.Command{
			Use:     "config",
			Short:   "Display sample configuration file",
			Example: "  " + p.CommandPath() + " config > agent.toml",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				config.WriteSample(cmd.OutOrStdout(), nil, ctx, cfg)
				return nil
			},
		}
	}
}

// NewSampleFile returns a sampler subcommand with the given name that
// writes a sample file with write.
func NewSampleFile(name, short string, write func(io.Writer) error) func(Pather) *cobra.Command {
	return func(p Pather) *cobra.Command {
		return &cobra.Command{
			Use:     name,
			Short:   short,
			Example: "  " + p.CommandPath() + " " + name,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return write(cmd.OutOrStdout())
			},
		}
	}
}
