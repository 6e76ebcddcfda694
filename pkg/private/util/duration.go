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

package util

import (
	"strconv"
	"strings"
	"time"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// ParseDuration parses a duration. In addition to the units understood by
// time.ParseDuration it accepts a single integer followed by "d" (days) or
// "w" (weeks). An empty string is rejected.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, serrors.New("empty duration")
	}
	for suffix, unit := range map[string]time.Duration{"d": day, "w": week} {
		n, ok := strings.CutSuffix(s, suffix)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, serrors.Wrap("parsing duration", err, "input", s)
		}
		return time.Duration(v) * unit, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, serrors.Wrap("parsing duration", err, "input", s)
	}
	return d, nil
}

// FmtDuration formats d so that ParseDuration can read it back. Whole days
// and weeks use the short forms.
func FmtDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "0s"
	case d%week == 0:
		return strconv.FormatInt(int64(d/week), 10) + "w"
	case d%day == 0:
		return strconv.FormatInt(int64(d/day), 10) + "d"
	default:
		return d.String()
	}
}
