// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	"github.com/holiman/uint256"
)

// Format is the encoding of log records.
type Format int

const (
	// FormatLogfmt writes key=value lines, readable on a terminal.
	FormatLogfmt Format = iota
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// NewHandler returns a handler writing records at or above level to wr.
// A nil level lets every record through.
func NewHandler(wr io.Writer, format Format, level slog.Leveler) slog.Handler {
	if level == nil {
		level = levelMaxVerbosity
	}
	r := replacer{text: format == FormatLogfmt}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: r.replace}
	if format == FormatJSON {
		return slog.NewJSONHandler(wr, opts)
	}
	return slog.NewTextHandler(wr, opts)
}

// DiscardHandler returns a handler dropping every record.
func DiscardHandler() slog.Handler {
	return slog.DiscardHandler
}

// replacer renders time, level and numeric values the same way in both formats.
type replacer struct {
	// text formats times as strings instead of leaving them to the encoder
	text bool
}

func (r replacer) replace(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			break
		}
		if r.text {
			return slog.String("t", attr.Value.Time().Format(timeFormat))
		}
		return slog.Attr{Key: "t", Value: attr.Value}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if r.text {
			attr.Value = slog.StringValue(v.Format(timeFormat))
		}
	case *big.Int:
		attr.Value = nilOr(v == nil, v.String)
	case *uint256.Int:
		attr.Value = nilOr(v == nil, v.Dec)
	case fmt.Stringer:
		// felts, addresses and hashes
		isNil := v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil())
		attr.Value = nilOr(isNil, v.String)
	}
	return attr
}

func nilOr(isNil bool, str func() string) slog.Value {
	if isNil {
		return slog.StringValue("<nil>")
	}
	return slog.StringValue(str())
}
