package output

import (
	"fmt"
	"io"
	"net"
	"sort"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// Format selects which Formatter PrintDevices renders with.
type Format int

const (
	FormatTable Format = iota
	FormatJSON
)

// DefaultSortFunc orders devices by IPv4 address, numerically.
var DefaultSortFunc = func(a, b *discovery.DeviceRecord) bool {
	return netutil.CompareIPs(net.ParseIP(a.IPv4), net.ParseIP(b.IPv4))
}

const DefaultPretty = false

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Output handles device output formatting for a single scan's results.
type Output struct {
	formatter Formatter
	sortFunc  func(a, b *discovery.DeviceRecord) bool
	pretty    bool
}

// Formatter renders a ScanResults to w in some wire or display format.
type Formatter interface {
	Format(w io.Writer, results *discovery.ScanResults) error
}

// NewOutput builds an Output for the given format, applying any Options.
func NewOutput(format Format, opts ...Option) (*Output, error) {
	o := &Output{
		sortFunc: DefaultSortFunc,
		pretty:   DefaultPretty,
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	var formatter Formatter
	switch format {
	case FormatJSON:
		formatter = NewJSONFormatter(o.pretty)
	default:
		formatter = NewTableFormatter()
	}

	o.formatter = formatter
	return o, nil
}

// PrintDevices sorts results.Records in place and renders them.
func (o *Output) PrintDevices(w io.Writer, results *discovery.ScanResults) error {
	sort.Slice(results.Records, func(i, j int) bool {
		return o.sortFunc(results.Records[i], results.Records[j])
	})

	return o.formatter.Format(w, results)
}

// PrintDevices is a convenience function combining NewOutput and
// (*Output).PrintDevices for one-shot callers.
func PrintDevices(w io.Writer, results *discovery.ScanResults, format Format, opts ...Option) error {
	o, err := NewOutput(format, opts...)
	if err != nil {
		return err
	}
	return o.PrintDevices(w, results)
}
