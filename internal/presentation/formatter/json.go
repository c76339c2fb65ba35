package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes data as an indented JSON array; nil data becomes [].
func (f *JSONFormatter) Format(w io.Writer, data []aggregator.FlightSummary) error {
	if data == nil {
		data = []aggregator.FlightSummary{}
	}
	out, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
