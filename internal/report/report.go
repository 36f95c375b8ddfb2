package report

import (
	"fmt"
	"io"

	"github.com/kjstillabower/weather-report/internal/models"
)

// Reporter prints weather reports as plain text.
type Reporter struct {
	out io.Writer
}

// NewReporter returns a Reporter that writes to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Render writes the header, temperature (two decimals, Celsius), humidity and description.
func (r *Reporter) Render(rep models.Report) error {
	_, err := fmt.Fprintf(r.out,
		"Weather report for %s, %s:\nTemperature: %.2f°C\nHumidity: %d%%\nDescription: %s\n",
		rep.Query.CityName, rep.Query.StateCode,
		rep.TemperatureCelsius,
		rep.Humidity,
		rep.Description,
	)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
