package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/Alias1177/KrishiMitra/models"
)

var templates = template.Must(template.New("reports").Parse(`
{{define "prediction"}}Estimated {{.Crop}} price for {{.TargetPeriod}}: Rupees {{printf "%.2f" .PredictedPrice}}
Trend: price = {{printf "%.2f" .Model.Slope}} * year + {{printf "%.2f" .Model.Intercept}}

Year  Actual  Trend
{{range $i, $p := .History}}{{$p.Period}}  {{printf "%.0f" $p.Price}}  {{printf "%.0f" (index $.Fitted $i).Price}}
{{end}}{{end}}
{{define "weather"}}{{.Location}}
Temperature: {{printf "%.1f" .Reading.TemperatureC}} C
Humidity: {{printf "%.0f" .Reading.HumidityPct}} %
Condition: {{.Reading.ConditionText}}
{{range .Advisories}}
- {{.Message}}{{if .Guidance}}
  {{.Guidance}}{{end}}{{end}}
{{end}}
{{define "market"}}{{.Crop}}: {{.Message}}
Recommendation: {{.Recommendation}}
{{end}}`))

// Reporter prints advisor results as plain text
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Prediction(p *models.PricePrediction) error {
	return r.execute("prediction", p)
}

func (r *Reporter) Weather(report *models.WeatherReport) error {
	return r.execute("weather", report)
}

func (r *Reporter) Advice(advice string) error {
	_, err := fmt.Fprintln(r.writer, advice)
	return err
}

func (r *Reporter) Market(crop models.Crop, rec models.MarketRecommendation) error {
	return r.execute("market", struct {
		Crop models.Crop
		models.MarketRecommendation
	}{crop, rec})
}

func (r *Reporter) execute(name string, data any) error {
	if err := templates.ExecuteTemplate(r.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
