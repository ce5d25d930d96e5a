package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Alias1177/KrishiMitra/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseLocation splits "City,CC" into its parts.
func ParseLocation(text string) (city, country string) {
	parts := strings.SplitN(text, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	return city, country
}

// FormatPrediction renders a price prediction for chat.
func FormatPrediction(p *models.PricePrediction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Estimated %s price for %d is Rupees %.2f\n", p.Crop, p.TargetPeriod, p.PredictedPrice))
	sb.WriteString(fmt.Sprintf("Trend: %+.2f per year\n\n", p.Model.Slope))
	sb.WriteString("Year  Actual  Trend\n")
	for i, h := range p.History {
		sb.WriteString(fmt.Sprintf("%d  %.0f  %.0f\n", h.Period, h.Price, p.Fitted[i].Price))
	}
	return sb.String()
}

// FormatWeatherReport renders current conditions followed by the advisories.
func FormatWeatherReport(r *models.WeatherReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", r.Location))
	sb.WriteString(fmt.Sprintf("Temperature %.1f degree celsius\n", r.Reading.TemperatureC))
	sb.WriteString(fmt.Sprintf("Humidity %.0f percent\n", r.Reading.HumidityPct))
	sb.WriteString(fmt.Sprintf("Condition %s\n", r.Reading.ConditionText))
	for _, a := range r.Advisories {
		if a.Kind == models.RiskNoMajorRisk {
			sb.WriteString("\n✅ " + a.Message)
			continue
		}
		sb.WriteString("\n⚠️ " + a.Message)
		if a.Guidance != "" {
			sb.WriteString("\n👉 " + a.Guidance)
		}
	}
	return sb.String()
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuPrice),
			tgbotapi.NewKeyboardButton(MenuWeather),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(MenuAdvice),
			tgbotapi.NewKeyboardButton(MenuMarket),
		),
	)
}

func cropKeyboard(crops []models.Crop) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, c := range crops {
		row = append(row, tgbotapi.NewKeyboardButton(string(c)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(MenuMain)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func problemKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, p := range models.Problems {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(p.DisplayName())))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(MenuMain)))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func demandKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var top, bottom []tgbotapi.KeyboardButton
	for i := 1; i <= 10; i++ {
		btn := tgbotapi.NewKeyboardButton(strconv.Itoa(i))
		if i <= 5 {
			top = append(top, btn)
		} else {
			bottom = append(bottom, btn)
		}
	}
	return tgbotapi.NewReplyKeyboard(top, bottom)
}
