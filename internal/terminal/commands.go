package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/KrishiMitra/internal/advisor"
	"github.com/Alias1177/KrishiMitra/internal/advisory"
	"github.com/Alias1177/KrishiMitra/models"
	"github.com/spf13/cobra"
)

const commandTimeout = 60 * time.Second

type PredictCmd struct {
	crop     string
	year     int
	advisor  *advisor.Service
	reporter *Reporter
}

func NewPredictCmd(svc *advisor.Service, reporter *Reporter) *cobra.Command {
	pc := &PredictCmd{advisor: svc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a crop price for a future year",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.crop, "crop", "", "Crop to predict (e.g., Rice)")
	cmd.Flags().IntVar(&pc.year, "year", models.DefaultTargetYear,
		fmt.Sprintf("Target year (%d-%d)", models.MinTargetYear, models.MaxTargetYear))
	_ = cmd.MarkFlagRequired("crop")

	return cmd
}

func (pc *PredictCmd) run(cmd *cobra.Command, _ []string) error {
	crop, err := advisory.ParseCrop(pc.crop)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	result, err := pc.advisor.PredictPrice(ctx, crop, pc.year)
	if err != nil {
		return fmt.Errorf("failed to predict price: %w", err)
	}
	return pc.reporter.Prediction(result)
}

type WeatherCmd struct {
	city     string
	country  string
	advisor  *advisor.Service
	reporter *Reporter
}

func NewWeatherCmd(svc *advisor.Service, reporter *Reporter, defaultCity, defaultCountry string) *cobra.Command {
	wc := &WeatherCmd{advisor: svc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Classify current weather risks for a location",
		RunE:  wc.run,
	}

	cmd.Flags().StringVar(&wc.city, "city", defaultCity, "City or village")
	cmd.Flags().StringVar(&wc.country, "country", defaultCountry, "ISO country code (e.g., IN)")

	return cmd
}

func (wc *WeatherCmd) run(cmd *cobra.Command, _ []string) error {
	if wc.city == "" {
		return fmt.Errorf("%w: --city is required", advisory.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	report, err := wc.advisor.WeatherRisk(ctx, wc.city, wc.country)
	if err != nil {
		return fmt.Errorf("failed to fetch weather for %s: %w", wc.city, err)
	}
	return wc.reporter.Weather(report)
}

type AdviseCmd struct {
	crop     string
	problem  string
	advisor  *advisor.Service
	reporter *Reporter
}

func NewAdviseCmd(svc *advisor.Service, reporter *Reporter) *cobra.Command {
	ac := &AdviseCmd{advisor: svc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Expert advice for a crop problem",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.crop, "crop", "", "Crop (e.g., Wheat)")
	cmd.Flags().StringVar(&ac.problem, "problem", "", "Problem (e.g., \"Pest Attack\")")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("problem")

	return cmd
}

func (ac *AdviseCmd) run(_ *cobra.Command, _ []string) error {
	crop, err := advisory.ParseCrop(ac.crop)
	if err != nil {
		return err
	}
	problem, err := advisory.ParseProblem(ac.problem)
	if err != nil {
		return err
	}
	return ac.reporter.Advice(ac.advisor.ExpertAdvice(crop, problem))
}

type MarketCmd struct {
	crop     string
	demand   int
	advisor  *advisor.Service
	reporter *Reporter
}

func NewMarketCmd(svc *advisor.Service, reporter *Reporter) *cobra.Command {
	mc := &MarketCmd{advisor: svc, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Sell timing recommendation for a demand level",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.crop, "crop", string(models.CropRice), "Crop (e.g., Cotton)")
	cmd.Flags().IntVar(&mc.demand, "demand", 0,
		fmt.Sprintf("Market demand index (%d-%d)", advisory.MinDemandIndex, advisory.MaxDemandIndex))
	_ = cmd.MarkFlagRequired("demand")

	return cmd
}

func (mc *MarketCmd) run(_ *cobra.Command, _ []string) error {
	crop, err := advisory.ParseCrop(mc.crop)
	if err != nil {
		return err
	}
	rec, err := mc.advisor.MarketOutlook(mc.demand)
	if err != nil {
		return err
	}
	return mc.reporter.Market(crop, rec)
}

func NewServeCmd(serve func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the advisory web API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}
