package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agrichain/agrichain/internal/bypass"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
	"github.com/agrichain/agrichain/internal/spoilage"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newSpoilageCmd() *cobra.Command {
	var in domain.SpoilageInput
	var storage string

	cmd := &cobra.Command{
		Use:     "spoilage",
		Short:   "Score post-harvest spoilage risk offline",
		Example: `  agrichain spoilage --crop tomato --storage open_air --temperature 34 --humidity 85 --transit 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Storage = domain.StorageClass(storage)
			if in.TransitHours < 0 {
				return fmt.Errorf("--transit cannot be negative")
			}
			if math.IsInf(in.Multiplier, 0) || math.IsNaN(in.Multiplier) {
				return fmt.Errorf("--multiplier must be a finite number")
			}
			assessment := spoilage.NewEngine(profiles.NewRegistry()).Assess(in)
			return printJSON(cmd.OutOrStdout(), assessment)
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Crop, "crop", "", "crop name")
	f.StringVar(&storage, "storage", string(domain.StorageBasicShed), "storage class: open_air, basic_shed, cool_storage or cold_storage")
	f.Float64Var(&in.TransitHours, "transit", 6, "hours in transit to market")
	f.Float64Var(&in.Temperature, "temperature", 28.5, "ambient temperature in °C")
	f.Float64Var(&in.Humidity, "humidity", 65, "relative humidity in %")
	f.Float64Var(&in.Multiplier, "multiplier", 1, "weather spoilage factor")
	_ = cmd.MarkFlagRequired("crop")
	return cmd
}

func newBypassCmd() *cobra.Command {
	var in domain.BypassInput
	var trend string
	var commission float64

	cmd := &cobra.Command{
		Use:     "bypass",
		Short:   "Score whether selling direct beats the commission agent",
		Example: `  agrichain bypass --crop onion --state maharashtra --quantity 20 --price 1500 --trend rising`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Quantity < 0 || in.Price < 0 {
				return fmt.Errorf("--quantity and --price cannot be negative")
			}
			in.Trend = domain.PriceTrend(trend)
			scoring := domain.DefaultConfig().Scoring
			scoring.CommissionRate = commission
			return printJSON(cmd.OutOrStdout(), bypass.NewEngine(scoring).Score(in))
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Crop, "crop", "", "crop name")
	f.StringVar(&in.Region, "state", "", "state the farmer sells in")
	f.Float64Var(&in.Quantity, "quantity", 10, "lot size in quintals")
	f.Float64Var(&in.Price, "price", 0, "expected price per quintal in ₹")
	f.StringVar(&trend, "trend", string(domain.TrendStable), "price trend: rising, stable or falling")
	f.Float64Var(&commission, "commission", bypass.DefaultCommissionRate, "intermediary commission rate")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newCropsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "crops",
		Short: "List the crops with spoilage profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := profiles.NewRegistry()
			var crops []domain.CropProfile
			for _, name := range reg.Crops() {
				crops = append(crops, reg.Lookup(name))
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), crops)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CROP\tSHELF LIFE\tIDEAL TEMP\tIDEAL RH\tMODEL CLASS")
			for _, c := range crops {
				fmt.Fprintf(tw, "%s\t%dd\t%.0f°C\t%.0f%%\t%s\n",
					c.Name, c.ShelfLifeDays, c.IdealTemp, c.IdealHumidity, reg.NearestEquivalent(c.Name))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
