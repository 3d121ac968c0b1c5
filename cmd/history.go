package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vzahanych/city-weather/internal/config"
	"github.com/vzahanych/city-weather/internal/storage"
	"go.uber.org/zap"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or append to the weather observation history",
	}

	cmd.AddCommand(historyGetCmd())
	cmd.AddCommand(historyRecordCmd())

	return cmd
}

func historyGetCmd() *cobra.Command {
	var city, timestamp string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the observation recorded for a city at a timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), func(history storage.WeatherHistory) error {
				return printObservation(cmd.Context(), cmd.OutOrStdout(), history, city, timestamp)
			})
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city name")
	cmd.Flags().StringVar(&timestamp, "time", "", "observation timestamp, e.g. 2024-05-01T12:00")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func historyRecordCmd() *cobra.Command {
	var (
		city, timestamp string
		obs             storage.Observation
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an observation unless one already exists for the city and timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), func(history storage.WeatherHistory) error {
				if err := history.Set(cmd.Context(), city, timestamp, obs); err != nil {
					return err
				}
				log.Info("Observation recorded",
					zap.String("city", city),
					zap.String("time", timestamp))
				return printObservation(cmd.Context(), cmd.OutOrStdout(), history, city, timestamp)
			})
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "city name")
	cmd.Flags().StringVar(&timestamp, "time", "", "observation timestamp, e.g. 2024-05-01T12:00")
	cmd.Flags().Float64Var(&obs.Temperature, "temperature", 0, "temperature in °C")
	cmd.Flags().Float64Var(&obs.Windspeed, "windspeed", 0, "wind speed in km/h")
	cmd.Flags().IntVar(&obs.Weathercode, "weathercode", 0, "WMO weather code")
	for _, name := range []string{"city", "time", "temperature", "windspeed", "weathercode"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func withHistory(ctx context.Context, fn func(storage.WeatherHistory) error) error {
	stores, err := storage.Open(ctx, config.GetConfig().Storage, log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("Failed to close storage", zap.Error(err))
		}
	}()

	return fn(stores.History)
}

// printObservation writes the stored observation as JSON; the stored value is
// printed even after a no-op record so callers see what is kept.
func printObservation(ctx context.Context, w io.Writer, history storage.WeatherHistory, city, timestamp string) error {
	obs, found, err := history.Get(ctx, city, timestamp)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no observation for %q at %s", city, timestamp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(obs)
}
