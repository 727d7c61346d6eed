package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"weather-udp/config"
	"weather-udp/internal/client"
	"weather-udp/internal/models"
	"weather-udp/pkg/logger"
)

type flags struct {
	host    string
	port    int
	timeout time.Duration
	retries int
	asJSON  bool
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cnf, err := config.NewConfig()
	if err != nil {
		cnf = config.Defaults()
	}

	f := &flags{}
	root := &cobra.Command{
		Use:          "weather-client",
		Short:        "Query a weather UDP server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.host, "host", cnf.Client.Host, "server host")
	root.PersistentFlags().IntVar(&f.port, "port", cnf.Client.Port, "server UDP port")
	root.PersistentFlags().DurationVar(&f.timeout, "timeout", cnf.Client.Timeout, "per-attempt timeout")
	root.PersistentFlags().IntVar(&f.retries, "retries", cnf.Client.MaxRetries, "attempts before giving up")
	root.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print the validated result as JSON")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log every attempt")

	newClient := func() *client.Client {
		l := logger.NewNop()
		if f.verbose {
			l = logger.NewZapLogger(logger.Options{AppName: "weather-client", Level: "debug"}, os.Stderr)
		}
		return client.New(net.JoinHostPort(f.host, strconv.Itoa(f.port)), client.Options{
			Timeout:    f.timeout,
			MaxRetries: f.retries,
			RetryDelay: cnf.Client.RetryDelay,
			BufferSize: cnf.Client.BufferSize,
		}, l)
	}

	root.AddCommand(&cobra.Command{
		Use:   "current <city>",
		Short: "Current conditions with hourly and daily forecasts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := newClient().Current(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), wd)
			}
			printCurrent(cmd.OutOrStdout(), wd)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "day <city> <YYYY-MM-DD|unix>",
		Short: "Details of one forecast day",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[len(args)-1]
			day, err := models.ParseDay(raw)
			if err != nil {
				return fmt.Errorf("invalid day %q: %w", raw, err)
			}
			city := strings.Join(args[:len(args)-1], " ")

			dd, err := newClient().DayDetail(cmd.Context(), city, day)
			if err != nil {
				return err
			}
			if f.asJSON {
				return printJSON(cmd.OutOrStdout(), dd)
			}
			printDay(cmd.OutOrStdout(), city, dd)
			return nil
		},
	})

	root.SetContext(context.Background())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCurrent(w io.Writer, wd *client.WeatherData) {
	loc := location(wd.Timezone)
	cur := wd.Current

	fmt.Fprintf(w, "%s (%s)\n", wd.City, wd.Timezone)
	fmt.Fprintf(w, "  %.1f°C, feels like %.1f°C, %s\n", cur.Temp, cur.FeelsLike, describe(cur.Weather))
	fmt.Fprintf(w, "  today %.1f..%.1f°C, humidity %d%%, wind %.1f m/s @ %d°, uv %.1f\n",
		cur.TempMin, cur.TempMax, cur.Humidity, cur.WindSpeed, cur.WindDeg, cur.Uvi)

	fmt.Fprintln(w, "\nNext hours:")
	for _, h := range wd.Hourly[:min(len(wd.Hourly), 12)] {
		fmt.Fprintf(w, "  %s  %5.1f°C  %3.0f%%  %s\n",
			time.Unix(h.Timestamp, 0).In(loc).Format("Mon 15:04"), h.Temp, h.Pop*100, h.Weather.Main)
	}

	fmt.Fprintln(w, "\nNext days:")
	for _, d := range wd.Daily {
		fmt.Fprintf(w, "  %s  %5.1f..%5.1f°C  %3.0f%%  %s\n",
			time.Unix(d.Timestamp, 0).In(loc).Format("Mon Jan 02"), d.TempMin, d.TempMax, d.Pop*100, describe(d.Weather))
	}
}

func printDay(w io.Writer, city string, dd *client.DayDetail) {
	day := dd.Day
	fmt.Fprintf(w, "%s, %s\n", city, time.Unix(day.Timestamp, 0).UTC().Format("Monday Jan 02"))
	fmt.Fprintf(w, "  %.1f..%.1f°C (avg %.1f), humidity %d%%, rain %.1f mm, %s\n",
		day.TempMin, day.TempMax, day.TempAvg, day.Humidity, day.Rain, describe(day.Weather))
	if dd.Today != nil {
		fmt.Fprintf(w, "  vs today: avg %+.1f°C, humidity %+d%%\n",
			day.TempAvg-dd.Today.TempAvg, day.Humidity-dd.Today.Humidity)
	}

	for _, h := range dd.Hourly {
		fmt.Fprintf(w, "  %s UTC  %5.1f°C  %3.0f%%  %3d%%  %s\n",
			time.Unix(h.Timestamp, 0).UTC().Format("15:04"), h.Temp, h.Pop*100, h.Humidity, h.Icon)
	}
}

func describe(c client.Condition) string {
	if c.Description != "" {
		return c.Description
	}
	if c.Main != "" {
		return c.Main
	}
	return "n/a"
}

func location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return time.UTC
}
