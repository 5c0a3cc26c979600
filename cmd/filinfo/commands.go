package main

import (
	"fmt"

	"github.com/cwbudde/algo-waterfall/filterbank"
	"github.com/cwbudde/algo-waterfall/stats/series"
	"github.com/cwbudde/algo-waterfall/stats/spectrum"
	"github.com/cwbudde/algo-waterfall/waterfall"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) headerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <file>",
		Short: "Print the header keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := filterbank.ReadHeader(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", waterfall.ErrRead, err)
			}
			return a.writeRows(cmd.OutOrStdout(), []row{
				{"source_name", h.SourceName},
				{"rawdatafile", h.RawDataFile},
				{"telescope_id", h.TelescopeID},
				{"machine_id", h.MachineID},
				{"data_type", h.DataType},
				{"fch1", h.FCh1},
				{"foff", h.FOff},
				{"nchans", h.NChans},
				{"nifs", h.NIFs},
				{"nbits", h.NBits},
				{"tsamp", h.TSamp},
				{"tstart", h.TStart},
				{"src_raj", h.SrcRAJ},
				{"src_dej", h.SrcDEJ},
				{"az_start", h.AzStart},
				{"za_start", h.ZaStart},
				{"nsamples", h.NSamples},
				{"header_size", h.HeaderSize},
			})
		},
	}
}

func (a *app) rangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "range <file>",
		Short: "Print the minimum and maximum frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := waterfall.ByPath(args[0])
			lo, err := waterfall.MinFreq(h, a.opts(false)...)
			if err != nil {
				return err
			}
			hi, err := waterfall.MaxFreq(h, a.opts(false)...)
			if err != nil {
				return err
			}
			return a.writeRows(cmd.OutOrStdout(), []row{
				{"min_freq", lo},
				{"max_freq", hi},
			})
		},
	}
}

func (a *app) freqAxisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fs <file>",
		Short: "Print the channel frequencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := waterfall.FreqAxis(waterfall.ByPath(args[0]), a.opts(false)...)
			if err != nil {
				return err
			}
			return a.writeVector(cmd.OutOrStdout(), fs)
		},
	}
}

func (a *app) timeAxisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ts <file>",
		Short: "Print the sample times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := waterfall.TimeAxis(waterfall.ByPath(args[0]), a.opts(false)...)
			if err != nil {
				return err
			}
			return a.writeVector(cmd.OutOrStdout(), ts)
		},
	}
}

func (a *app) dataCmd() *cobra.Command {
	var db bool
	cmd := &cobra.Command{
		Use:   "data <file>",
		Short: "Print the time x frequency power of the first polarization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				db = a.cfg.DB
			}
			m, err := waterfall.Data(waterfall.ByPath(args[0]), a.opts(db)...)
			if err != nil {
				return err
			}
			return a.writeMatrix(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().BoolVar(&db, "db", false, "convert power to dB (10*log10)")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Print statistics of the time-integrated spectrum and the band-integrated time series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := filterbank.Open(args[0], filterbank.WithLogger(a.logger))
			if err != nil {
				return fmt.Errorf("%w: %w", waterfall.ErrRead, err)
			}
			h := waterfall.Loaded(w)

			avg, err := waterfall.Integrate(h, waterfall.AxisTime, a.opts(false)...)
			if err != nil {
				return err
			}
			freqs, err := waterfall.FreqAxis(h, a.opts(false)...)
			if err != nil {
				return err
			}
			freqs, err = a.alignAxis(freqs, len(avg))
			if err != nil {
				return err
			}

			ss, err := spectrum.Calculate(avg, freqs)
			if err != nil {
				return err
			}

			power, err := waterfall.Integrate(h, waterfall.AxisFreq, a.opts(false)...)
			if err != nil {
				return err
			}
			ts := series.Calculate(power)

			return a.writeRows(cmd.OutOrStdout(), []row{
				{"channels", ss.BinCount},
				{"peak_freq", ss.MaxFreq},
				{"peak_power", ss.Max},
				{"peak_db", ss.Max_dB},
				{"mean_power", ss.Mean},
				{"peak_to_mean_db", ss.PeakToMean_dB},
				{"centroid", ss.Centroid},
				{"spread", ss.Spread},
				{"flatness", ss.Flatness},
				{"bandwidth_3db", ss.Bandwidth},
				{"samples", ts.Length},
				{"series_mean", ts.Mean},
				{"series_std", ts.StdDev},
				{"modulation_index", ts.ModulationIndex},
				{"series_max_sample", ts.MaxPos},
			})
		},
	}
}

// alignAxis reconciles the half-open frequency axis with the channel count
// when floating-point rounding added a trailing element.
func (a *app) alignAxis(freqs []float64, nchans int) ([]float64, error) {
	switch {
	case len(freqs) == nchans:
		return freqs, nil
	case len(freqs) > nchans:
		a.logger.Warn("frequency axis longer than channel count, trimming",
			zap.Int("axis", len(freqs)),
			zap.Int("nchans", nchans),
		)
		return freqs[:nchans], nil
	default:
		return nil, fmt.Errorf("frequency axis has %d values for %d channels", len(freqs), nchans)
	}
}
