// Package cli implements the command surface using cobra: flag parsing,
// config merging, and wiring of the transmission engine.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rftools/ctx/internal/adapters/frame"
	"github.com/rftools/ctx/internal/adapters/iface"
	"github.com/rftools/ctx/internal/config"
	"github.com/rftools/ctx/internal/core/domain"
	"github.com/rftools/ctx/internal/engine"
	"github.com/rftools/ctx/internal/telemetry"
)

// Version is stamped by the build.
var Version = "1.0.0"

var (
	flagChannel      int
	flagFrequency    int
	flagInterface    string
	flagTxInterval   float64
	flagPayloadMin   int
	flagPayloadMax   int
	flagConfigFile   string
	flagDebug        bool
	flagNoPrep       bool
	flagListIfaces   bool
	flagSeqIncrement bool
	flagMetricsAddr  string
)

var rootCmd = &cobra.Command{
	Use:           "ctx",
	Short:         "ctx is a continuous random data frame transmitter",
	Long:          "ctx stages a wireless adapter into monitor mode on a fixed channel and transmits randomized 802.11 QoS data frames until interrupted. Used for RF testing, interference generation and adapter validation.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&flagChannel, "channel", "c", 0, "set the channel to broadcast on")
	flags.IntVarP(&flagFrequency, "frequency", "f", 0, "set the frequency (MHz) to broadcast on")
	flags.StringVarP(&flagInterface, "interface", "i", "", "set network interface for ctx")
	flags.Float64Var(&flagTxInterval, "tx_interval", 0, "Tx interval for QoS data frames in seconds (default 0.001)")
	flags.IntVar(&flagPayloadMin, "tx_payload_min", 0, "Tx payload minimum in bytes (default 64)")
	flags.IntVar(&flagPayloadMax, "tx_payload_max", 0, "Tx payload maximum in bytes (default 512)")
	flags.StringVar(&flagConfigFile, "config", config.DefaultConfigFile, "path to the configuration file")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging output")
	flags.BoolVar(&flagNoPrep, "noprep", false, "disable interface preparation")
	flags.BoolVar(&flagListIfaces, "list_interfaces", false, "print interfaces with an 802.11 stack and exit")
	flags.BoolVar(&flagSeqIncrement, "seq_increment", false, "increment the 802.11 sequence number per frame")
	flags.StringVar(&flagMetricsAddr, "metrics_addr", "", "expose Prometheus metrics on this address (disabled when empty)")
	rootCmd.MarkFlagsMutuallyExclusive("channel", "frequency")
}

// Execute runs the root command. Errors are logged here; callers only need
// the exit status.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		return err
	}
	return nil
}

func run(cmd *cobra.Command) error {
	setupLogging()

	mgr := iface.NewManager()

	if flagListIfaces {
		return printInterfaces(mgr)
	}

	if os.Geteuid() != 0 {
		return fmt.Errorf("ctx must be run with root permissions")
	}

	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	rc, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("configuration validation: %w", err)
	}

	telemetry.InitMetrics()
	if flagMetricsAddr != "" {
		go func() {
			if err := telemetry.Serve(flagMetricsAddr); err != nil {
				logrus.WithError(err).Warn("metrics listener stopped")
			}
		}()
	}

	eng, err := engine.New(rc, mgr)
	if err != nil {
		return err
	}

	printRunBanner(mgr, rc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil {
		return err
	}

	stats := eng.Stats()
	logrus.Infof("sent %d frames (%d bytes), %d failed",
		stats.FramesSent(), stats.BytesSent(), stats.FramesFailed())
	return nil
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if flagDebug {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debugf("ctx version %s", Version)
	}
}

// applyFlagOverrides lets explicitly set flags take precedence over file
// values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("channel") {
		cfg.SetChannel(flagChannel)
	}
	if flags.Changed("frequency") {
		cfg.SetFrequency(flagFrequency)
	}
	if flags.Changed("interface") {
		cfg.Interface = flagInterface
	}
	if flags.Changed("tx_interval") {
		cfg.TxInterval = flagTxInterval
	}
	if flags.Changed("tx_payload_min") {
		cfg.PayloadMin = flagPayloadMin
	}
	if flags.Changed("tx_payload_max") {
		cfg.PayloadMax = flagPayloadMax
	}
	cfg.SkipPrepare = flagNoPrep
	cfg.SeqIncrement = flagSeqIncrement
}

func printInterfaces(mgr *iface.Manager) error {
	states, err := mgr.ListInterfaces()
	if err != nil {
		return err
	}
	if len(states) == 0 {
		fmt.Println("no interfaces with an 802.11 stack found")
		return nil
	}
	for _, s := range states {
		fmt.Printf("%-12s %-18s mode %-8s", s.Name, s.HardwareAddr, s.Mode)
		if s.FrequencyMHz != 0 {
			fmt.Printf(" channel %d (%d MHz)", s.Channel, s.FrequencyMHz)
		}
		fmt.Println()
	}
	return nil
}

// printRunBanner mirrors the message the tool has always shown on start.
func printRunBanner(mgr *iface.Manager, rc domain.RunConfig) {
	mac := "unknown"
	if state, err := mgr.Info(rc.Interface); err == nil && len(state.HardwareAddr) > 0 {
		mac = state.HardwareAddr.String()
	}
	fmt.Println()
	fmt.Println("#/~>")
	fmt.Printf("Starting a fake AP using %s (%s) on channel %d (%d MHz)\n",
		rc.Interface, mac, rc.Channel, rc.FrequencyMHz)
	fmt.Printf(" - Transmitting QoS data frames to %s every %v\n", frame.PeerAddress, rc.TxInterval)
	fmt.Printf(" - Payload is random data with a length between %d and %d bytes\n",
		rc.PayloadMin, rc.PayloadMax)
	fmt.Println("#/~>")
	fmt.Println()
}
