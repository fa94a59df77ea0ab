package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/larsxschneider/wmbusmeters/pkg/wmbusmeters"
)

var (
	rootCmd = &cobra.Command{
		Use:   "wmbusmeters-analyze [hex]",
		Short: "Decode Wireless M-Bus telegrams",
		Long: "wmbusmeters-analyze decodes Wireless M-Bus utility meter telegrams " +
			"into named readings. Without an argument it reads telegrams from stdin.",
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := wmbusmeters.Options{
				KeyHex:    viper.GetString("key"),
				MeterName: viper.GetString("name"),
			}
			decoder := wmbusmeters.NewDecoder(opts)
			ctx := cmd.Context()
			if len(args) == 0 {
				return runInteractive(ctx, decoder)
			}
			return runAnalyze(ctx, decoder, args[0])
		},
	}

	configFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("key", "", "hex-encoded 16-byte AES key (32 hex chars)")
	rootCmd.PersistentFlags().String("name", "", "meter name used in the output")
	rootCmd.PersistentFlags().String("format", "summary", "output format: summary, json or flat")
}

func loadConfig(cmd *cobra.Command) error {
	for _, flag := range []string{"key", "name", "format"} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	if configFile == "" {
		return nil
	}
	viper.SetConfigFile(configFile)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	logrus.WithField("file", viper.ConfigFileUsed()).Debug("loaded config")
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func runInteractive(ctx context.Context, decoder *wmbusmeters.Decoder) error {
	scanner := bufio.NewScanner(os.Stdin)
	logrus.Info("analyze mode. Paste a hex telegram and press Enter (Ctrl+D to exit).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runAnalyze(ctx, decoder, line); err != nil {
			logrus.WithError(err).Error("failed to decode telegram")
		}
	}
	return scanner.Err()
}

func runAnalyze(ctx context.Context, decoder *wmbusmeters.Decoder, hex string) error {
	result, err := decoder.Analyze(ctx, hex)
	if err != nil {
		return err
	}
	switch viper.GetString("format") {
	case "flat":
		fmt.Println(result.Flat)
	case "json":
		data, err := json.Marshal(result.Fields)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		fmt.Println(result.String())
	}
	return nil
}
