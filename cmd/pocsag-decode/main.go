package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pocsag "github.com/pagercast/pocsag"
	"github.com/pagercast/pocsag/internal/charset"
	"github.com/pagercast/pocsag/internal/cliconfig"
)

func main() {
	root := &cobra.Command{
		Use:     "pocsag-decode",
		Short:   "Decode POCSAG messages from WAV audio",
		Version: pocsag.Version,
		RunE:    runDecode,
	}

	flags := root.PersistentFlags()
	flags.StringP("input", "i", "", "input WAV file to decode, required")
	flags.IntP("baud", "b", pocsag.BaudRate1200, "baud rate: 512, 1200, or 2400")
	flags.BoolP("json", "j", false, "output result as JSON")
	flags.Bool("invert", false, "treat the demodulated bitstream as inverted")
	flags.Int("error-correction", 2, "BCH correction effort: 0 none, 1 single-bit, 2 single- and double-bit")
	flags.String("charset", string(charset.US), "national charset variant: US, DE, SE, FR, SI")
	flags.String("debug-log", "", "optional path for a free-form debug trace")
	flags.String("wordlog", "", "optional path for a per-codeword CSV log")

	v := viper.New()
	v.SetEnvPrefix("POCSAG")
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	root.SetContext(cliconfig.With(root.Context(), v))

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print detailed build and version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(pocsag.GetFullVersionInfo())
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runDecode(cmd *cobra.Command, args []string) error {
	v := cliconfig.From(cmd.Context())

	inputFile := v.GetString("input")
	baud := v.GetInt("baud")
	jsonOutput := v.GetBool("json")

	if inputFile == "" {
		return fmt.Errorf("--input is required")
	}
	if baud != pocsag.BaudRate512 && baud != pocsag.BaudRate1200 && baud != pocsag.BaudRate2400 {
		return fmt.Errorf("invalid baud rate %d, supported rates: 512, 1200, 2400", baud)
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	bits, err := pocsag.DemodulateBits(data, baud)
	if err != nil {
		return fmt.Errorf("demodulating: %w", err)
	}

	sink := &pocsag.CollectSink{}
	rx, err := pocsag.NewReceiver(pocsag.Config{
		InvertInput:        v.GetBool("invert"),
		ErrorCorrection:    v.GetInt("error-correction"),
		ShowPartialDecodes: false,
		PruneEmpty:         true,
		Charset:            charset.Variant(v.GetString("charset")),
		WordlogPath:        v.GetString("wordlog"),
		DebugPath:          v.GetString("debug-log"),
		Sink:               sink,
		Name:               inputFile,
	})
	if err != nil {
		return fmt.Errorf("creating receiver: %w", err)
	}
	for _, bit := range bits {
		rx.RxBit(bit)
	}
	if err := rx.Close(); err != nil {
		return fmt.Errorf("closing receiver: %w", err)
	}

	if jsonOutput {
		return printJSON(sink.Messages, baud)
	}
	return printText(sink.Messages, baud)
}

func printJSON(messages []pocsag.Message, baud int) error {
	jsonMessages := make([]map[string]interface{}, len(messages))
	for i, msg := range messages {
		msgType := "alphanumeric"
		if msg.Function == pocsag.FuncNumeric {
			msgType = "numeric"
		}
		jsonMessages[i] = map[string]interface{}{
			"address":  msg.Address,
			"function": msg.Function,
			"message":  msg.Payload,
			"type":     msgType,
			"sync":     msg.Sync,
		}
	}
	result := map[string]interface{}{
		"success":  true,
		"messages": jsonMessages,
		"baud":     baud,
	}
	enc, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}

func printText(messages []pocsag.Message, baud int) error {
	if len(messages) == 0 {
		fmt.Printf("no messages found (tried %d baud)\n", baud)
		return nil
	}
	fmt.Printf("POCSAG%d: decoded messages:\n", baud)
	for _, msg := range messages {
		msgType := "ALPHA"
		if msg.Function == pocsag.FuncNumeric {
			msgType = "NUMERIC"
		}
		fmt.Printf("Address: %7d  Function: %d  %-7s  Message: %s\n",
			msg.Address, msg.Function, msgType, msg.Payload)
	}
	return nil
}
