package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	pocsag "github.com/pagercast/pocsag"
	"github.com/pagercast/pocsag/internal/cliconfig"
)

func main() {
	root := &cobra.Command{
		Use:     "pocsag-burst",
		Short:   "Encode several POCSAG messages into one multi-batch WAV burst",
		Version: pocsag.Version,
		RunE:    runBurst,
	}

	flags := root.Flags()
	flags.StringP("json", "j", "", "JSON input file with a message array, required")
	flags.StringP("output", "o", "burst.wav", "output WAV file path")
	flags.IntP("baud", "b", pocsag.BaudRate1200, "baud rate: 512, 1200, or 2400")

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

type jsonMessage struct {
	Address  uint32 `json:"address"`
	Message  string `json:"message"`
	Function uint8  `json:"function"`
}

func runBurst(cmd *cobra.Command, args []string) error {
	v := cliconfig.From(cmd.Context())

	jsonInput := v.GetString("json")
	output := v.GetString("output")
	baud := v.GetInt("baud")

	if jsonInput == "" {
		return fmt.Errorf("--json is required, e.g. " +
			`[{"address":123456,"message":"FIRST MESSAGE","function":3}]`)
	}
	if baud != pocsag.BaudRate512 && baud != pocsag.BaudRate1200 && baud != pocsag.BaudRate2400 {
		return fmt.Errorf("invalid baud rate %d, supported rates: 512, 1200, 2400", baud)
	}

	data, err := os.ReadFile(jsonInput)
	if err != nil {
		return fmt.Errorf("reading JSON file: %w", err)
	}

	var parsed []jsonMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	messages := make([]pocsag.MessageInfo, len(parsed))
	for i, jm := range parsed {
		messages[i] = pocsag.MessageInfo{
			Address:  jm.Address,
			Message:  jm.Message,
			Function: jm.Function,
		}
	}

	packet := pocsag.CreatePOCSAGBurstWithBaudRate(messages, baud)
	wavData := pocsag.ConvertToAudioWithBaudRate(packet, baud)

	if err := os.WriteFile(output, wavData, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	fmt.Printf("wrote burst with %d messages: %s\n", len(messages), output)
	for i, msg := range messages {
		msgType := "ALPHA"
		if msg.Function == pocsag.FuncNumeric {
			msgType = "NUMERIC"
		}
		fmt.Printf("  %d. address=%d type=%s message=%q\n", i+1, msg.Address, msgType, msg.Message)
	}
	return nil
}
