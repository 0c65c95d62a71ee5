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
		Use:     "pocsag",
		Short:   "Encode a POCSAG message to WAV audio",
		Version: pocsag.Version,
		RunE:    runEncode,
	}

	flags := root.Flags()
	flags.Uint32P("address", "a", 0, "pager address (RIC), required, must be a multiple of 8")
	flags.StringP("message", "m", "", "message text to send, required")
	flags.StringP("output", "o", "output.wav", "output WAV file path")
	flags.Uint8P("function", "f", pocsag.FuncAlphanumeric, "message type: 0=numeric, 3=alphanumeric")
	flags.IntP("baud", "b", pocsag.BaudRate1200, "baud rate: 512, 1200, or 2400")
	flags.BoolP("json", "j", false, "output result as JSON")

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

func runEncode(cmd *cobra.Command, args []string) error {
	v := cliconfig.From(cmd.Context())

	address := v.GetUint32("address")
	message := v.GetString("message")
	output := v.GetString("output")
	function := uint8(v.GetUint("function"))
	baud := v.GetInt("baud")
	jsonOutput := v.GetBool("json")

	if address == 0 || message == "" {
		return fmt.Errorf("address and message are required (POCSAG addresses are multiples of 8, e.g. 8, 123456)")
	}
	if baud != pocsag.BaudRate512 && baud != pocsag.BaudRate1200 && baud != pocsag.BaudRate2400 {
		return fmt.Errorf("invalid baud rate %d, supported rates: 512, 1200, 2400", baud)
	}

	packet := pocsag.CreatePOCSAGPacketWithBaudRate(address, message, function, baud)

	wavData := pocsag.ConvertToAudioWithBaudRate(packet, baud)
	if err := os.WriteFile(output, wavData, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	if jsonOutput {
		msgType := "alphanumeric"
		if function == pocsag.FuncNumeric {
			msgType = "numeric"
		}
		result := map[string]interface{}{
			"success":  true,
			"output":   output,
			"address":  address,
			"function": function,
			"message":  message,
			"baud":     baud,
			"type":     msgType,
			"size":     len(wavData),
		}
		enc, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	fmt.Printf("wrote %s\n", output)
	fmt.Printf("address=%d function=%d baud=%d message=%q\n", address, function, baud, message)
	fmt.Printf("test with: multimon-ng -t wav -a POCSAG%d %s\n", baud, output)
	return nil
}
