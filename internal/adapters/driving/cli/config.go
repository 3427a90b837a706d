package cli

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit configuration",
	Long: `View and edit configuration stored in config.toml.

Keys use dot notation, e.g.:
  contexture config set llm.provider openai
  contexture config set retrieval.top_k 8`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value. For *.api_key keys the value may be
omitted; it is then read from stdin without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	settings := configStore.AppSettings()

	cmd.Printf("Config file: %s\n\n", configStore.Path())
	cmd.Printf("Embedding:  %s / %s\n", settings.Embedding.Provider, settings.Embedding.Model)
	cmd.Printf("LLM:        %s / %s\n", settings.LLM.Provider, settings.LLM.Model)
	cmd.Printf("Retrieval:  top_k=%d dimensions=%d\n", settings.Retrieval.TopK, settings.Retrieval.Dimensions)
	cmd.Printf("Chat:       timeout=%ds temperature=%.2f\n",
		settings.Chat.GenerateTimeoutSecs, settings.Chat.Temperature)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	if len(args) == 1 {
		if !strings.HasSuffix(key, ".api_key") {
			return errors.New("value required (only *.api_key keys may be prompted)")
		}
		cmd.Printf("Enter value for %s: ", key)
		secret := readSecret()
		cmd.Println()
		if secret == "" {
			return errors.New("empty value")
		}
		if err := configStore.Set(key, secret); err != nil {
			return err
		}
		cmd.Printf("%s = %s\n", key, maskAPIKey(secret))
		return nil
	}

	raw := args[1]
	if err := configStore.Set(key, coerceValue(raw)); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if password, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Not a terminal, read a plain line.
	input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// coerceValue stores booleans and numbers typed rather than as strings,
// so GetInt and friends behave after a round trip through TOML.
func coerceValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
