package main

import (
	"fmt"
	"io"
	"os"

	"hilite/internal/config"
	"hilite/internal/palette"
	"hilite/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved highlights of a project",
	Long:  `Prints every highlight saved for the project, in creation order, with a swatch of its color.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var positionStyle = lipgloss.NewStyle().Faint(true)

func init() {
	listCmd.Flags().String("root", "", "Project directory (defaults to the working directory)")
	listCmd.Flags().String("storage", "", "Storage backend: json or sqlite (overrides --config)")
	listCmd.Flags().String("config", "", "JSON settings file, as sent by the editor")
	bindFlags(listCmd, "root", "storage", "config")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root := viper.GetString("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root = wd
	}

	kind, err := storageKind()
	if err != nil {
		return err
	}

	st, err := store.Open(root, kind)
	if err != nil {
		return err
	}
	defer st.Close()

	highlights, err := st.Load()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", st.Path(), err)
	}
	return printHighlights(cmd.OutOrStdout(), highlights)
}

// storageKind picks the backend from --storage, then the settings file, then
// the default.
func storageKind() (string, error) {
	if kind := viper.GetString("storage"); kind != "" {
		return kind, nil
	}

	path := viper.GetString("config")
	if path == "" {
		return config.Default().Storage, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg, err := config.LoadFromJSON(file)
	if err != nil {
		return "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.Storage, nil
}

func printHighlights(w io.Writer, highlights []store.Highlight) error {
	if len(highlights) == 0 {
		_, err := fmt.Fprintln(w, "No highlights saved.")
		return err
	}

	for i, h := range highlights {
		span := fmt.Sprintf("%d:%d-%d:%d",
			h.Start.Line+1, h.Start.Character+1, h.End.Line+1, h.End.Character+1)
		_, err := fmt.Fprintf(w, "%3d %s %s %s\n", i+1, swatch(h.Color), positionStyle.Render(span), h.Color)
		if err != nil {
			return err
		}
	}
	return nil
}

// swatch renders the palette icon next to a block painted in value.
func swatch(value string) string {
	icon := palette.Icon(value)
	c, ok := palette.ParseColor(value)
	if !ok {
		return icon + "  "
	}
	return icon + lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("  ")
}
