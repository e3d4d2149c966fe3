package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/config"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/device"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/engine"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/scene"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/texture"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/tui"
)

var (
	configFile string
	preset     string
	scenePath  string
	assetDir   string
	baseURL    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "celestial",
		Short: "adaptive celestial render-resource engine",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the engine with a live terminal monitor",
		RunE:  runEngine,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "engine config file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "configuration preset (desktop, laptop, mobile)")
	runCmd.Flags().StringVar(&scenePath, "scene", "", "scene file (yaml), builtin solar scene when empty")
	runCmd.Flags().StringVar(&assetDir, "assets", "", "local texture directory")
	runCmd.Flags().StringVar(&baseURL, "asset-url", "", "remote texture base url")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "print device capabilities and derived settings",
		Run: func(cmd *cobra.Command, args []string) {
			caps := device.Probe()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "renderer\t%s\n", caps.Renderer)
			fmt.Fprintf(w, "vendor\t%s\n", caps.Vendor)
			fmt.Fprintf(w, "max texture size\t%d\n", caps.MaxTextureSize)
			fmt.Fprintf(w, "device memory\t%d MB\n", caps.DeviceMemoryBytes>>20)
			fmt.Fprintf(w, "texture budget\t%d MB\n", caps.TextureBudget()>>20)
			fmt.Fprintf(w, "initial quality\t%s\n", caps.InitialQualityHint())
			w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s quality=%-7s fps=%.0f budget=%dMB\n",
					name, cfg.Quality.Initial, cfg.Quality.FPSTarget, cfg.Textures.BudgetMB)
			}
		},
	}

	sceneCmd := &cobra.Command{
		Use:   "scene [path]",
		Short: "write the builtin scene to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scene.Save(args[0], scene.Default())
		},
	}

	rootCmd.AddCommand(runCmd, probeCmd, presetsCmd, sceneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset %q", preset)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	sc := scene.Default()
	if scenePath == "" {
		scenePath = cfg.ScenePath
	}
	if scenePath != "" {
		loaded, err := scene.Load(scenePath)
		if err != nil {
			return err
		}
		sc = loaded
	}

	var fetcher texture.Fetcher
	switch {
	case assetDir != "":
		fetcher = texture.NewDirFetcher(assetDir)
	case cfg.Textures.AssetDir != "":
		fetcher = texture.NewDirFetcher(cfg.Textures.AssetDir)
	case baseURL != "":
		fetcher = texture.NewHTTPFetcher(baseURL, cfg.FetchTimeout())
	case cfg.Textures.BaseURL != "":
		fetcher = texture.NewHTTPFetcher(cfg.Textures.BaseURL, cfg.FetchTimeout())
	default:
		fetcher = texture.NewDirFetcher("assets")
	}

	caps := device.Probe()
	dev := gfx.NewSoftwareDevice()

	eng, err := engine.New(cfg, sc, dev, caps, fetcher)
	if err != nil {
		return err
	}
	defer eng.Dispose()

	if rejected := eng.Rejected(); len(rejected) > 0 {
		fmt.Fprintf(os.Stderr, "skipping bodies with invalid elements: %v\n", rejected)
	}

	return tui.Run(eng, dev)
}
