package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/vitrine/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "vitrine: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		prefsPath    string
		manifestPath string
	)

	root := &cobra.Command{
		Use:   "vitrine",
		Short: "Community site slideshow, gallery and feed for the terminal and the web",
		Long: `vitrine shows a site's image slideshow, photo gallery, community posts
and contact forms in the terminal. The serve command exposes the same
components over HTTP with live state updates on a websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				Manifest:   manifestPath,
			})
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/vitrine/config.toml)")
	root.PersistentFlags().StringVar(&manifestPath, "manifest", "", "images.json path or URL (overrides config)")
	root.Flags().StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/vitrine/prefs.toml)")

	root.AddCommand(newServeCmd(&configPath, &manifestPath), newManifestCmd())
	return root
}

func newServeCmd(configPath, manifestPath *string) *cobra.Command {
	var opts app.ServeOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site API, static files and state websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = *configPath
			opts.Manifest = *manifestPath
			return app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&opts.SiteDir, "site-dir", "", "directory of static site files")
	cmd.Flags().BoolVar(&opts.AllowAll, "allow-all", false, "allow cross-origin requests from any origin")
	return cmd
}

func newManifestCmd() *cobra.Command {
	var opts app.ManifestOptions
	cmd := &cobra.Command{
		Use:   "manifest DIR",
		Short: "Write images.json listing the images in DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = args[0]
			out, n, err := app.GenerateManifest(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d images to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default DIR/images.json)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "path prefix for every entry, e.g. img")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "include subdirectories")
	return cmd
}
