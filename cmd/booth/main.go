package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"booth-go/internal/app"
	"booth-go/internal/booth"
	"booth-go/internal/config"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a BoothApp. The caller must defer app.Close().
// command identifies the CLI command being run in log lines.
func newApp(ctx context.Context, cmd *cobra.Command, command string) (*app.BoothApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.NewBoothApp(ctx, cfg, app.Options{Command: command, Verbose: verbose})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// readPassphrase prompts on the terminal without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:          "booth",
	Short:        "Photo booth session server",
	SilenceUsage: true,
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the booth web surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cmd, "serve")
		if err != nil {
			return err
		}
		defer a.Close()

		addr, _ := cmd.Flags().GetString("addr")
		return a.Serve(ctx, addr)
	},
}

// check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the object store is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, "check")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.CheckObjectStore(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Object store OK")
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Photos Root: %s\n", cfg.PhotosRoot)
		fmt.Printf("Secrets:     %s\n", cfg.EnvFile)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Photos Root:   %s\n", cfg.PhotosRoot)
		fmt.Printf("Listen Addr:   %s\n", cfg.Server.ListenAddr)
		fmt.Printf("Short Codes:   %sHHMMSS\n", cfg.Session.ShortCodePrefix)
		fmt.Printf("Gallery:       %s/<code>\n", cfg.Session.GalleryBaseURL)
		fmt.Printf("Store:         %s\n", cfg.Store.Type)
		fmt.Printf("Camera:        %s %s\n", cfg.Camera.Type, cfg.Camera.Model)
		fmt.Printf("Object Store:  %s %s\n", cfg.ObjectStore.Type, cfg.ObjectStore.Bucket)
		fmt.Printf("On Failure:    %s\n", cfg.Enhance.OnFailure)
		fmt.Printf("Encrypt Originals: %t\n", cfg.Originals.Encrypt)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the originals archive keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the originals key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := app.InitKeys(cfg, pass); err != nil {
			return fmt.Errorf("initializing keys: %w", err)
		}
		fmt.Printf("Public key:  %s\n", cfg.Originals.PublicKeyPath)
		fmt.Printf("Private key: %s\n", cfg.Originals.PrivateKeyPath)
		return nil
	},
}

// sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, "sessions")
		if err != nil {
			return err
		}
		defer a.Close()

		sessions, err := a.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  %-18s  %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.ShortCode, s.ID)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Show a session's photos and upload records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, "sessions")
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.ShowSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		code := d.ShortCode
		if !d.Known {
			code += " (no stored mapping)"
		}
		fmt.Printf("Session:    %s\n", d.ID)
		fmt.Printf("Short code: %s\n", code)
		fmt.Printf("Photos:     %d\n", len(d.Photos))
		for _, p := range d.Photos {
			fmt.Printf("  %s\n", p)
		}
		fmt.Printf("Uploads:    %d\n", len(d.Uploads))
		for _, u := range d.Uploads {
			fmt.Printf("  %s  %s\n", u.UploadedAt.Local().Format("2006-01-02 15:04:05"), u.URL)
		}
		return nil
	},
}

// publish command
var publishCmd = &cobra.Command{
	Use:   "publish SESSION_ID",
	Short: "Upload an existing session's photos again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, "publish")
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Publish(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.OK() {
				fmt.Println(r.URL)
				continue
			}
			failed++
			fmt.Fprintf(os.Stderr, "failed: %v\n", r.Err)
		}
		fmt.Printf("Published %d of %d photo(s)\n", len(booth.URLs(results)), len(results))
		if failed > 0 {
			return fmt.Errorf("%d photo(s) failed to upload", failed)
		}
		return nil
	},
}

// originals command
var originalsCmd = &cobra.Command{
	Use:   "originals",
	Short: "Manage archived originals",
}

var originalsRestoreCmd = &cobra.Command{
	Use:   "restore SESSION_ID DEST",
	Short: "Decrypt a session's originals into DEST",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cmd, "restore")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}

		restored, err := a.RestoreOriginals(args[0], pass, args[1])
		for _, p := range restored {
			fmt.Println(p)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Restored %d file(s)\n", len(restored))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	keysCmd.AddCommand(keysInitCmd)
	rootCmd.AddCommand(keysCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)

	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(checkCmd)

	originalsCmd.AddCommand(originalsRestoreCmd)
	rootCmd.AddCommand(originalsCmd)
}
