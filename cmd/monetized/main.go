package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/CloudNativeWorks/monetized-sdk/internal/cliconfig"
	"github.com/CloudNativeWorks/monetized-sdk/monetized"
	"github.com/CloudNativeWorks/monetized-sdk/monetized/credstore"
	logAdapter "github.com/CloudNativeWorks/monetized-sdk/monetized/log"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		log := cliconfig.Logger("error")
		log.Error().Err(err).Msg("monetized")
		os.Exit(1)
	}
}

// app carries the resolved configuration between cobra hooks and commands.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
	out     io.Writer

	// endpointSet is true when the endpoint came from a flag, env or file
	// rather than the default; it then wins over a stored endpoint.
	endpointSet bool

	openStore func(ctx context.Context) (credstore.Store, func(), error)
}

func newApp(out io.Writer) *app {
	a := &app{cfg: cliconfig.DefaultConfig(), out: out}
	a.openStore = a.openDBStore
	return a
}

func newRootCmd(out io.Writer) *cobra.Command {
	return newApp(out).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "monetized",
		Short:         "Call the license-gated processing API",
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolveConfig(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.monetized/config.toml)")
	f.StringVar(&a.cfg.Endpoint, "endpoint", a.cfg.Endpoint, "API base URL")
	f.StringVar(&a.cfg.LicenseKey, "license-key", a.cfg.LicenseKey, "license key for paid tiers")
	f.StringVar(&a.cfg.Tier, "tier", a.cfg.Tier, "tier: free, basic, pro or enterprise")
	f.DurationVar(&a.cfg.Timeout, "timeout", a.cfg.Timeout, "HTTP timeout")
	f.StringVar(&a.cfg.UserAgent, "user-agent", a.cfg.UserAgent, "User-Agent header")
	f.StringVar(&a.cfg.PostgresDSN, "postgres-dsn", a.cfg.PostgresDSN, "load the credential from PostgreSQL")
	f.StringVar(&a.cfg.MongoURI, "mongo-uri", a.cfg.MongoURI, "load the credential from MongoDB")
	f.StringVar(&a.cfg.MongoDatabase, "mongo-database", a.cfg.MongoDatabase, "MongoDB database name")
	f.StringVar(&a.cfg.CredentialName, "credential", a.cfg.CredentialName, "name of the stored credential")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(a.validateCmd(), a.callCmd(), a.credentialCmd())
	return root
}

// resolveConfig applies file, env and flags in that order of increasing
// precedence.
func (a *app) resolveConfig(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := a.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&a.cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&a.cfg, changed); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.endpointSet = changed["endpoint"] || a.cfg.Endpoint != monetized.DefaultEndpoint

	a.log = cliconfig.Logger(a.cfg.LogLevel)
	a.log.Debug().Interface("config", a.cfg.Masked()).Msg("configuration")
	return nil
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the license key format for the configured tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			valid := client.ValidateLicense()
			fmt.Fprintf(a.out, "tier=%s license=%s valid=%t\n",
				client.TierName(), client.MaskedLicenseKey(), valid)
			if !valid {
				return &monetized.InvalidLicenseError{Tier: client.TierName()}
			}
			return nil
		},
	}
}

func (a *app) callCmd() *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Send one payload to the processing API and print the response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var payload any
			if err := json.Unmarshal([]byte(data), &payload); err != nil {
				return fmt.Errorf("parse --data: %w", err)
			}
			client, err := a.newClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.Call(cmd.Context(), payload)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, string(resp))
			return err
		},
	}
	cmd.Flags().StringVar(&data, "data", "null", "JSON payload")
	return cmd
}

func (a *app) newClient(ctx context.Context) (*monetized.Client, error) {
	logger := logAdapter.NewZerologAdapterWithLogger(a.log)
	transport := monetized.NewHTTPTransport(
		monetized.WithTimeout(a.cfg.Timeout),
		monetized.WithUserAgent(a.cfg.UserAgent),
		monetized.WithTransportLogger(logger),
	)
	opts := []monetized.Option{
		monetized.WithTransport(transport),
		monetized.WithLogger(logger),
	}

	if !a.cfg.UsesStore() {
		return monetized.New(a.cfg.ClientConfig(), opts...)
	}

	if err := a.cfg.RequireCredential(); err != nil {
		return nil, err
	}
	if a.endpointSet {
		opts = append(opts, monetized.WithEndpoint(a.cfg.Endpoint))
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return monetized.NewFromStore(ctx, store, a.cfg.CredentialName, opts...)
}

func (a *app) credentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage license credentials kept in PostgreSQL or MongoDB",
	}

	put := &cobra.Command{
		Use:   "put",
		Short: "Store the configured license key and tier under --credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireCredential(); err != nil {
				return err
			}
			// same presence rule as the client
			if _, err := monetized.New(a.cfg.ClientConfig()); err != nil {
				return err
			}
			cred := credstore.Credential{
				Name:       a.cfg.CredentialName,
				LicenseKey: a.cfg.LicenseKey,
				Tier:       a.cfg.Tier,
			}
			if a.endpointSet {
				cred.Endpoint = a.cfg.Endpoint
			}
			return a.withStore(cmd.Context(), func(store credstore.Store) error {
				saved, err := store.Put(cmd.Context(), cred)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "stored %s tier=%s license=%s\n",
					saved.Name, saved.Tier, monetized.MaskLicenseKey(saved.LicenseKey))
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.UsesStore() {
				return fmt.Errorf("postgres-dsn or mongo-uri is required")
			}
			return a.withStore(cmd.Context(), func(store credstore.Store) error {
				creds, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, c := range creds {
					fmt.Fprintf(a.out, "%s\ttier=%s\tlicense=%s\tendpoint=%s\n",
						c.Name, c.Tier, monetized.MaskLicenseKey(c.LicenseKey), c.Endpoint)
				}
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete the credential named by --credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireCredential(); err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(store credstore.Store) error {
				if err := store.Delete(cmd.Context(), a.cfg.CredentialName); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "deleted %s\n", a.cfg.CredentialName)
				return nil
			})
		},
	}

	cmd.AddCommand(put, list, del)
	return cmd
}

func (a *app) withStore(ctx context.Context, fn func(credstore.Store) error) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

// openDBStore connects to the configured credential database. The returned
// func releases the connection.
func (a *app) openDBStore(ctx context.Context) (credstore.Store, func(), error) {
	if a.cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := credstore.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	}

	client, err := mongo.Connect(options.Client().ApplyURI(a.cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			a.log.Warn().Err(err).Msg("disconnect mongo")
		}
	}
	store, err := credstore.NewMongoStore(ctx, client.Database(a.cfg.MongoDatabase))
	if err != nil {
		disconnect()
		return nil, nil, err
	}
	return store, disconnect, nil
}
