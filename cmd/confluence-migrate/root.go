/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const defaultConfig = "~/.config/confluence-migrate.yaml"

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool
	EnvFile      string

	SourceInstance string
	SourceUsername string
	// Command to run to retrieve the source instance's API token
	SourceTokenCmd []string

	DestInstance string
	DestUsername string
	DestTokenCmd []string

	WithVCR        bool
	RequestTimeout time.Duration

	ParsedConfig YamlConfig

	// Identifies this invocation in logs and the migration report.
	RunID = uuid.New()
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence-migrate",
	Short: "Copy Confluence spaces from one Atlassian instance to another",
	Long: `
Moving wikis between Atlassian sites?  This tool copies the spaces you pick, with their page
hierarchy, labels, attachments and comments, from a source Confluence instance into a destination
one.  Use 'plan' to see what would happen first.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(Debug)

		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence-migrate: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfig+", respects CONFLUENCE_MIGRATE_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&EnvFile, "env-file", ".env", "dotenv file to read token variables from, if it exists")

	rootCmd.PersistentFlags().StringVar(&SourceInstance, "source-instance", "", "Atlassian ORG name (ORG in ORG.atlassian.net) or URL to copy from")
	rootCmd.PersistentFlags().StringVar(&SourceUsername, "source-username", "", "your username on the source instance")
	rootCmd.PersistentFlags().StringSliceVar(&SourceTokenCmd, "source-token-cmd", []string{}, "shell command to retrieve the source instance's API token (default: $"+sourceTokenEnv+")")

	rootCmd.PersistentFlags().StringVar(&DestInstance, "dest-instance", "", "Atlassian ORG name or URL to copy into")
	rootCmd.PersistentFlags().StringVar(&DestUsername, "dest-username", "", "your username on the destination instance")
	rootCmd.PersistentFlags().StringSliceVar(&DestTokenCmd, "dest-token-cmd", []string{}, "shell command to retrieve the destination instance's API token (default: $"+destTokenEnv+")")

	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "record HTTP traffic with go-vcr, replaying what's already recorded")
	rootCmd.PersistentFlags().DurationVar(&RequestTimeout, "request-timeout", 0, "give up on a single HTTP request after this long (0 means never)")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if Config == "" {
		// Did the user provide an ENV?
		envConfig := os.Getenv("CONFLUENCE_MIGRATE_CONFIG")
		if envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfig
			explicit = false
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence-migrate: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if err := loadEnvFile(); err != nil {
		return err
	}

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			fmt.Printf("Couldn't read config file %s, does it exist?\n", ConfigActual)
			return fmt.Errorf("confluence-migrate: specified config file does not exist: %w", err)
		}
		// Everything can be given as flags, so the default location is optional.
		slog.Debug("No config file, using flags only", "config", ConfigActual)
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("confluence-migrate: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("confluence-migrate: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("confluence-migrate: failed to bind flags: %w", err)
	}

	slog.Debug("Read config file", "config", ConfigActual)
	return nil
}

// loadEnvFile reads token variables from EnvFile, never overriding what's already in the
// environment.  A missing file is fine.
func loadEnvFile() error {
	if EnvFile == "" {
		return nil
	}
	path, err := homedir.Expand(EnvFile)
	if err != nil {
		return fmt.Errorf("confluence-migrate: unable to expand homedir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("confluence-migrate: couldn't load %s: %w", path, err)
	}
	slog.Debug("Loaded environment file", "file", path)
	return nil
}

type YamlConfig struct {
	WithVCR         *bool `yaml:"with-vcr"`
	IncludePersonal *bool `yaml:"include-personal-spaces"`
	Progress        *bool `yaml:"progress"`
	Workers         *int  `yaml:"workers"`
	PageSize        *int  `yaml:"page-size"`

	SourceInstance string   `yaml:"source-instance"`
	SourceUsername string   `yaml:"source-username"`
	SourceTokenCmd []string `yaml:"source-token-cmd"`

	DestInstance string   `yaml:"dest-instance"`
	DestUsername string   `yaml:"dest-username"`
	DestTokenCmd []string `yaml:"dest-token-cmd"`

	RequestTimeout string   `yaml:"request-timeout"`
	Report         string   `yaml:"report"`
	Spaces         []string `yaml:"spaces"`
}

// Bind each cobra flag to its value in the config file, unless it was given on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence-migrate: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// the flag is unknown.  but that can legitimately happen if you're running e.g.
			// `list spaces` which has no `workers` flag but your YAML file does define that...
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		var err error
		switch field.Kind() {
		case reflect.Ptr:
			switch p := field.Value().(type) {
			case *bool:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
				}
			case *int:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%d", *p))
				}
			default:
				return fmt.Errorf("confluence-migrate: found unrecognised field: %+v", field.Name())
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("confluence-migrate: found unrecognised field: %+v", field.Name())
			}
			if s != "" {
				err = cmd.Flags().Set(key, s)
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("confluence-migrate: found unrecognised field: %+v", field.Name())
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err = cmd.Flags().Set(key, s); err != nil {
					break
				}
			}

		default:
			return fmt.Errorf("confluence-migrate: found unrecognised field: %+v", field.Name())
		}

		if err != nil {
			return fmt.Errorf("confluence-migrate: bad value for '%s' in config file: %w", key, err)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("confluence-migrate: execution error: %w", err)
	}

	return nil
}
