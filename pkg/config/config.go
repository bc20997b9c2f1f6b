// Package config loads syllabank's settings from an optional YAML file, the
// SYLLABANK_* environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/openswoop/syllabank/pkg/catalog"
	"github.com/openswoop/syllabank/pkg/directory"
	"github.com/openswoop/syllabank/pkg/roster"
)

const envPrefix = "SYLLABANK"

// DefaultSubjects are the business majors whose instructors get surveyed
var DefaultSubjects = []string{"MGMT", "HM", "FIN", "DSGN", "SCLM", "MRKT", "BIS", "BANA", "BA", "ACTG"}

type Config struct {
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Directory   DirectoryConfig   `mapstructure:"directory"`
	Subjects    []string          `mapstructure:"subjects"`
	Terms       map[string]string `mapstructure:"terms"`
	Credentials string            `mapstructure:"credentials"`
	Output      string            `mapstructure:"output"`
	Database    string            `mapstructure:"database"`
	BigQuery    BigQueryConfig    `mapstructure:"bigquery"`
	PubSub      PubSubConfig      `mapstructure:"pubsub"`
}

type CatalogConfig struct {
	SearchUrl  string        `mapstructure:"search_url"`
	DetailsUrl string        `mapstructure:"details_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type DirectoryConfig struct {
	URL       string        `mapstructure:"url"`
	BaseDN    string        `mapstructure:"base_dn"`
	Domain    string        `mapstructure:"domain"`
	Attribute string        `mapstructure:"attribute"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type BigQueryConfig struct {
	Project string `mapstructure:"project"`
	Dataset string `mapstructure:"dataset"`
}

type PubSubConfig struct {
	Topic string `mapstructure:"topic"`
}

func (c Config) TermTable() roster.TermTable {
	return roster.TermTable(c.Terms)
}

func (c Config) DirectoryConfig() directory.Config {
	return directory.Config{
		URL:       c.Directory.URL,
		BaseDN:    c.Directory.BaseDN,
		Domain:    c.Directory.Domain,
		Attribute: c.Directory.Attribute,
		Timeout:   c.Directory.Timeout,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.search_url", catalog.SearchUrl)
	v.SetDefault("catalog.details_url", catalog.DetailsUrl)
	v.SetDefault("catalog.timeout", 10*time.Second)

	v.SetDefault("directory.url", "ldap://onid-k-dc01.onid.oregonstate.edu:389")
	v.SetDefault("directory.base_dn", "DC=onid,DC=oregonstate,DC=edu")
	v.SetDefault("directory.domain", "onid")
	v.SetDefault("directory.attribute", "userPrincipalName")
	v.SetDefault("directory.timeout", 10*time.Second)

	v.SetDefault("subjects", DefaultSubjects)
	v.SetDefault("credentials", "config.json")
	v.SetDefault("output", "CSV_going_into_Qualtrics_automated.csv")

	userCacheDir, _ := os.UserCacheDir()
	v.SetDefault("database", filepath.Join(userCacheDir, "syllabank", "syllabank.db"))

	v.SetDefault("bigquery.project", "syllabank-4e5b9")
	v.SetDefault("bigquery.dataset", "syllabank")
	v.SetDefault("pubsub.topic", "roster-refreshed")
}

// Load reads the configuration file if one exists. An explicitly named file
// that is missing is an error; the default ./syllabank.yaml is optional.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("syllabank")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Subjects) == 0 {
		return nil, errors.New("no subjects configured")
	}
	// Set here since viper would merge a default map into the file's table
	if len(cfg.Terms) == 0 {
		cfg.Terms = roster.DefaultTermTable()
	}
	return &cfg, nil
}

// LoadCredentials reads the directory login from the JSON credential store,
// e.g: {"username": "doej", "password": "..."}. SYLLABANK_USERNAME and
// SYLLABANK_PASSWORD take precedence over the file.
func LoadCredentials(file string) (directory.Credentials, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	_ = v.BindEnv("username")
	_ = v.BindEnv("password")

	if err := v.ReadInConfig(); err != nil {
		if !v.IsSet("username") || !v.IsSet("password") {
			return directory.Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	creds := directory.Credentials{
		Username: v.GetString("username"),
		Password: v.GetString("password"),
	}
	if creds.Username == "" || creds.Password == "" {
		return creds, errors.New("credentials in " + file + " need a username and password")
	}
	return creds, nil
}
