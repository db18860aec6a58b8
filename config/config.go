package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Client  Client  `mapstructure:"client"`
	Logging Logging `mapstructure:"logging"`
}

func (cfg *Config) String() string {
	return fmt.Sprintf("{ Client: '%s' Logging: '%s' }", cfg.Client.String(), cfg.Logging.String())
}

func (cfg *Config) HandleConfig() error {
	return viper.Unmarshal(cfg)
}

func (cfg *Config) Validate() error {
	validate := validator.New()

	return validate.Struct(cfg)
}

func NewConfig() (cfg *Config, err error) {
	cfg = &Config{}

	// Define command-line flags for config file and format
	pflag.String("config", "", "Path to the configuration file")
	pflag.String("format", "yaml", "Format of the configuration file (e.g., yaml, json, toml)")
	pflag.String("host", "", "SMTP server hostname")
	pflag.Int("port", 0, "SMTP server port (0 selects the default candidates)")
	pflag.String("username", "", "Username used for authentication")
	pflag.String("password", "", "Password used for authentication")
	pflag.Bool("secure", false, "Upgrade the connection with STARTTLS when the server offers it")
	pflag.Parse()

	// Bind flags to Viper
	err = viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		return nil, err
	}

	for key, flag := range map[string]string{
		"client.host":     "host",
		"client.port":     "port",
		"client.username": "username",
		"client.password": "password",
		"client.secure":   "secure",
	} {
		if err = viper.BindPFlag(key, pflag.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("client.domain_name", "localhost")
	viper.SetDefault("client.connect_timeout", 30*time.Second)
	viper.SetDefault("client.tls_port", 587)
	viper.SetDefault("client.auth_methods", []string{"CRAM-MD5", "PLAIN", "LOGIN"})
	viper.SetDefault("logging.level", "info")

	// Read values from the flags
	configPath := viper.GetString("config")
	configFormat := viper.GetString("format")

	// Use the passed --config and --format values
	if configPath != "" {
		viper.SetConfigFile(configPath)
		viper.SetConfigType(configFormat)
	} else {
		// Default case: look up in standard paths
		viper.SetConfigName("smtp-login")
		viper.SetConfigType(configFormat)

		viper.AddConfigPath("/usr/local/etc/smtp-login/")
		viper.AddConfigPath("/etc/smtp-login/")
		viper.AddConfigPath("$HOME/.smtp-login")
		viper.AddConfigPath(".")
	}

	// Attempt to read configuration. Without an explicit --config everything
	// may as well come from flags and environment variables.
	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError

		if configPath != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Enable reading environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SMTPLOGIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Parse the configuration into the struct
	err = cfg.HandleConfig()

	return cfg, err
}

type Client struct {
	Host        string   `mapstructure:"host" validate:"required"`
	DomainName  string   `mapstructure:"domain_name"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	AccessToken string   `mapstructure:"access_token"`
	AuthMethods []string `mapstructure:"auth_methods"`

	TLS TLS `mapstructure:"tls"`

	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"min=0"`

	Port    int `mapstructure:"port" validate:"min=0,max=65535"`
	TLSPort int `mapstructure:"tls_port" validate:"min=0,max=65535"`

	Secure bool `mapstructure:"secure"`
}

func (c *Client) String() string {
	return fmt.Sprintf("{ Host: '%s' Port: '%d' TLSPort: '%d' Secure: '%v' DomainName: '%s' Username: '%s' Password: '%s' AccessToken: '%s' AuthMethods: '%v' ConnectTimeout: '%s' TLS: '%s' }",
		c.Host, c.Port, c.TLSPort, c.Secure, c.DomainName, c.Username, mask(c.Password), mask(c.AccessToken), c.AuthMethods, c.GetConnectTimeout(), c.TLS.String())
}

func (c *Client) GetDomainName() string {
	if c.DomainName == "" {
		return "localhost"
	}

	return c.DomainName
}

func (c *Client) GetConnectTimeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return 30 * time.Second
	}

	return c.ConnectTimeout
}

func (c *Client) GetTLSPort() int {
	if c.TLSPort <= 0 {
		return 587
	}

	return c.TLSPort
}

type TLS struct {
	Cert       string `mapstructure:"cert"`
	Key        string `mapstructure:"key"`
	SkipVerify bool   `mapstructure:"skip_verify"`
}

func (t *TLS) String() string {
	return fmt.Sprintf("{ SkipVerify: '%v' Cert: '%s' Key: '%s' }", t.SkipVerify, t.Cert, t.Key)
}

type Logging struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

func (l *Logging) String() string {
	return fmt.Sprintf("{ JSON: '%v' Level: '%s' }", l.JSON, l.Level)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return "<hidden>"
}
