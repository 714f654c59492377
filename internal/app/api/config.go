package api

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"
)

// Mail transports understood by MAIL_TRANSPORT.
const (
	MailTransportLog    = "log"
	MailTransportSMTP   = "smtp"
	MailTransportPubSub = "pubsub"
)

// Config carries the settings shared by the API, worker and reconciler processes.
type Config struct {
	Port              string
	PostgresDSN       string
	RedisAddr         string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	JWTSecret        string
	PaymentKeyID     string
	PaymentKeySecret string
	// PaymentRatePerMinute bounds payment calls per caller; zero disables the limiter.
	PaymentRatePerMinute int
	PaymentBurst         int

	UploadsBucketURL string

	MailTransport   string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	MailFrom        string
	PubSubProjectID string
	PubSubTopicID   string

	NotificationTimeout time.Duration
	RelayInterval       time.Duration
	RelayBatchSize      int
	RelayMaxAttempts    int

	OrderTimezone *time.Location
}

var defaults = map[string]any{
	"port":                    "8080",
	"temporal_address":        client.DefaultHostPort,
	"temporal_namespace":      client.DefaultNamespace,
	"payment_rate_per_minute": 30,
	"payment_burst":           5,
	"mail_transport":          MailTransportLog,
	"smtp_port":               587,
	"notification_timeout":    "5s",
	"relay_interval":          "15s",
	"relay_batch_size":        20,
	"relay_max_attempts":      8,
	"order_timezone":          "UTC",
}

// LoadConfig reads an optional YAML file named by CONFIG_FILE, overlays environment
// variables (keys lower-cased), applies defaults, and validates the result.
func LoadConfig() (Config, error) {
	k := koanf.New("::")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, errors.Wrapf(err, "default %s", key)
		}
	}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", path)
		}
	}
	if err := k.Load(env.Provider("::", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			value = strings.TrimSpace(value)
			if value == "" {
				return "", nil
			}
			return strings.ToLower(key), value
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load environment")
	}

	cfg := Config{
		Port:                 k.String("port"),
		PostgresDSN:          strings.TrimSpace(k.String("postgres_dsn")),
		RedisAddr:            strings.TrimSpace(k.String("redis_addr")),
		TemporalAddress:      k.String("temporal_address"),
		TemporalNamespace:    k.String("temporal_namespace"),
		TemporalDisabled:     isTruthy(k.String("temporal_disabled")),
		JWTSecret:            k.String("jwt_secret"),
		PaymentKeyID:         k.String("payment_key_id"),
		PaymentKeySecret:     k.String("payment_key_secret"),
		PaymentRatePerMinute: k.Int("payment_rate_per_minute"),
		PaymentBurst:         k.Int("payment_burst"),
		UploadsBucketURL:     k.String("uploads_bucket_url"),
		MailTransport:        strings.ToLower(k.String("mail_transport")),
		SMTPHost:             k.String("smtp_host"),
		SMTPPort:             k.Int("smtp_port"),
		SMTPUsername:         k.String("smtp_username"),
		SMTPPassword:         k.String("smtp_password"),
		MailFrom:             k.String("mail_from"),
		PubSubProjectID:      k.String("pubsub_project_id"),
		PubSubTopicID:        k.String("pubsub_topic_id"),
		NotificationTimeout:  k.Duration("notification_timeout"),
		RelayInterval:        k.Duration("relay_interval"),
		RelayBatchSize:       k.Int("relay_batch_size"),
		RelayMaxAttempts:     k.Int("relay_max_attempts"),
	}

	loc, err := time.LoadLocation(k.String("order_timezone"))
	if err != nil {
		return Config{}, errors.Wrap(err, "ORDER_TIMEZONE must name an IANA time zone")
	}
	cfg.OrderTimezone = loc

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.MailTransport {
	case MailTransportLog:
	case MailTransportSMTP:
		if c.SMTPHost == "" || c.MailFrom == "" {
			return errors.New("MAIL_TRANSPORT=smtp requires SMTP_HOST and MAIL_FROM")
		}
	case MailTransportPubSub:
		if c.PubSubProjectID == "" || c.PubSubTopicID == "" {
			return errors.New("MAIL_TRANSPORT=pubsub requires PUBSUB_PROJECT_ID and PUBSUB_TOPIC_ID")
		}
	default:
		return errors.Errorf("MAIL_TRANSPORT must be one of log, smtp, pubsub (got %q)", c.MailTransport)
	}
	if c.NotificationTimeout <= 0 {
		return errors.New("NOTIFICATION_TIMEOUT must be a positive duration")
	}
	if c.RelayInterval <= 0 {
		return errors.New("RELAY_INTERVAL must be a positive duration")
	}
	if c.RelayBatchSize <= 0 {
		return errors.New("RELAY_BATCH_SIZE must be a positive integer")
	}
	if c.RelayMaxAttempts <= 0 {
		return errors.New("RELAY_MAX_ATTEMPTS must be a positive integer")
	}
	if c.PaymentRatePerMinute < 0 {
		return errors.New("PAYMENT_RATE_PER_MINUTE must not be negative")
	}
	if (c.PaymentKeyID == "") != (c.PaymentKeySecret == "") {
		return errors.New("PAYMENT_KEY_ID and PAYMENT_KEY_SECRET must be set together")
	}
	return nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
