package sfncallback

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/caarlos0/env/v6"
)

// Settings holds the configuration shared by every Lambda in this module,
// read from the environment.
type Settings struct {
	Region             string        `env:"AWS_REGION" envDefault:"us-east-1"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	FailureDlqURL      string        `env:"FAILURE_DLQ_URL"`
	ReportItemFailures bool          `env:"REPORT_BATCH_ITEM_FAILURES" envDefault:"true"`
	ProcessRequest     bool          `env:"APP_PROCESS_REQUEST" envDefault:"false"`
	ConsultDelay       time.Duration `env:"CONSULT_DELAY" envDefault:"2s"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (*Settings, error) {
	cfg := &Settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return cfg, nil
}

// LoadAWSConfig loads the default SDK configuration for the configured region.
func (s *Settings) LoadAWSConfig(c context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(c, config.WithRegion(s.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}
