package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arsmn/go-smsir/smsir"
	"github.com/nyaruka/phonenumbers"

	"github.com/Alijeyrad/telecare_backend/config"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// Sender is what callers depend on; *Client implements it.
type Sender interface {
	SendDecision(ctx context.Context, phone string, approved bool, name string) error
	IsEnabled() bool
}

// Client sends templated SMS via sms.ir.
type Client struct {
	client           *smsir.Client
	enabled          bool
	region           string
	approvedTemplate string
	deniedTemplate   string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	region := strings.ToUpper(strings.TrimSpace(cfg.DefaultRegion))
	if region == "" {
		region = "BR"
	}

	if !cfg.Enabled {
		return &Client{enabled: false, region: region}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.ApprovedTemplateID == "" || cfg.SMSIR.DeniedTemplateID == "" {
		return nil, fmt.Errorf("sms.ir decision template ids required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:           client,
		enabled:          true,
		region:           region,
		approvedTemplate: cfg.SMSIR.ApprovedTemplateID,
		deniedTemplate:   cfg.SMSIR.DeniedTemplateID,
	}, nil
}

// NormalizePhone parses raw in the given default region and returns it in
// E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// SendDecision notifies a patient of their evaluation outcome. The templates
// take a single "name" parameter.
func (c *Client) SendDecision(ctx context.Context, phone string, approved bool, name string) error {
	if !c.enabled {
		return nil
	}

	mobile, err := NormalizePhone(phone, c.region)
	if err != nil {
		return err
	}

	templateID := c.deniedTemplate
	if approved {
		templateID = c.approvedTemplate
	}

	return c.send(ctx, mobile, templateID, []smsir.UltraFastParameter{
		{Key: "name", Value: name},
	})
}

func (c *Client) send(ctx context.Context, mobile, templateID string, params []smsir.UltraFastParameter) error {
	if templateID == "" {
		return fmt.Errorf("template ID is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     mobile,
		TemplateID: templateID,
		Parameters: params,
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
