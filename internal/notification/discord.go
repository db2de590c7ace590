package notification

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	apperrors "threatlens/pkg/errors"
)

// Alert is a verdict notification pushed to the configured channel.
type Alert struct {
	Title       string
	Description string
	Severity    string
	Fields      map[string]string
	Timestamp   time.Time
}

type AlertClient struct {
	sg        *discordgo.Session
	channelID string
}

func NewAlertClient(token, channelID string) (*AlertClient, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token not set")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel id not set")
	}

	sg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	if err := sg.Open(); err != nil {
		return nil, err
	}

	return &AlertClient{sg: sg, channelID: channelID}, nil
}

func severityColor(severity string) int {
	switch severity {
	case "critical":
		return 0x8B0000
	case "high":
		return 0xFF0000
	case "medium":
		return 0xFF8C00
	case "low":
		return 0xFFD700
	case "info":
		return 0x00BFFF
	default:
		return 0x808080
	}
}

func (c *AlertClient) Send(alert Alert) error {
	if c.sg == nil {
		return apperrors.ErrNotifierNotConfigured
	}

	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:       alert.Title,
		Description: alert.Description,
		Color:       severityColor(alert.Severity),
		Timestamp:   alert.Timestamp.Format(time.RFC3339),
	}

	if len(alert.Fields) > 0 {
		fields := make([]*discordgo.MessageEmbedField, 0, len(alert.Fields))
		for key, value := range alert.Fields {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:   key,
				Value:  value,
				Inline: true,
			})
		}
		embed.Fields = fields
	}

	_, err := c.sg.ChannelMessageSendEmbed(c.channelID, embed)
	return err
}

func (c *AlertClient) Close() error {
	if c.sg != nil {
		return c.sg.Close()
	}
	return nil
}
