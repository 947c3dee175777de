package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// sesAPI is the slice of the SES client the sink uses; narrowed for mocking.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSink emails form owners through Amazon SES.
type SESSink struct {
	client sesAPI
	sender string
}

// NewSESSink builds a sink from the ambient AWS configuration.
func NewSESSink(ctx context.Context, region, sender string) (*SESSink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESSink{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

// NewSESSinkWithClient injects a pre-built client; used in tests.
func NewSESSinkWithClient(client sesAPI, sender string) *SESSink {
	return &SESSink{client: client, sender: sender}
}

// Notify emails every configured recipient in a single SES call.
func (s *SESSink) Notify(ctx context.Context, event Event) error {
	if len(event.Recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("New submission: %s", event.FormName)
	body := fmt.Sprintf(
		"Your form %q received a new submission at %s.\n\nOpen your dashboard to review it.",
		event.FormName,
		event.ReceivedAt.UTC().Format("2006-01-02 15:04 UTC"),
	)

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: event.Recipients,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}
	return nil
}
