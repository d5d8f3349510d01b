package aws

import (
	"context"
	"errors"
	"gsc/src/lib"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func SESSendMessage(ctx context.Context, from *string, destination *types.Destination, message *types.Message) error {
	c := lib.AWSGetSESClient()
	if c == nil {
		return errors.New("ses client unavailable")
	}
	out, err := c.SendEmail(ctx, &ses.SendEmailInput{
		Destination: destination,
		Source:      from,
		Message:     message,
	})
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return err
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
	return nil
}

// SESMessage converts a mail input to SES destination and message shapes.
func SESMessage(input *lib.SendMailInput) (*types.Destination, *types.Message) {
	body := &types.Body{}
	content := &types.Content{Data: aws.String(input.Body), Charset: aws.String("UTF-8")}
	if input.Html {
		body.Html = content
	} else {
		body.Text = content
	}
	return &types.Destination{
			ToAddresses:  input.To,
			CcAddresses:  input.Cc,
			BccAddresses: input.Bcc,
		}, &types.Message{
			Subject: &types.Content{Data: aws.String(input.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		}
}
