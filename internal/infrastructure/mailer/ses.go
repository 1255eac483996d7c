package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

var _ ports.Mailer = (*SES)(nil)

// ErrSESCredentials faltan claves o región en la configuración del workspace.
var ErrSESCredentials = errors.New("SES access key, secret key, and region are required.")

const charset = "UTF-8"

// SESAPI subconjunto del cliente de SES que usa el adaptador.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESFactory construye un cliente con las credenciales de un workspace.
type SESFactory func(ctx context.Context, accessKey, secretKey, region string) (SESAPI, error)

// SES entrega por Amazon SES con credenciales estáticas por workspace.
type SES struct {
	newClient SESFactory
}

// NewSES crea el adaptador con el cliente real de aws-sdk-go-v2.
func NewSES() *SES {
	return &SES{newClient: defaultSESClient}
}

// WithFactory reemplaza la construcción del cliente (tests).
func (s *SES) WithFactory(f SESFactory) *SES {
	s.newClient = f
	return s
}

func defaultSESClient(ctx context.Context, accessKey, secretKey, region string) (SESAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("ses config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

// SendEmailInput traduce el mensaje a la petición de SES.
func SendEmailInput(msg ports.Message) *ses.SendEmailInput {
	source := msg.From
	if msg.FromName != "" {
		source = (&mail.Address{Name: msg.FromName, Address: msg.From}).String()
	}
	dest := &types.Destination{ToAddresses: []string{msg.To}}
	if len(msg.CC) > 0 {
		dest.CcAddresses = msg.CC
	}
	return &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: dest,
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)},
			},
		},
	}
}

// Send entrega el mensaje con las credenciales SES del workspace.
func (s *SES) Send(ctx context.Context, settings entity.EmailSettings, msg ports.Message) error {
	accessKey := strings.TrimSpace(settings.SESAccessKey)
	secretKey := strings.TrimSpace(settings.SESSecretKey)
	region := strings.TrimSpace(settings.SESRegion)
	if accessKey == "" || secretKey == "" || region == "" {
		return ErrSESCredentials
	}
	if msg.From == "" {
		return ErrMissingFrom
	}
	client, err := s.newClient(ctx, accessKey, secretKey, region)
	if err != nil {
		return err
	}
	if _, err := client.SendEmail(ctx, SendEmailInput(msg)); err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}
	return nil
}
