package emailsvc

import (
	"log"
	"net/http"
	"net/mail"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/shuleapp/shule/core"
)

type sendgridService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	client           *sendgrid.Client
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService() core.EmailService {
	return &sendgridService{
		defaultFromEmail: core.Conf.DefaultFromEmail,
		subjPrefix:       "[" + core.Conf.AppName + "] ",
		client:           sendgrid.NewSendClient(core.Conf.SendgridAPIKey),
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc sendgridService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(svc.defaultFromEmail.Name, svc.defaultFromEmail.Address))
	m.Subject = svc.subjPrefix + msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail(cc.Name, cc.Address))
	}
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	resp, err := svc.client.Send(m)
	if err != nil {
		log.Printf("%+v", errors.Wrap(err, "sending email via sendgrid"))
		return
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
}
