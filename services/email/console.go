package emailsvc

import (
	"log"
	"net/mail"
	"strings"
	"sync"

	"github.com/shuleapp/shule/core"
)

var (
	// SentMessages records messages sent through a mocked console service;
	// tests inspect it.
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	mock             bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService() core.EmailService {
	return &consoleService{
		defaultFromEmail: core.Conf.DefaultFromEmail,
		subjPrefix:       "[" + core.Conf.AppName + "] ",
	}
}

// NewConsoleServiceMock records messages instead of printing them.
func NewConsoleServiceMock() core.EmailService {
	return &consoleService{
		defaultFromEmail: core.Conf.DefaultFromEmail,
		subjPrefix:       "[" + core.Conf.AppName + "] ",
		mock:             true,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if svc.mock {
			// synchronous so tests can inspect SentMessages right away
			svc.sendMessage(msg)
			continue
		}
		go svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}
	if svc.mock {
		mu.Lock()
		SentMessages = append(SentMessages, *msg)
		mu.Unlock()
		return
	}

	body := new(strings.Builder)
	body.WriteString("From: " + svc.defaultFromEmail.String() + "\n")
	body.WriteString("To: " + joinAddresses(msg.To) + "\n")
	if len(msg.Cc) > 0 {
		body.WriteString("Cc: " + joinAddresses(msg.Cc) + "\n")
	}
	body.WriteString("Subject: " + svc.subjPrefix + msg.Subject + "\n\n")
	body.WriteString(msg.Body)
	log.Printf("sending email:\n%s\n", body.String())
}

func joinAddresses(addrs []mail.Address) string {
	strs := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		strs = append(strs, addr.String())
	}
	return strings.Join(strs, ", ")
}
