package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

var ErrMissingConfig = errors.New("missing xmpp config")

type (
	// Config for the notifier.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func serverName(jid string) string {
	parts := strings.SplitN(jid, "@", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.SplitN(parts[1], "/", 2)[0]
}

// Configured reports whether Send has enough settings to deliver a message.
func (x Xmpp) Configured() bool {
	return len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func (x Xmpp) options() xmpp.Options {
	host := x.Config.Host
	if len(host) == 0 {
		host = serverName(x.Config.Jid)
	}

	return xmpp.Options{
		Host:          host,
		TLSConfig:     &tls.Config{ServerName: serverName(x.Config.Jid)},
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Watching the fleet",
	}
}

// Send delivers message to the configured recipient.
func (x Xmpp) Send(message string) error {
	if !x.Configured() {
		log.Warn("missing xmpp config")
		return ErrMissingConfig
	}

	options := x.options()

	log.WithField("host", options.Host).Debug("create xmpp client")
	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("xmpp client")
		return err
	}
	defer talk.Close()

	log.WithField("to", x.Config.To).Debug("send xmpp message")
	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		return err
	}

	return nil
}
