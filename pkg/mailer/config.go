package mailer

// Transport names accepted by Config.Transport.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
	TransportLog    = "log"
)

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Transport     string `env:"MAIL_TRANSPORT" envDefault:"log"`
	DefaultLayout string `env:"MAIL_DEFAULT_LAYOUT" envDefault:"base.html"`
}
