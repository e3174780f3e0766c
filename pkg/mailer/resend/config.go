package resend

import "net/url"

// Config holds Resend API settings.
type Config struct {
	APIKey   string `env:"RESEND_API_KEY"`
	From     string `env:"RESEND_FROM_EMAIL"`
	FromName string `env:"RESEND_FROM_NAME"`
	// BaseURL overrides the API endpoint, for a relay or a local stub.
	BaseURL string `env:"RESEND_BASE_URL"`
}

func (c Config) baseURL() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, nil
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}
	return u, nil
}
