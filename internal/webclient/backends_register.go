package webclient

import "github.com/raysh454/reqview/internal/logging"

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp and chromedp backends.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		client, err := NewNetHTTPClient(cfg, logger, nil)
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
		client, err := NewChromedpClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
}
