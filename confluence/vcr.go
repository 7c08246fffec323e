package confluence

import (
	"fmt"
	"net/http"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// Record swaps the API's HTTP client for a go-vcr recorder.  Captured interactions never contain
// the Authorization header.  Call the returned function to flush the cassette to disk.
func (api *API) Record(cassetteName string, mode recorder.Mode) (func() error, error) {
	transport := http.DefaultTransport
	if api.Client != nil && api.Client.Transport != nil {
		transport = api.Client.Transport
	}

	opts := &recorder.Options{
		CassetteName:       cassetteName,
		Mode:               mode,
		SkipRequestLatency: true,
		RealTransport:      transport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()

	return r.Stop, nil
}
