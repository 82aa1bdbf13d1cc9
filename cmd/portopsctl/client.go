package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
}

// request executes one HTTP call and returns the raw response body.
// Non-2xx responses are surfaced as errors with the server's error body.
func request(method, path string, body []byte) (string, error) {
	req := newClient().R()
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.String(), nil
}

func doGet(path string) (string, error)    { return request(http.MethodGet, path, nil) }
func doDelete(path string) (string, error) { return request(http.MethodDelete, path, nil) }

// readPayload loads a JSON request body from a file, or stdin when the
// argument is "-".
func readPayload(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}
