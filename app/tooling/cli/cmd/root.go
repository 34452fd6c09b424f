// Package cmd contains the ledger client app.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	url     string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:3000", "Url of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 10*time.Minute, "Time to wait for the node to respond.")
}

var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Client for a proof of work ledger node",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command specified on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// =============================================================================

// call performs the request against the node and writes the response to out
// as indented JSON. A status outside of the 2xx range is returned as an error
// carrying the message the node responded with.
func call(out io.Writer, method string, path string, body any) error {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(url, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	req := client.R()
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	if resp.IsError() {
		var er struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resp.Body(), &er); err != nil || er.Error == "" {
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode())
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode(), er.Error)
	}

	var v any
	if err := json.Unmarshal(resp.Body(), &v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
