package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/settleup/internal/adapter/rpc"
)

func rpcCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpc <method>",
		Short: "Call a method on a running settleup server",
		Long: `Send a {method, params} envelope to the server's /rpc endpoint.
Params are read as JSON from --file or stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params json.RawMessage
			if err := readInput(cmd, opts, &params); err != nil {
				return err
			}

			resp, err := callRPC(cmd, opts, rpc.Request{Method: args[0], Params: string(params)})
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("rpc failed: %s", resp.Error)
			}

			var result any
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				return fmt.Errorf("failed to parse result: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the settleup server")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	return cmd
}

func callRPC(cmd *cobra.Command, opts *options, req rpc.Request) (*rpc.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := commandContext(cmd.Context(), opts.timeout)
	defer cancel()

	url := strings.TrimSuffix(opts.baseURL, "/") + "/rpc"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(data)))
	}

	var resp rpc.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}
