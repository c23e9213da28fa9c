// jobberctl is a small operator CLI for a running relay: it can kick off a
// connect or disconnect flow by hand and sign or verify state tokens offline.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/jobberconnect/internal/security/state"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// codecFromEnv mirrors the service's codec selection so tokens signed here
// verify against a relay configured with the same secret.
func codecFromEnv() state.Codec {
	secret := strings.TrimSpace(os.Getenv("STATE_SIGNING_SECRET"))
	if secret == "" {
		return state.NewContainer()
	}
	ttl := 15 * time.Minute
	if v := os.Getenv("STATE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	return state.NewSigned(secret, ttl)
}

func main() {
	var (
		baseURL = envOr("JOBBERCONNECT_URL", "http://localhost:8080")
		out     = envOr("JOBBERCONNECT_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "jobberctl",
		Short: "Operator CLI for the Jobber connect relay",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "relay base URL (env JOBBERCONNECT_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")

	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: &http.Client{Timeout: 30 * time.Second}}

	// start: POST /jobber/start
	var startPhone string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Request an authorization URL for a phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if startPhone == "" {
				return fmt.Errorf("--phone is required")
			}
			b, _ := json.Marshal(map[string]string{"phone_number": startPhone})
			status, body, err := cl.do("POST", "/jobber/start", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("start failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	startCmd.Flags().StringVar(&startPhone, "phone", "", "phone number to connect")

	// disconnect: POST /jobber/disconnect/start
	var discPhone, discTrigger string
	disconnectCmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Relay a disconnect for a phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if discPhone == "" {
				return fmt.Errorf("--phone is required")
			}
			payload := map[string]string{"phoneNumber": discPhone}
			if discTrigger != "" {
				payload["trigger"] = discTrigger
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/jobber/disconnect/start", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("disconnect failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	disconnectCmd.Flags().StringVar(&discPhone, "phone", "", "phone number to disconnect")
	disconnectCmd.Flags().StringVar(&discTrigger, "trigger", "", "trigger label forwarded to the sink")

	// state group: offline token helpers
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Sign or verify state tokens offline (env STATE_SIGNING_SECRET)",
	}

	var signClientID, signPhone string
	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Produce a state token for a client id and phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if signClientID == "" || signPhone == "" {
				return fmt.Errorf("--client-id and --phone are required")
			}
			token, err := codecFromEnv().Encode(state.Payload{
				ClientID:    signClientID,
				PhoneNumber: signPhone,
				IssuedAt:    time.Now().Unix(),
			})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	signCmd.Flags().StringVar(&signClientID, "client-id", "", "internal client id")
	signCmd.Flags().StringVar(&signPhone, "phone", "", "phone number")

	verifyCmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Decode a state token and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := codecFromEnv().Decode(args[0])
			if err != nil {
				return fmt.Errorf("verify failed: %v", err)
			}
			p, _ := json.MarshalIndent(payload, "", "  ")
			fmt.Println(string(p))
			return nil
		},
	}

	stateCmd.AddCommand(signCmd, verifyCmd)
	root.AddCommand(startCmd, disconnectCmd, stateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
