package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream domain events from the server",
		Long: `Connect to the server's WebSocket endpoint and stream domain events
in real-time.

Events include:
  - player_created: A new account was created
  - missile_attached: A missile was moved into a fighter's inventory
  - upgrade_applied: A fighter upgrade was purchased
  - gold_awarded: A player's gold balance increased
  - combat_resolved: An engagement was settled
  - score_updated: A leaderboard score changed

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// streamEvent is a received domain event
type streamEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	PlayerID  string          `json:"player_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(os.Stderr, "Connected to %s (Ctrl+C to disconnect)\n", wsURL)

	// Close the connection on Ctrl+C; the read loop then unblocks with an
	// error and we exit cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nDisconnecting...")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			// A close triggered by the signal handler is a clean exit too.
			if strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		if jsonOutput {
			fmt.Println(string(data))
			continue
		}

		var event streamEvent
		if err := json.Unmarshal(data, &event); err != nil {
			fmt.Println(string(data))
			continue
		}
		printStreamEvent(event)
	}
}

func printStreamEvent(event streamEvent) {
	line := fmt.Sprintf("[%s] %s", event.Timestamp.Format(time.RFC3339), event.Type)
	if event.PlayerID != "" {
		line += " player=" + event.PlayerID
	}
	if len(event.Payload) > 0 {
		line += " " + string(event.Payload)
	}
	fmt.Println(line)
}

// websocketURL converts the configured server URL to the events endpoint
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/events"
	return u.String(), nil
}
