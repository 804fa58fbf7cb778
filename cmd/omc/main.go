package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cl "omerta/internal/cli"
	"omerta/internal/config"
	"omerta/internal/feed"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL
	natsURL := cfg.NatsURL

	root := &cobra.Command{
		Use:          "omc",
		Short:        "Omerta CLI game client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSignupCmd(&apiBase),
		newLoginCmd(&apiBase),
		newLogoutCmd(),
		newStateCmd(&apiBase),
		newWorldCmd(&apiBase),
		newStocksCmd(&apiBase),
		newDistrictsCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newDoCmd(&apiBase),
		newEndTurnCmd(&apiBase),
		newWashCmd(&apiBase),
		newTradeCmd(&apiBase),
		newHaulCmd(&apiBase),
		newSyncCmd(&apiBase),
		newFeedCmd(&natsURL),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newSignupCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an Omerta account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			username, err := promptRequired("Username")
			if err != nil {
				return err
			}
			gang, err := promptOptional("Gang (optional)")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Signup(ctx, email, password, username, gang)
			if err != nil {
				return err
			}
			if strings.TrimSpace(session.AccessToken) == "" {
				printWarn("Signup created. Verify email, then run `omc login`.")
				return nil
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
				Username:     username,
				Gang:         gang,
			}); err != nil {
				return err
			}
			printSuccess("Signup complete. Session saved.")
			return nil
		},
	}
}

func newLoginCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login to Omerta",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := promptRequired("Email")
			if err != nil {
				return err
			}
			password, err := promptRequired("Password")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			client := newClient(apiBase)
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := cl.SaveSession(cl.Session{
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				Email:        session.User.Email,
				UserID:       session.User.ID,
				Username:     session.User.Username(),
				Gang:         session.User.Gang(),
			}); err != nil {
				return err
			}
			printSuccess("Login successful.")
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear local session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearSession(); err != nil {
				return err
			}
			printSuccess("Logged out.")
			return nil
		},
	}
}

func newStateCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show your empire",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).State(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderState(out)
		},
	}
}

func newWorldCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "world",
		Short: "Show the shared world clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			ws, err := newClient(apiBase).World(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			renderWorld(ws)
			return nil
		},
	}
}

func newStocksCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "Show the stock market and your holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Stocks(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderStocks(out)
		},
	}
}

func newDistrictsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "districts",
		Short: "Show district influence standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Districts(ctx, sess.AccessToken)
			if err != nil {
				return err
			}
			return renderDistricts(out)
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the net worth leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Leaderboard(ctx, sess.AccessToken, limit)
			if err != nil {
				return err
			}
			return renderLeaderboard(out)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of rows")
	return cmd
}

// newDoCmd submits any action by name with a raw JSON payload. Queues the
// action locally when the API is unreachable.
func newDoCmd(apiBase *string) *cobra.Command {
	var payloadJSON string
	var queueOnFail bool
	cmd := &cobra.Command{
		Use:   "do <action>",
		Short: "Submit an action by name with a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(payloadJSON)
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), apiBase, args[0], payload, queueOnFail)
		},
	}
	cmd.Flags().StringVar(&payloadJSON, "payload", "", "action payload as JSON")
	cmd.Flags().BoolVar(&queueOnFail, "queue", false, "queue locally if the API is unreachable")
	return cmd
}

func newEndTurnCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "end-turn",
		Short: "Advance your day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd.Context(), apiBase, "end_turn", nil, false)
		},
	}
}

func newWashCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wash <amount>",
		Short: "Launder dirty money",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), apiBase, "wash_money", map[string]any{"amount": amount}, false)
		},
	}
}

func newTradeCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trade <buy|sell> <stock> <shares>",
		Short: "Buy or sell shares",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			side := strings.ToLower(strings.TrimSpace(args[0]))
			action := ""
			switch side {
			case "buy":
				action = "buy_stock"
			case "sell":
				action = "sell_stock"
			default:
				return fmt.Errorf("side must be buy or sell")
			}
			shares, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), apiBase, action, map[string]any{
				"stock_id": strings.ToUpper(strings.TrimSpace(args[1])),
				"shares":   shares,
			}, false)
		},
	}
}

func newHaulCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "haul <buy|sell> <good> <quantity>",
		Short: "Trade contraband at local street prices",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := strings.ToLower(strings.TrimSpace(args[0]))
			if mode != "buy" && mode != "sell" {
				return fmt.Errorf("mode must be buy or sell")
			}
			qty, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), apiBase, "trade", map[string]any{
				"good_id":  strings.ToLower(strings.TrimSpace(args[1])),
				"mode":     mode,
				"quantity": qty,
			}, false)
		},
	}
}

// newSyncCmd replays actions queued while offline, in order. Replay stops at
// the first transport failure so the remainder stays queued.
func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay actions queued while offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := cl.LoadSession()
			if err != nil {
				return fmt.Errorf("login required: %w", err)
			}
			queued, err := cl.LoadQueue()
			if err != nil {
				return err
			}
			if len(queued) == 0 {
				printInfo("Queue is empty.")
				return nil
			}
			client := newClient(apiBase)
			remaining := make([]cl.QueuedAction, 0, len(queued))
			for i, qa := range queued {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				result, err := client.Action(ctx, sess.AccessToken, qa.Name, qa.Payload, qa.IdempotencyKey)
				cancel()
				if err != nil {
					remaining = append(remaining, queued[i:]...)
					printWarn(fmt.Sprintf("Replay stopped at %q: %v", qa.Name, err))
					break
				}
				renderResult(result)
			}
			if err := cl.SaveQueue(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Replayed %d of %d queued actions.", len(queued)-len(remaining), len(queued)))
			return nil
		},
	}
}

// newFeedCmd streams the realtime feed straight off the broker.
func newFeedCmd(natsURL *string) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Stream realtime world events",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(*natsURL)
			if url == "" {
				return fmt.Errorf("OMERTA_NATS_URL is not set")
			}
			pub, err := feed.Connect(url, nil)
			if err != nil {
				return err
			}
			defer pub.Close()

			unsubscribe, err := pub.Subscribe(subject, func(data []byte) {
				printFeedEvent(data)
			})
			if err != nil {
				return err
			}
			defer unsubscribe()

			printInfo("Streaming " + subject + " (ctrl-c to stop)")
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "omerta.feed.>", "feed subject to subscribe to")
	return cmd
}

func runAction(ctx context.Context, apiBase *string, name string, payload map[string]any, queueOnFail bool) error {
	sess, err := cl.LoadSession()
	if err != nil {
		return fmt.Errorf("login required: %w", err)
	}
	idem := uuid.NewString()
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	result, err := newClient(apiBase).Action(reqCtx, sess.AccessToken, name, payload, idem)
	if err != nil {
		if queueOnFail {
			if qErr := cl.PushQueue(cl.QueuedAction{
				Name:           name,
				Payload:        payload,
				IdempotencyKey: idem,
			}); qErr != nil {
				return qErr
			}
			printWarn(fmt.Sprintf("API unreachable, queued %q for `omc sync`.", name))
			return nil
		}
		return err
	}
	renderResult(result)
	return nil
}
