package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"loom/cmd/loom/ui"
	"loom/internal/history"
	"loom/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List persisted chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.History.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.Sessions()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("no sessions")
			return nil
		}
		for _, info := range infos {
			title := info.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Printf("%s  %-24s %4d entries  %s\n",
				info.ID, title, info.Entries, info.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var deleteSession bool

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Print a session transcript, surfaces included, without the chat UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.History.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if deleteSession {
			logger.Info("deleting session", zap.String("id", args[0]))
			return store.DeleteSession(args[0])
		}

		entries, err := store.LoadSession(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("session %s not found or empty", args[0])
		}
		logger.Debug("replaying session",
			zap.String("id", args[0]), zap.Int("entries", len(entries)))

		sess := session.Restore(args[0], "", entries)
		styles := ui.DefaultStyles("notty")
		for _, item := range sess.Transcript {
			switch item.Role {
			case history.RoleUser:
				fmt.Printf("you> %s\n\n", item.Content)
			case history.RoleAssistant:
				fmt.Printf("loom> %s\n\n", item.Content)
			case history.RoleSurface:
				printed := map[string]bool{}
				for _, msg := range item.Msgs {
					id := msg.SurfaceID()
					if id == "" || printed[id] {
						continue
					}
					printed[id] = true
					surf := sess.Registry.Get(id)
					if surf == nil || surf.Revision != item.EntryID {
						// Superseded by a later entry.
						continue
					}
					view := ui.Render(surf, styles, 72, -1)
					if view.Body != "" {
						fmt.Println(view.Body)
						fmt.Println()
					}
				}
			}
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.LLM.APIKey != "" {
			shown.LLM.APIKey = strings.Repeat("*", 8)
		}
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&deleteSession, "delete", false, "delete the session instead of replaying it")
}
