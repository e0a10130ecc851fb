package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/tourprism/tp-ui-api/internal/domain/auth"
)

const sessionKeyPrefix = "session:"

type listSessionsOptions struct {
	Limit int
}

type purgeSessionOptions struct {
	ID  string
	Yes bool
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	opts := listSessionsOptions{}
	fs.IntVar(&opts.Limit, "limit", 100, "maximum number of sessions to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	sessions, err := scanSessions(ctx, client, opts.Limit)
	if err != nil {
		return err
	}

	return printSessions(os.Stdout, sessions)
}

func scanSessions(ctx context.Context, client redis.UniversalClient, limit int) ([]domainauth.Session, error) {
	var sessions []domainauth.Session

	iter := client.Scan(ctx, 0, sessionKeyPrefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		if limit > 0 && len(sessions) >= limit {
			break
		}

		data, err := client.Get(ctx, iter.Val()).Result()
		if err != nil {
			// Key expired between scan and get.
			continue
		}

		var sess domainauth.Session
		if err := json.Unmarshal([]byte(data), &sess); err != nil {
			continue
		}
		if sess.ID == "" {
			sess.ID = strings.TrimPrefix(iter.Val(), sessionKeyPrefix)
		}
		sessions = append(sessions, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ExpiresAt.Before(sessions[j].ExpiresAt)
	})
	return sessions, nil
}

func printSessions(w io.Writer, sessions []domainauth.Session) error {
	if len(sessions) == 0 {
		return writeln(w, "no active sessions")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SESSION ID\tUSER\tEMAIL\tROLE\tEXPIRES"); err != nil {
		return err
	}
	for _, s := range sessions {
		role := string(s.Role)
		if s.IsCollaborator {
			role += " (" + s.CollaboratorRole.Token() + ")"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.UserID, s.Email, role, s.ExpiresAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runPurgeSession(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("purge-session", flag.ContinueOnError)
	opts := purgeSessionOptions{}
	fs.StringVar(&opts.ID, "id", "", "session ID to delete")
	fs.BoolVar(&opts.Yes, "yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if opts.ID == "" {
		return fmt.Errorf("-id is required")
	}

	if !opts.Yes {
		if err := confirm(fmt.Sprintf("delete session %q?", opts.ID)); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	client, err := connectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx.Logger, client)

	deleted, err := client.Del(ctx, sessionKeyPrefix+opts.ID).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	cmdCtx.Logger.Info("purge session complete", "session_id", opts.ID, "deleted", deleted)
	return nil
}

func confirm(prompt string) error {
	if err := writef(os.Stdout, "%s [y/N]: ", prompt); err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer != "y" && answer != "yes" {
		return fmt.Errorf("aborted")
	}
	return nil
}
