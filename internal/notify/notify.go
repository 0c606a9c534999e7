// Package notify announces task events outside the store.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Kavas-89/Task-Management-System/internal/models"
	"github.com/bwmarrin/discordgo"
)

// Notifier is told about task assignments. Implementations report their own
// failures; callers never see them.
type Notifier interface {
	TaskAssigned(ctx context.Context, task models.Task, assignee models.User)
}

// LogNotifier writes assignments to the log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("notifier", "log")}
}

func (n *LogNotifier) TaskAssigned(ctx context.Context, task models.Task, assignee models.User) {
	n.logger.InfoContext(ctx, "task assigned",
		"task_id", task.ID,
		"title", task.Title,
		"assignee", assignee.Username,
		"due_date", task.DueDate,
	)
}

// WebhookTimeout bounds a single webhook post.
const WebhookTimeout = 10 * time.Second

// DiscordNotifier posts assignments through a Discord webhook. Posts run in
// the background; Wait blocks until the pending ones are done.
type DiscordNotifier struct {
	session   *discordgo.Session
	webhookID string
	token     string
	logger    *slog.Logger

	send    func(ctx context.Context, content string) error
	pending sync.WaitGroup
}

// NewDiscordNotifier creates a notifier for the webhook identified by
// webhookID and token. Webhooks need no bot token.
func NewDiscordNotifier(webhookID, token string, logger *slog.Logger) (*DiscordNotifier, error) {
	if webhookID == "" || token == "" {
		return nil, fmt.Errorf("discord webhook id and token are required")
	}

	dg, err := discordgo.New("")
	if err != nil {
		return nil, err
	}

	n := &DiscordNotifier{
		session:   dg,
		webhookID: webhookID,
		token:     token,
		logger:    logger.With("notifier", "discord"),
	}
	n.send = n.execute
	return n, nil
}

// TaskAssigned returns immediately. The post outlives the request context and
// is cut off after WebhookTimeout.
func (n *DiscordNotifier) TaskAssigned(ctx context.Context, task models.Task, assignee models.User) {
	content := FormatAssignment(task, assignee)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), WebhookTimeout)

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		defer cancel()
		if err := n.send(ctx, content); err != nil {
			n.logger.WarnContext(ctx, "failed to post assignment", "task_id", task.ID, "error", err)
		}
	}()
}

// Wait blocks until every post started so far has finished.
func (n *DiscordNotifier) Wait() {
	n.pending.Wait()
}

func (n *DiscordNotifier) execute(ctx context.Context, content string) error {
	_, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Content: content,
	}, discordgo.WithContext(ctx))
	return err
}

// Multi fans an event out to several notifiers.
type Multi []Notifier

func (m Multi) TaskAssigned(ctx context.Context, task models.Task, assignee models.User) {
	for _, n := range m {
		n.TaskAssigned(ctx, task, assignee)
	}
}

// FormatAssignment renders an assignment as a chat message.
func FormatAssignment(task models.Task, assignee models.User) string {
	var b strings.Builder
	b.WriteString("📌 **New task assigned**: `" + task.Title + "`\n")
	b.WriteString("👤 **Assignee**: `" + assignee.Username + "`\n")
	if task.Priority != "" {
		b.WriteString("⚡ **Priority**: `" + string(task.Priority) + "`\n")
	}
	if task.DueDate != "" {
		b.WriteString("📅 **Due**: `" + task.DueDate + "`\n")
	}
	return b.String()
}
