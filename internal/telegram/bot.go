package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"pantry-planner/internal/clipper"
	"pantry-planner/internal/config"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the pantry: free text becomes inventory,
// URLs become clipped recipes, commands read the plan back out.
type Bot struct {
	api          *tgbotapi.BotAPI
	inventorySvc *inventory.Service
	plannerSvc   *planner.Service
	shoppingSvc  *shopping.Service
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	textGen      llm.TextGenerator
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	inventorySvc *inventory.Service,
	plannerSvc *planner.Service,
	shoppingSvc *shopping.Service,
	clip *clipper.Clipper,
	metricsStore *metrics.Store,
	textGen llm.TextGenerator,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		inventorySvc: inventorySvc,
		plannerSvc:   plannerSvc,
		shoppingSvc:  shoppingSvc,
		clipper:      clip,
		metricsStore: metricsStore,
		textGen:      textGen,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/inventory":
		b.handleInventoryCommand(msg.Chat.ID)
	case text == "/shopping":
		b.handleShoppingCommand(msg.Chat.ID)
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleClipperRequest(msg)
	default:
		b.handleInventoryUpdate(msg)
	}
}

func (b *Bot) handleInventoryCommand(chatID int64) {
	ctx := context.Background()
	stores, err := b.inventorySvc.Stores.List(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	items, err := b.inventorySvc.CalculateAvailable(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	b.send(chatID, "🧺 *Available inventory*\n\n"+inventory.FormatAvailable(stores, items))
}

func (b *Bot) handleShoppingCommand(chatID int64) {
	ctx := context.Background()
	sessions, err := b.plannerSvc.Repo().ListSessions(ctx)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if len(sessions) == 0 {
		b.send(chatID, "No planning sessions yet.")
		return
	}

	// Most recent session first.
	session := sessions[0]
	list, err := b.shoppingSvc.Compute(ctx, session.ID)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	b.send(chatID, formatShoppingList(session.Name, list))
}

func formatShoppingList(sessionName string, list shopping.List) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Shopping list for %s*\n", sessionName)
	if len(list.GroceryItems) == 0 {
		sb.WriteString("\nNothing to buy.\n")
	} else {
		sb.WriteString("\n*To buy:*\n")
		for _, item := range list.GroceryItems {
			fmt.Fprintf(&sb, "- %s: %s\n", item.IngredientName, item.TotalQuantity)
		}
	}
	if len(list.PantryStaples) > 0 {
		sb.WriteString("\n*Check the pantry:*\n")
		for _, item := range list.PantryStaples {
			fmt.Fprintf(&sb, "- %s: %s\n", item.IngredientName, item.TotalQuantity)
		}
	}
	return sb.String()
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(context.Background(), 7)
	if err != nil {
		b.sendError(chatID, err)
		return
	}
	if len(usage) == 0 {
		b.send(chatID, "No usage recorded in the last 7 days.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Token usage (7 days)*\n\n")
	for _, day := range usage {
		fmt.Fprintf(&sb, "%s: %d prompt / %d completion (%d calls)\n",
			day.Date, day.TotalPrompt, day.TotalCompletion, day.TotalExecution)
	}
	b.send(chatID, sb.String())
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	rec, claims, meta, err := b.clipper.ClipURL(ctx, msg.Text)
	if rerr := b.metricsStore.RecordMeta(ctx, meta); rerr != nil {
		log.Printf("Failed to record clip metrics: %v", rerr)
	}

	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe saved!*\n\n*%s*\n%d ingredients, %d claimed from inventory.",
			rec.Name, len(rec.Ingredients), len(claims))
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

// handleInventoryUpdate treats free text as a grocery haul to add to the
// default store ("2 lbs carrots and a dozen eggs from the farmers market").
func (b *Bot) handleInventoryUpdate(msg *tgbotapi.Message) {
	ctx := context.Background()

	store, err := b.inventorySvc.Stores.EnsureDefault(ctx, b.cfg.DefaultStoreName)
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}

	items, meta, err := b.inventorySvc.ExtractAndAdd(ctx, b.textGen, store.ID, msg.Text, "")
	if rerr := b.metricsStore.RecordMeta(ctx, meta); rerr != nil {
		log.Printf("Failed to record extraction metrics: %v", rerr)
	}
	if err != nil {
		b.sendError(msg.Chat.ID, err)
		return
	}
	if len(items) == 0 {
		b.send(msg.Chat.ID, "Couldn't find any ingredients in that message.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Added %d item(s):\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&sb, "- %v %s %s\n", item.Quantity, item.Unit, item.IngredientName)
	}
	b.send(msg.Chat.ID, sb.String())
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendError(chatID int64, err error) {
	log.Printf("Bot error: %v", err)
	b.send(chatID, "❌ Something went wrong: "+err.Error())
}
