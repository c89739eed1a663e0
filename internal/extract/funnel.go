// Package extract turns the two inbound payload families into the canonical
// ExtractedVariables record. Extraction is total: malformed or incomplete
// input yields empty fields, never an error.
package extract

import (
	"bytes"
	"encoding/json"

	"github.com/leshachaplin/convgate/internal/domain"
	"github.com/leshachaplin/convgate/internal/vals"
)

// The messaging platform moved the variable bag and the conversation id
// around between schema versions. Each funnelPayload accessor walks an
// explicit ordered fallback chain so both generations keep working without a
// mode flag.

type funnelPayload struct {
	Title   any            `json:"title"`
	Service any            `json:"service"`
	Contact *funnelContact `json:"contact"`
}

type funnelContact struct {
	Variables       map[string]any   `json:"variables"`
	TelegramID      any              `json:"telegram_id"`
	LastMessageData *lastMessageData `json:"last_message_data"`
}

type lastMessageData struct {
	ChatID     any             `json:"chat_id"`
	TelegramID any             `json:"telegram_id"`
	Message    *trackedMessage `json:"message"`
}

type trackedMessage struct {
	TrackingData *trackingData `json:"tracking_data"`
}

type trackingData struct {
	ContactVariables map[string]any `json:"contact_variables"`
}

func (p *funnelPayload) variableBag() map[string]any {
	for _, bag := range []map[string]any{
		p.contactVariables(),
		p.trackingVariables(),
	} {
		if len(bag) > 0 {
			return bag
		}
	}
	return nil
}

func (p *funnelPayload) contactVariables() map[string]any {
	if p.Contact == nil {
		return nil
	}
	return p.Contact.Variables
}

func (p *funnelPayload) trackingVariables() map[string]any {
	if p.Contact == nil || p.Contact.LastMessageData == nil ||
		p.Contact.LastMessageData.Message == nil ||
		p.Contact.LastMessageData.Message.TrackingData == nil {
		return nil
	}
	return p.Contact.LastMessageData.Message.TrackingData.ContactVariables
}

func (p *funnelPayload) conversationID() string {
	var candidates []any
	if p.Contact != nil {
		candidates = append(candidates, p.Contact.TelegramID)
		if lmd := p.Contact.LastMessageData; lmd != nil {
			candidates = append(candidates, lmd.ChatID, lmd.TelegramID)
		}
	}
	return firstNonEmpty(candidates...)
}

func (p *funnelPayload) title() string {
	return firstNonEmpty(p.Title, p.Service)
}

// Funnel extracts the canonical variable record from a messaging-funnel
// notification body. The platform delivers single-notification batches, so a
// JSON array is reduced to its first element.
func Funnel(body []byte) domain.ExtractedVariables {
	var p funnelPayload
	_ = json.Unmarshal(firstItem(body), &p)

	ex := domain.ExtractedVariables{
		Vars:           stringBag(p.variableBag()),
		ConversationID: p.conversationID(),
		Title:          p.title(),
		Source:         domain.ActionSourceChat,
	}
	return ex
}

func firstItem(body []byte) []byte {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return body
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
		return nil
	}
	return items[0]
}

func firstNonEmpty(candidates ...any) string {
	for _, c := range candidates {
		if s := vals.String(c); s != "" {
			return s
		}
	}
	return ""
}

func stringBag(raw map[string]any) map[string]string {
	bag := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := vals.String(v); s != "" {
			bag[k] = s
		}
	}
	return bag
}
