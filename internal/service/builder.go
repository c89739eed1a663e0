package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leshachaplin/convgate/internal/domain"
	"github.com/leshachaplin/convgate/internal/identity"
	"github.com/leshachaplin/convgate/internal/metrics"
	"github.com/leshachaplin/convgate/internal/vals"
)

// Alias chains are ordered: the first non-empty variable wins. The longer
// lists exist because upstream funnels renamed these fields over the years
// and old funnels keep firing.
var (
	stableIDAliases = []string{"lead_id", "click_id", "session_id"}
	emailAliases    = []string{"email", "e_mail", "user_email"}
	phoneAliases    = []string{"phone", "phone_number", "whatsapp"}
	eventTimeAlias  = []string{"deposit_time", "reg_time", "event_time"}
	valueAliases    = []string{"value", "amount", "first_deposit_amount"}

	trackingFields = []string{"utm_source", "utm_medium", "utm_campaign", "utm_content", "fbclid"}
)

// Builder assembles canonical events. Stateless apart from configuration.
type Builder struct {
	chatSource      domain.ActionSource
	defaultCurrency string
	logger          zerolog.Logger
	now             func() time.Time
}

func NewBuilder(chatSource domain.ActionSource, defaultCurrency string, logger zerolog.Logger) *Builder {
	if chatSource == "" {
		chatSource = domain.ActionSourceChat
	}
	return &Builder{
		chatSource:      chatSource,
		defaultCurrency: defaultCurrency,
		logger:          logger,
		now:             time.Now,
	}
}

// Build combines a registry definition, the extracted variables and the
// connection context into one canonical event. event_id is a pure function
// of the stable identifier and the canonical name, so redeliveries collapse
// at the sink.
func (b *Builder) Build(
	def domain.EventDefinition,
	extracted domain.ExtractedVariables,
	conn domain.ConnectionContext,
) domain.CanonicalEvent {
	stableID := extracted.Var(stableIDAliases...)
	if stableID == "" {
		// Last resort. Deduplication is off for this one event; the sink
		// will treat every redelivery as new.
		stableID = uuid.NewString()
		metrics.FallbackIdentifiers.Inc()
		b.logger.Warn().
			Str("event", def.Name).
			Msg("no stable identifier in payload, generated a random one")
	}

	return domain.CanonicalEvent{
		Name:         def.Name,
		Time:         b.eventTime(extracted),
		ActionSource: b.actionSource(extracted),
		EventID:      stableID + "_" + def.Name,
		Identity:     b.buildIdentity(extracted, conn, stableID),
		Attributes:   b.buildAttributes(def, extracted, stableID),
	}
}

// eventTime prefers an authoritative upstream timestamp (the affiliate
// family reports when the registration or deposit actually happened) over
// the wall clock at delivery time.
func (b *Builder) eventTime(extracted domain.ExtractedVariables) int64 {
	if ts, ok := vals.UnixTime(extracted.Var(eventTimeAlias...)); ok {
		return ts
	}
	return b.now().Unix()
}

func (b *Builder) actionSource(extracted domain.ExtractedVariables) domain.ActionSource {
	if extracted.Source == domain.ActionSourceChat {
		return b.chatSource
	}
	return extracted.Source
}

func (b *Builder) buildIdentity(
	extracted domain.ExtractedVariables,
	conn domain.ConnectionContext,
	stableID string,
) domain.IdentityAttributes {
	return domain.IdentityAttributes{
		LeadID:          stableID,
		BrowserPixelID:  extracted.Var("fbp"),
		BrowserClickID:  extracted.Var("fbc"),
		ExternalIDHash:  identity.Hash(extracted.ConversationID),
		ClientIP:        conn.IP,
		ClientUserAgent: conn.UserAgent,
		EmailHash:       identity.Hash(identity.NormalizeEmail(extracted.Var(emailAliases...))),
		PhoneHash:       identity.Hash(identity.NormalizePhone(extracted.Var(phoneAliases...))),
	}
}

// buildAttributes merges the contextual attributes over a fixed whitelist.
// Precedence: tracking fields, then the stable identifier, then the
// source-specific identifier, then the definition's static extras. Earlier
// entries win; empty values are never emitted.
func (b *Builder) buildAttributes(
	def domain.EventDefinition,
	extracted domain.ExtractedVariables,
	stableID string,
) map[string]any {
	attrs := make(map[string]any)
	put := func(key string, value any) {
		if _, taken := attrs[key]; taken {
			return
		}
		if s, isStr := value.(string); isStr && s == "" {
			return
		}
		attrs[key] = value
	}

	for _, field := range trackingFields {
		put(field, extracted.Var(field))
	}

	if amount, ok := vals.Amount(extracted.Var(valueAliases...)); ok {
		put("value", amount)
	} else if def.ValueBearing {
		// The sink requires a value field for value-optimized event types.
		put("value", float64(0))
	}
	if _, hasValue := attrs["value"]; hasValue {
		currency := extracted.Var("currency")
		if currency == "" && def.ValueBearing {
			currency = b.defaultCurrency
		}
		put("currency", currency)
	}

	put("lead_id", stableID)

	switch extracted.Source {
	case domain.ActionSourceWebsite:
		put("click_id", extracted.ConversationID)
	default:
		put("telegram_id", extracted.ConversationID)
	}

	for key, value := range def.Extra {
		put(key, value)
	}

	return attrs
}
