package domain

// ActionSource tells the attribution API where the real-world action happened.
type ActionSource string

const (
	ActionSourceChat    ActionSource = "chat"
	ActionSourceWebsite ActionSource = "website"
)

// ExtractedVariables is the canonical variable bag pulled out of one inbound
// request, regardless of which upstream family delivered it. Immutable after
// extraction.
type ExtractedVariables struct {
	Vars           map[string]string
	ConversationID string
	Title          string
	Source         ActionSource
}

// Var returns the first non-empty value among the given variable names.
func (e ExtractedVariables) Var(names ...string) string {
	for _, name := range names {
		if v := e.Vars[name]; v != "" {
			return v
		}
	}
	return ""
}

// EventDefinition is one row of the event registry. Read-only after load.
type EventDefinition struct {
	Key          string            `yaml:"key"`
	Name         string            `yaml:"name"`
	ValueBearing bool              `yaml:"value_bearing"`
	Extra        map[string]string `yaml:"extra"`
}

// IdentityAttributes carries the matching keys for the attribution API.
// Hash fields hold lowercase hex sha256 over a normalized pre-image and are
// empty only when the pre-image was empty; empty fields are omitted on the
// wire, never sent as "".
type IdentityAttributes struct {
	LeadID          string `json:"lead_id,omitempty"`
	BrowserPixelID  string `json:"fbp,omitempty"`
	BrowserClickID  string `json:"fbc,omitempty"`
	ExternalIDHash  string `json:"external_id,omitempty"`
	ClientIP        string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`
	EmailHash       string `json:"em,omitempty"`
	PhoneHash       string `json:"ph,omitempty"`
}

// CanonicalEvent is the unit handed to the dispatch sink.
type CanonicalEvent struct {
	Name         string
	Time         int64
	ActionSource ActionSource
	EventID      string
	Identity     IdentityAttributes
	Attributes   map[string]any
}

// ConnectionContext is what the boundary layer knows about the caller's
// network connection.
type ConnectionContext struct {
	IP        string
	UserAgent string
}
