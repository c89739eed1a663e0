package meta

import "github.com/leshachaplin/convgate/internal/domain"

// The API expects a batch body even for a single event.
type request struct {
	Data []event `json:"data"`
}

type event struct {
	EventName    string                    `json:"event_name"`
	EventTime    int64                     `json:"event_time"`
	ActionSource string                    `json:"action_source"`
	EventID      string                    `json:"event_id"`
	UserData     domain.IdentityAttributes `json:"user_data"`
	CustomData   map[string]any            `json:"custom_data,omitempty"`
}

func requestFromDomain(e domain.CanonicalEvent) request {
	return request{
		Data: []event{{
			EventName:    e.Name,
			EventTime:    e.Time,
			ActionSource: string(e.ActionSource),
			EventID:      e.EventID,
			UserData:     e.Identity,
			CustomData:   e.Attributes,
		}},
	}
}
