package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"isdialogmote/internal/dialogmote/ports"
)

var _ ports.InAppNotifier = (*Varselbus)(nil)

// Varselbus puts in-app notifications for the employee on the shared
// notification topic, keyed by notice uuid.
type Varselbus struct {
	bus   ports.EventBus
	topic string
	// link is where the notification points the employee.
	link string
}

func NewVarselbus(bus ports.EventBus, topic, link string) *Varselbus {
	return &Varselbus{bus: bus, topic: topic, link: link}
}

type varselbusMessage struct {
	Type        string    `json:"type"`
	VarselUUID  string    `json:"varselUuid"`
	MoteUUID    string    `json:"dialogmoteUuid"`
	PersonIdent string    `json:"mottakerFnr"`
	Link        string    `json:"lenke"`
	CreatedAt   time.Time `json:"opprettet"`
}

func (v *Varselbus) Notify(ctx context.Context, n ports.InAppNotification) error {
	payload, err := json.Marshal(varselbusMessage{
		Type:        "SM_DIALOGMOTE_" + string(n.Type),
		VarselUUID:  n.VarselUUID.String(),
		MoteUUID:    n.MoteUUID.String(),
		PersonIdent: n.PersonIdent.String(),
		Link:        v.link,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode in-app notification: %w", err)
	}
	return v.bus.Publish(ctx, v.topic, n.VarselUUID.String(), payload)
}
