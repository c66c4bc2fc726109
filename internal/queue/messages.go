package queue

import (
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
)

// Rebuild trigger reasons.
const (
	ReasonClassificationRun = "classification_run"
	ReasonEdgeRefresh       = "edge_refresh"
	ReasonContourApproved   = "contour_approved"
)

// RebuildMsg asks the worker to rebuild the graph snapshot.
type RebuildMsg struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// PublishRebuild enqueues a rebuild trigger.
func PublishRebuild(ch *amqp091.Channel, msg RebuildMsg) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return PublishFIFO(ch, RebuildQueue, data)
}
