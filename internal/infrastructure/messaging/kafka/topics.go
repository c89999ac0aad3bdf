package kafka

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/run"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// Topic Constants
const (
	TopicSimulationCompleted = "simulation.completed"
	TopicSimulationFailed    = "simulation.failed"
	TopicSimulationStep      = "simulation.step"
)

// SchemaVersion of every envelope this package writes.
const SchemaVersion = "v1"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Payload structs

type SimulationCompletedPayload struct {
	RunID        string    `json:"run_id"`
	Region       string    `json:"region"`
	Species      string    `json:"species"`
	Steps        int       `json:"steps"`
	Years        float64   `json:"years"`
	Outputs      []string  `json:"outputs"`
	Occupied     int       `json:"occupied"`
	AreaKm2      float64   `json:"area_km2"`
	PeakOccupied int       `json:"peak_occupied"`
	JumpsLanded  int       `json:"jumps_landed"`
	JumpsDropped int       `json:"jumps_dropped"`
	CompletedAt  time.Time `json:"completed_at"`
}

type SimulationFailedPayload struct {
	RunID          string    `json:"run_id"`
	Region         string    `json:"region"`
	Species        string    `json:"species"`
	ErrorCode      string    `json:"error_code"`
	Error          string    `json:"error"`
	StepsCompleted int       `json:"steps_completed"`
	FailedAt       time.Time `json:"failed_at"`
}

type SimulationStepPayload struct {
	RunID  string         `json:"run_id"`
	Region string         `json:"region"`
	Step   run.StepRecord `json:"step"`
}

// Helper functions for EventEnvelope

func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       data,
	}, nil
}

func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeValidation, "envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal payload")
	}
	return nil
}

// ToMessage encodes e for topic, keyed by key so every event of one region
// lands on the same partition.
func (e *EventEnvelope) ToMessage(topic, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

func MessageToEventEnvelope(msg kafka.Message) (*EventEnvelope, error) {
	if len(msg.Value) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "empty message value")
	}
	var env EventEnvelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return &env, nil
}

func sortedHeaderKeys(h map[string]string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
