package kafka

import (
	"context"
	"time"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/run"
	"github.com/Jhuly1215/SimulacionInvasores/internal/infrastructure/monitoring/logging"
)

// Publisher is the subset of Producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// EventPublisher turns run lifecycle transitions into envelopes.  Step
// events are only sent when publishSteps is set.
type EventPublisher struct {
	producer     Publisher
	source       string
	publishSteps bool
	logger       logging.Logger
	now          func() time.Time
}

// NewEventPublisher writes through producer, stamping envelopes with source.
func NewEventPublisher(producer Publisher, source string, publishSteps bool, log logging.Logger) *EventPublisher {
	return &EventPublisher{
		producer:     producer,
		source:       source,
		publishSteps: publishSteps,
		logger:       logging.OrNop(log),
		now:          time.Now,
	}
}

// RunCompleted publishes simulation.completed for rec.
func (p *EventPublisher) RunCompleted(ctx context.Context, rec *run.Record) error {
	payload := SimulationCompletedPayload{
		RunID:       rec.RunID,
		Region:      rec.Region,
		Species:     rec.Parameters.Species.Name,
		Outputs:     rec.Timesteps,
		CompletedAt: p.now().UTC(),
	}
	if s := rec.Summary; s != nil {
		payload.Steps = s.Steps
		payload.Years = s.Years
		payload.Occupied = s.Final.Occupied
		payload.AreaKm2 = s.Final.AreaKm2
		payload.PeakOccupied = s.PeakOccupied
		payload.JumpsLanded = s.JumpsLanded
		payload.JumpsDropped = s.JumpsDropped
	}
	return p.send(ctx, TopicSimulationCompleted, rec, payload)
}

// RunFailed publishes simulation.failed for rec.
func (p *EventPublisher) RunFailed(ctx context.Context, rec *run.Record) error {
	payload := SimulationFailedPayload{
		RunID:     rec.RunID,
		Region:    rec.Region,
		Species:   rec.Parameters.Species.Name,
		ErrorCode: rec.ErrorCode,
		Error:     rec.Error,
		FailedAt:  p.now().UTC(),
	}
	if rec.Summary != nil {
		payload.StepsCompleted = rec.Summary.Steps
	}
	return p.send(ctx, TopicSimulationFailed, rec, payload)
}

// StepCompleted publishes simulation.step when step events are enabled.
func (p *EventPublisher) StepCompleted(ctx context.Context, rec *run.Record, step run.StepRecord) error {
	if !p.publishSteps {
		return nil
	}
	return p.send(ctx, TopicSimulationStep, rec, SimulationStepPayload{RunID: rec.RunID, Region: rec.Region, Step: step})
}

func (p *EventPublisher) send(ctx context.Context, topic string, rec *run.Record, payload interface{}) error {
	env, err := NewEventEnvelope(topic, p.source, payload)
	if err != nil {
		return err
	}
	env.Metadata = map[string]string{"run_id": rec.RunID}
	msg, err := env.ToMessage(topic, rec.Region)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		p.logger.Warn("Failed to publish simulation event",
			logging.String("topic", topic),
			logging.String("run_id", rec.RunID),
			logging.Err(err))
		return err
	}
	return nil
}

//Personal.AI order the ending
