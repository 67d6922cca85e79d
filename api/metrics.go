package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kanban-mcp/domain"
)

const (
	boardEventName   = "kanban.board.call"
	boardEventDomain = "kanban"
)

var tracer = otel.Tracer("kanban-mcp/api")

// toolRequestMetrics collects per-call timings and outcomes for the board
// tool and emits them as one otel span plus one structured log event.
type toolRequestMetrics struct {
	logger         *log.Logger
	span           trace.Span
	start          time.Time
	decodeDuration time.Duration
	mutateDuration time.Duration
	tasksProjected int
	statusFilter   domain.Status
	errorStage     string
}

func newToolRequestMetrics(ctx context.Context, logger *log.Logger) *toolRequestMetrics {
	_, span := tracer.Start(ctx, boardEventName)
	return &toolRequestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}
}

func (m *toolRequestMetrics) ObserveDecode(d time.Duration) {
	if d > 0 {
		m.decodeDuration = d
	}
}

func (m *toolRequestMetrics) ObserveMutate(d time.Duration) {
	if d > 0 {
		m.mutateDuration = d
	}
}

func (m *toolRequestMetrics) SetTasksProjected(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksProjected = count
}

func (m *toolRequestMetrics) SetStatusFilter(filter domain.Status) {
	m.statusFilter = filter
}

func (m *toolRequestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

func (m *toolRequestMetrics) Log(created *domain.Task, err error) {
	if m == nil {
		return
	}

	fields := log.Fields{
		"event.name":      boardEventName,
		"event.domain":    boardEventDomain,
		"tool":            ToolKanbanBoard,
		"total_ms":        durationToMillis(time.Since(m.start)),
		"tasks_projected": m.tasksProjected,
		"task_created":    created != nil,
	}
	attrs := []attribute.KeyValue{
		attribute.String("kanban.tool", ToolKanbanBoard),
		attribute.Int("kanban.tasks_projected", m.tasksProjected),
		attribute.Bool("kanban.task_created", created != nil),
	}

	if m.decodeDuration > 0 {
		fields["decode_ms"] = durationToMillis(m.decodeDuration)
	}
	if m.mutateDuration > 0 {
		fields["mutate_ms"] = durationToMillis(m.mutateDuration)
	}
	if m.statusFilter != "" {
		fields["status_filter"] = string(m.statusFilter)
		attrs = append(attrs, attribute.String("kanban.status_filter", string(m.statusFilter)))
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
		attrs = append(attrs, attribute.String("kanban.error_stage", m.errorStage))
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	if m.span != nil {
		m.span.SetAttributes(attrs...)
		if err != nil {
			m.span.SetStatus(codes.Error, err.Error())
		}
		m.span.End()
	}
	if m.logger != nil {
		m.logger.WithFields(fields).Info("observability.event")
	}
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
