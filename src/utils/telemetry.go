package utils

import (
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// SpanContextDTO carries a span context across a message broker.
type SpanContextDTO struct {
	TraceID    string `json:"trace_id"`
	SpanID     string `json:"span_id"`
	TraceFlags byte   `json:"trace_flags"`
	TraceState string `json:"trace_state"`
	IsRemote   bool   `json:"is_remote"`
}

func EncodeSpanContext(sc trace.SpanContext) ([]byte, error) {
	if !sc.IsValid() {
		return nil, fmt.Errorf("EncodeSpanContext: invalid span context")
	}

	return json.Marshal(SpanContextDTO{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		TraceFlags: byte(sc.TraceFlags()),
		TraceState: sc.TraceState().String(),
		IsRemote:   sc.IsRemote(),
	})
}

// DecodeSpanContext returns the span context marked as remote.
func DecodeSpanContext(data []byte) (trace.SpanContext, error) {
	var dto SpanContextDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return trace.SpanContext{}, fmt.Errorf("DecodeSpanContext: %w", err)
	}

	traceID, err := trace.TraceIDFromHex(dto.TraceID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DecodeSpanContext: trace id: %w", err)
	}

	spanID, err := trace.SpanIDFromHex(dto.SpanID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DecodeSpanContext: span id: %w", err)
	}

	traceState, err := trace.ParseTraceState(dto.TraceState)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("DecodeSpanContext: trace state: %w", err)
	}

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.TraceFlags(dto.TraceFlags),
		TraceState: traceState,
		Remote:     true,
	}), nil
}
