package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/medmod/internal/common"
)

var tracer = otel.Tracer("github.com/dmitrijs2005/medmod/internal/server/services")

// finish records err on span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, common.KindOf(err).String())
	}
	span.End()
}
