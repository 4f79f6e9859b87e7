package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrParseFailure 页面结构异常到无法解析
var ErrParseFailure = errors.New("页面解析失败")

var tracer = otel.Tracer("github.com/LouYuanbo1/daadcrawler/internal/service/parser")

func load(raw string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	return doc, nil
}

// guard 把解析过程中的 panic 转成 ErrParseFailure,并记录到 span
func guard(span trace.Span, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrParseFailure, r)
	}
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}

func start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
